package main

// @title Parking Zone Service API
// @version 1.0.0
// @description Привязка адресов к зонам уборки улиц и вывод расписаний уборки по истории наблюдений.
// @description
// @description Основные возможности:
// @description - Привязка адресов к ближайшей зоне не дальше 50 метров (пять алгоритмов)
// @description - Сравнение алгоритмов на одних данных
// @description - Вывод периодического расписания уборки и проверка адреса
//
// @contact.name API Support
//
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
//
// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	_ "github.com/parking-zone-service/docs"
	"github.com/parking-zone-service/internal/config"
	httpDelivery "github.com/parking-zone-service/internal/delivery/http"
	"github.com/parking-zone-service/internal/delivery/http/handler"
	"github.com/parking-zone-service/internal/observability"
	"github.com/parking-zone-service/internal/pkg/logger"
	"github.com/parking-zone-service/internal/repository/cache"
	"github.com/parking-zone-service/internal/spatial"
	"github.com/parking-zone-service/internal/usecase"
)

// version подставляется через -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, "api")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Parking Zone Service", zap.String("version", version))

	algorithm, err := spatial.ParseAlgorithm(cfg.Correlation.Algorithm)
	if err != nil {
		log.Fatal("Invalid CORRELATION_ALGORITHM", zap.Error(err))
	}

	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("algorithm", string(algorithm)),
		zap.Int("parallelism", cfg.Correlation.Parallelism),
		zap.Float64("min_confidence", cfg.Schedule.MinConfidence),
	)

	// 3. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Health(ctx); err != nil {
		log.Fatal("Redis health check failed", zap.Error(err))
	}
	log.Info("Redis connected")

	// 4. Repositories and metrics
	cacheRepo := cache.NewCacheRepository(redisClient)
	metrics := observability.NewMetrics()

	// 5. Use cases
	correlationUC := usecase.NewCorrelationUseCase(
		algorithm,
		cfg.Correlation.Parallelism,
		metrics,
		log,
	)

	scheduleUC := usecase.NewScheduleUseCase(
		cacheRepo,
		clockwork.NewRealClock(),
		metrics,
		log,
		cfg.Schedule.MinConfidence,
		cfg.Cache.ScheduleCacheTTL,
		version,
	)

	// 6. HTTP handlers and server
	server := httpDelivery.NewServer(
		cfg,
		log,
		metrics,
		handler.NewCorrelationHandler(correlationUC, log),
		handler.NewScheduleHandler(scheduleUC, log),
	)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 7. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	if err := redisClient.Close(); err != nil {
		log.Error("Failed to close Redis", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
