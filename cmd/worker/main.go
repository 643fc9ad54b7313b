package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/parking-zone-service/internal/config"
	"github.com/parking-zone-service/internal/observability"
	"github.com/parking-zone-service/internal/pkg/logger"
	"github.com/parking-zone-service/internal/repository/cache"
	redisRepo "github.com/parking-zone-service/internal/repository/redis"
	"github.com/parking-zone-service/internal/spatial"
	"github.com/parking-zone-service/internal/usecase"
	"github.com/parking-zone-service/internal/worker"
	"github.com/parking-zone-service/internal/worker/correlation"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, "worker")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	algorithm, err := spatial.ParseAlgorithm(cfg.Correlation.Algorithm)
	if err != nil {
		log.Fatal("Invalid CORRELATION_ALGORITHM", zap.Error(err))
	}

	log.Info("Starting Zone Correlation Worker",
		zap.String("consumer_group", cfg.Worker.ConsumerGroup),
		zap.Int("max_retries", cfg.Worker.MaxRetries),
		zap.String("default_algorithm", string(algorithm)))

	// 3. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	// 4. Repositories, use cases, workers
	streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), log)
	metrics := observability.NewMetrics()

	correlationUC := usecase.NewCorrelationUseCase(algorithm, cfg.Correlation.Parallelism, metrics, log)

	correlationWorker := correlation.NewWorker(
		streamRepo,
		correlationUC,
		metrics,
		cfg.Worker.ConsumerGroup,
		cfg.Worker.MaxRetries,
		cfg.Worker.StreamReadTimeout,
		cfg.Worker.PendingMinIdle,
		clockwork.NewRealClock(),
		log,
	)

	workerManager := worker.NewWorkerManager(worker.DefaultShutdownTimeout, log)
	if err := workerManager.Register(correlationWorker); err != nil {
		log.Fatal("Failed to register worker", zap.Error(err))
	}

	// 5. Start and wait for shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Info("Received shutdown signal")

	// Stop сначала даёт воркерам дописать текущие задачи, затем отменяем контекст
	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}
	cancel()

	log.Info("Worker shutdown complete")
}
