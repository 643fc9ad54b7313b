package http

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	"github.com/parking-zone-service/internal/config"
	"github.com/parking-zone-service/internal/delivery/http/handler"
	"github.com/parking-zone-service/internal/delivery/http/middleware"
	"github.com/parking-zone-service/internal/observability"
	"github.com/parking-zone-service/internal/pkg/errors"
	"github.com/parking-zone-service/internal/pkg/utils"
)

// bodyLimit - пакет из 100k адресов и 100k зон помещается с запасом
const bodyLimit = 64 * 1024 * 1024

// Server - HTTP сервер на основе Fiber
type Server struct {
	app     *fiber.App
	config  *config.Config
	logger  *zap.Logger
	metrics *observability.Metrics

	// Handlers
	correlationHandler *handler.CorrelationHandler
	scheduleHandler    *handler.ScheduleHandler
}

// NewServer - создание нового HTTP сервера
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	metrics *observability.Metrics,
	correlationHandler *handler.CorrelationHandler,
	scheduleHandler *handler.ScheduleHandler,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Parking Zone Service",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
		BodyLimit:    bodyLimit,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:                app,
		config:             cfg,
		logger:             logger,
		metrics:            metrics,
		correlationHandler: correlationHandler,
		scheduleHandler:    scheduleHandler,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// setupMiddlewares - настройка middleware
func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS())
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// setupRoutes - настройка маршрутов
func (s *Server) setupRoutes() {
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)
	s.app.Get("/metrics", adaptor.HTTPHandler(s.metrics.Handler()))

	api := s.app.Group("/api/v1")

	api.Get("/health", s.scheduleHandler.Health)

	// Correlation routes
	api.Post("/correlate", s.correlationHandler.Correlate)
	api.Post("/correlate/benchmark", s.correlationHandler.Benchmark)

	// Schedule routes
	api.Post("/schedules/analyze", s.scheduleHandler.Analyze)
	api.Get("/schedules", s.scheduleHandler.List)
	api.Post("/schedules/check", s.scheduleHandler.Check)
}

// App - доступ к fiber.App для тестов
func (s *Server) App() *fiber.App {
	return s.app
}

// Start - запуск HTTP сервера
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler - ошибки fiber (404, 413, паники) в формате utils.ErrorResponse
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		var fe *fiber.Error
		if stderrors.As(err, &fe) {
			code = fe.Code
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Int("status", code),
			zap.Error(err),
		)

		appErr := errors.ErrInternalServer
		if code != fiber.StatusInternalServerError {
			appErr = errors.New("HTTP_ERROR", err.Error(), code)
		}
		return c.Status(code).JSON(utils.ErrorResponse{Error: appErr})
	}
}
