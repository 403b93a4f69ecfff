package api

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dhima/event-trigger-service/internal/auth"
	"github.com/dhima/event-trigger-service/internal/events"
	"github.com/dhima/event-trigger-service/internal/logging"
	"github.com/dhima/event-trigger-service/internal/logs"
	"github.com/dhima/event-trigger-service/internal/storage"
	"github.com/dhima/event-trigger-service/internal/triggers"
	"github.com/dhima/event-trigger-service/internal/users"
	"github.com/dhima/event-trigger-service/pkg/clock"
	"github.com/dhima/event-trigger-service/pkg/config"
	platformEvents "github.com/dhima/event-trigger-service/platform/events"
)

// Server orchestrates HTTP routing and dependencies for the API service.
type Server struct {
	config    config.App
	logger    logging.Logger
	router    *gin.Engine
	db        *sql.DB
	publisher *platformEvents.Publisher
}

// NewServer wires the API dependencies together.
func NewServer() *Server {
	cfg := config.FromEnv()

	logger, err := logging.NewLogger(cfg.Environment, cfg.LogLevel, cfg.LogEncoding)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	db := connectDatabase(cfg, logger)
	store := storage.NewMySQLClient(db)
	zapLogger := logger.Zap()

	tokens, err := auth.NewTokenService(cfg.Auth.SecretKey, cfg.Auth.Algorithm, cfg.Auth.AccessTokenTTL, clock.RealClock{})
	if err != nil {
		logger.Fatal("invalid token configuration", zap.Error(err))
	}

	server := &Server{
		config: cfg,
		logger: logger,
		db:     db,
	}

	engineOpts := []triggers.Option{triggers.WithMaxResponseBytes(cfg.Trigger.MaxResponseBytes)}
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		server.publisher = platformEvents.NewPublisher(brokers, cfg.KafkaTopic, zapLogger)
		engineOpts = append(engineOpts, triggers.WithPublisher(server.publisher))
		logger.Info("trigger outcome publishing enabled",
			zap.Strings("brokers", brokers),
			zap.String("topic", cfg.KafkaTopic),
		)
	}

	userService := users.NewService(store, tokens, zapLogger)
	server.router = NewRouter(logger, Dependencies{
		Gate:     auth.NewGate(tokens, store),
		Auth:     userService,
		Users:    userService,
		Events:   events.NewService(store, zapLogger),
		Triggers: triggers.NewEngine(store, cfg.Trigger.Timeout, zapLogger, engineOpts...),
		Logs:     logs.NewService(store, zapLogger),
		Stats:    store,
		DB:       db,
	}, cfg.CORSOrigins)

	return server
}

// Serve starts the HTTP server with graceful shutdown support.
func (s *Server) Serve() error {
	addr := ":" + s.config.APIPort
	srv := &http.Server{
		Addr:    addr,
		Handler: s.router,
		// Outbound trigger calls run inside the request, so the write timeout
		// must outlast the trigger timeout.
		ReadTimeout:  15 * time.Second,
		WriteTimeout: s.config.Trigger.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		s.logger.Info("starting API server",
			zap.String("address", addr),
			zap.String("environment", s.config.Environment),
			zap.String("log_level", s.config.LogLevel),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-quit
	s.logger.Info("shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		s.logger.Error("server forced to shutdown", zap.Error(err))
		return err
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			s.logger.Error("failed to close outcome publisher", zap.Error(err))
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("failed to close database connection", zap.Error(err))
		}
	}

	if err := s.logger.Sync(); err != nil {
		// Ignore sync errors on stdout/stderr
		if err.Error() != "sync /dev/stdout: invalid argument" &&
			err.Error() != "sync /dev/stderr: invalid argument" {
			return err
		}
	}

	s.logger.Info("server stopped")
	return nil
}

func connectDatabase(cfg config.App, logger logging.Logger) *sql.DB {
	if cfg.DatabaseURL == "" {
		logger.Fatal("DATABASE_URL is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := storage.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	return db
}
