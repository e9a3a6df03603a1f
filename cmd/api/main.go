package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dealerhub/outflow/internal/api"
	"github.com/dealerhub/outflow/internal/api/middleware"
	"github.com/dealerhub/outflow/internal/archive"
	"github.com/dealerhub/outflow/internal/config"
	"github.com/dealerhub/outflow/internal/logger"
	"github.com/dealerhub/outflow/internal/mail"
	"github.com/dealerhub/outflow/internal/repository"
	"github.com/dealerhub/outflow/internal/service"
)

func main() {
	// Load configuration
	// Support CONFIG_PATH environment variable for production deployments
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logCfg := logger.DefaultConfig()
	logCfg.Level = cfg.Log.Level
	logCfg.Format = cfg.Log.Format
	logCfg.LogFile = cfg.Log.File
	logCfg.LogFileOnly = cfg.Log.FileOnly
	logger.SetDefaultLogger(logger.New(logCfg))
	defer logger.Sync()

	// Initialize database
	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database: %v", err)
	}

	// Initialize repositories
	workflowRepo := repository.NewWorkflowRepository(db)
	statsRepo := repository.NewStatsRepository(db)
	deliveryRepo := repository.NewDeliveryRepository(db)

	// Initialize mail collaborator
	var mailer mail.Mailer = mail.Noop{}
	if cfg.Mail.Enabled {
		mailer = mail.NewRelayClient(&mail.RelayConfig{
			RelayURL: cfg.Mail.RelayURL,
			APIKey:   cfg.Mail.APIKey,
			From:     cfg.Mail.From,
		})
		logger.Info("Mail relay enabled: %s", cfg.Mail.RelayURL)
	}

	// Initialize delivery archive
	ctx := context.Background()
	var deliveryArchive archive.Archive
	if cfg.Archive.Enabled {
		s3Archive, err := archive.NewS3Archive(&archive.S3Config{
			Endpoint:  cfg.Archive.Endpoint,
			AccessKey: cfg.Archive.AccessKey,
			SecretKey: cfg.Archive.SecretKey,
			UseSSL:    cfg.Archive.UseSSL,
			Bucket:    cfg.Archive.Bucket,
			Region:    cfg.Archive.Region,
		})
		if err != nil {
			logger.Fatal("Failed to initialize delivery archive: %v", err)
		}
		if err := s3Archive.EnsureBucket(ctx); err != nil {
			logger.Fatal("Failed to ensure archive bucket: %v", err)
		}
		deliveryArchive = s3Archive
	}

	// Initialize pipeline services
	dispatcher := service.NewDispatchService(&service.DispatchConfig{
		RequestTimeout: cfg.Dispatch.RequestTimeout,
	})
	notifier := service.NewNotifier(mailer)

	engine := service.NewEngine(
		workflowRepo,
		statsRepo,
		deliveryRepo,
		dispatcher,
		notifier,
		deliveryArchive,
		&service.EngineConfig{
			Workers:   cfg.Dispatch.Workers,
			QueueSize: cfg.Dispatch.QueueSize,
		},
	)
	engine.Start(ctx)

	// Setup router
	router := api.SetupRouter(
		workflowRepo,
		statsRepo,
		deliveryRepo,
		engine,
		cfg.Server.Mode,
		middleware.CORSConfig{
			AllowedOrigins:  cfg.Server.CORS.AllowedOrigins,
			AllowAllOrigins: cfg.Server.CORS.AllowAllOrigins,
		},
	)

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting API server on port %d (mode=%s)", cfg.Server.Port, cfg.Server.Mode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout; drain queued dispatches first
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown: %v", err)
	}

	engine.Stop()
	logger.Info("Server exited")
}
