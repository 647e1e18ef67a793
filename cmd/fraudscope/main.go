package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rewired-gh/fraudscope/internal/backend"
	"github.com/rewired-gh/fraudscope/internal/chart"
	"github.com/rewired-gh/fraudscope/internal/config"
	"github.com/rewired-gh/fraudscope/internal/diagnostics"
	"github.com/rewired-gh/fraudscope/internal/logger"
	"github.com/rewired-gh/fraudscope/internal/telegram"
	"github.com/rewired-gh/fraudscope/internal/web"
)

var configPath = flag.String("config", "configs/config.yaml", "Path to configuration file")

const shutdownTimeout = 10 * time.Second

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("Configuration loaded from %s", *configPath)

	client := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, backend.ClientConfig{
		DashboardPath: cfg.Backend.DashboardPath,
		PredictPath:   cfg.Backend.PredictPath,
	})

	// Operator diagnostics: always the error log, optionally Telegram
	diag := diagnostics.Multi{diagnostics.LogChannel{}}
	if cfg.Telegram.Enabled {
		telegramClient, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Telegram.MaxRetries, cfg.Telegram.RetryDelayBase)
		if err != nil {
			logger.Fatal("Failed to initialize Telegram client: %v", err)
		}
		diag = append(diag, telegramClient)
		logger.Info("Telegram diagnostics enabled")
	} else {
		logger.Debug("Telegram diagnostics disabled")
	}

	server, err := web.NewServer(client, client, chart.NewSVGRenderer(cfg.Charts.Width, cfg.Charts.Height), diag, web.Options{
		RateLimit:            cfg.Server.RateLimit,
		RateBurst:            cfg.Server.RateBurst,
		SerializeSubmissions: cfg.Predict.SerializeSubmissions,
	})
	if err != nil {
		logger.Fatal("Failed to initialize page host: %v", err)
	}

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      server.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Serving on %s (backend: %s)", cfg.Server.Addr, cfg.Backend.BaseURL)
		serveErr <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed: %v", err)
		}
	case <-ctx.Done():
		logger.Info("Shutdown signal received, cleaning up...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed: %v", err)
	}
	logger.Info("Service stopped")
}
