package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nijaru/yt-transcript/config"
	"github.com/nijaru/yt-transcript/db"
	"github.com/nijaru/yt-transcript/handlers"
	"github.com/nijaru/yt-transcript/logger"
	"github.com/nijaru/yt-transcript/transcription"
	"github.com/nijaru/yt-transcript/ytdlp"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.LoadConfig()

	logCloser, err := logger.Setup(logger.Config{
		Dir:    cfg.LogDir,
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	if err != nil {
		logrus.WithError(err).Fatal("Failed to set up logging")
	}
	defer logCloser.Close()

	if err := config.ValidateConfig(cfg); err != nil {
		logrus.WithError(err).Fatal("Invalid configuration")
	}

	runner := ytdlp.NewRunner(ytdlp.Config{
		Binary:   cfg.YtDlpPath,
		Language: cfg.SubLang,
		Timeout:  cfg.FetchTimeout,
	})
	if err := runner.Check(); err != nil {
		logrus.WithError(err).Warn("Subtitle tool not available, transcript requests will fail")
	}

	service := transcription.NewTranscriptionService(runner, transcription.Config{
		WorkDir:  cfg.WorkDir,
		Language: cfg.SubLang,
	})

	if cfg.DBPath != "" {
		if err := db.InitializeDB(cfg.DBPath); err != nil {
			logrus.WithError(err).Fatal("Failed to initialize database")
		}
		defer func() {
			if err := db.Close(); err != nil {
				logrus.WithError(err).Error("Failed to close database")
			}
		}()
		service.RecordFunc = db.RecordFetch
	}

	handlers.InitHandlers(cfg, service)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      handlers.Routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		logrus.WithField("port", cfg.ServerPort).Info("Starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("Could not listen on port")
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop

	logrus.Info("Shutting down the server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("Server shutdown failed")
	}
	logrus.Info("Server stopped")
}
