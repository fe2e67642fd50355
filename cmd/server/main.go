// Package main is the entry point for the QualityHub AI service.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/qualityhub/ai-service/internal/config"
	"github.com/qualityhub/ai-service/internal/handler"
	"github.com/qualityhub/ai-service/internal/security"
	"github.com/qualityhub/ai-service/internal/ui"
)

func main() {
	// .env is optional; real deployments set environment variables directly.
	_ = godotenv.Load()

	settings, err := config.Load(os.Getenv("QH_CONFIG_PATH"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := setupLogger(settings)

	logger.Info("configuration loaded",
		slog.String("environment", settings.App.Environment),
		slog.String("host", settings.Server.Host),
		slog.Int("port", settings.Server.Port),
		slog.String("default_provider", settings.AI.DefaultProvider),
	)

	_, provider, useAI := handler.ResolveProvider(settings)
	if !useAI {
		logger.Warn("no LLM API keys configured, generation runs in mock mode")
	}

	router := handler.NewRouter(settings, logger)

	addr := fmt.Sprintf("%s:%d", settings.Server.Host, settings.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(settings.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(settings.Server.WriteTimeoutSeconds) * time.Second,
	}

	go func() {
		logger.Info("server starting", slog.String("address", addr))
		ui.PrintBanner(settings.App.Name, settings.App.Version)
		ui.PrintStartupInfo(settings.Server.Host, settings.Server.Port, provider, useAI)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutdown signal received", slog.String("signal", sig.String()))
	ui.PrintShutdown()

	shutdownTimeout := time.Duration(settings.Server.ShutdownTimeoutSeconds) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
	ui.PrintGoodbye()
}

// setupLogger creates the structured JSON logger with credential redaction
// and installs it as the process default.
func setupLogger(settings *config.Settings) *slog.Logger {
	level := slog.LevelInfo
	switch settings.App.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	jsonHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	logger := slog.New(security.NewRedactedHandler(jsonHandler))
	slog.SetDefault(logger)

	return logger
}
