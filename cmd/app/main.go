package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"custody/cmd"
	httpin "custody/internal/adapters/in/http"
	"custody/internal/core/ports"

	"github.com/labstack/gommon/log"
)

func main() {
	config, err := cmd.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	logger := newLogger(config.LogLevel)

	uowFactory, closeStorage, err := cmd.OpenStorage(config, logger)
	if err != nil {
		log.Fatalf("Error opening storage: %v", err)
	}
	defer func() {
		if closeErr := closeStorage(); closeErr != nil {
			logger.Error("closing storage", "error", closeErr)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := cmd.NewCompositionRoot(config, uowFactory, ports.SystemClock{}, logger)

	jobManager, closeJobs, err := app.CreateJobManager(ctx)
	if err != nil {
		log.Fatalf("Error creating jobs: %v", err)
	}
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting jobs: %v", err)
	}
	defer func() {
		jobManager.StopAll()
		if closeErr := closeJobs(); closeErr != nil {
			logger.Error("closing job resources", "error", closeErr)
		}
	}()

	startWebServer(ctx, &app, config, logger)
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

func startWebServer(ctx context.Context, app *cmd.CompositionRoot, config cmd.Config, logger *slog.Logger) {
	e := httpin.NewEcho(app.CreateHTTPServer(), []byte(config.JWTSecret), logger)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- e.Start(fmt.Sprintf("0.0.0.0:%s", config.HTTPPort))
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server stopped", "error", err)
		}
		return
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
}
