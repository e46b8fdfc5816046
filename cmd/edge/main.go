// cmd/edge/main.go
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/escoteiros/scout-inventory/internal/adapters/mongo"
	"github.com/escoteiros/scout-inventory/internal/app"
	"github.com/escoteiros/scout-inventory/internal/handlers"
	"github.com/escoteiros/scout-inventory/internal/handlers/middleware"
	"github.com/escoteiros/scout-inventory/internal/pkg/config"
	"github.com/escoteiros/scout-inventory/internal/pkg/logger"
)

// Build information injected at compile time
var Version = "dev"

func main() {
	slogger := logger.SetupLogger("info", "json")

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	slogger.Info("starting functions server",
		slog.String("version", Version),
		slog.String("environment", cfg.App.Environment),
	)

	ctx := context.Background()

	client, err := app.ConnectMongo(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to connect to document store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := client.Close(context.Background()); err != nil {
			slogger.Error("failed to close document store", slog.String("error", err.Error()))
		}
	}()

	mux := http.NewServeMux()
	handlers.NewFunctionsHandler(mongo.NewBackend(client, slogger), slogger).Routes(mux)

	server := &http.Server{
		Addr: cfg.GetEdgeAddress(),
		Handler: middleware.Chain(mux,
			middleware.Recovery(slogger),
			middleware.RequestID(cfg.Security.RequestIDHeader),
			middleware.Logger(slogger),
			middleware.CORS([]string{"*"}),
			middleware.MaxBody(int64(cfg.Server.MaxUploadMB)<<20),
		),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(slogger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		slogger.Info("listening", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogger.Error("server error", slog.String("error", err.Error()))
		}
	case sig := <-shutdown:
		slogger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slogger.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
			server.Close()
		}
		slogger.Info("functions server stopped")
	}
}
