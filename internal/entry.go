// Package internal provides the main application initialization and runtime logic.
package internal

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

	"golang.org/x/sync/errgroup"

	"github.com/starford/fusiondocs/internal/api"
	"github.com/starford/fusiondocs/internal/doccache"
	"github.com/starford/fusiondocs/internal/docservice"
	"github.com/starford/fusiondocs/internal/extract"
	"github.com/starford/fusiondocs/internal/fetch"
	"github.com/starford/fusiondocs/internal/mcpserver"
	"github.com/starford/fusiondocs/internal/sse"
	"github.com/starford/fusiondocs/internal/storage"
	"github.com/starford/fusiondocs/internal/toctree"
)

// Version is the service version reported by health endpoints.
const Version = "1.0.1"

// NewService builds the documentation query service from configuration.
// Shared between the HTTP server and the offline analysis driver.
func NewService(cfg *Config, logger *slog.Logger, broker *sse.Broker) (*docservice.Service, error) {
	fs, err := storage.NewFS(cfg.Cache.Dir)
	if err != nil {
		return nil, fmt.Errorf("init cache storage: %w", err)
	}

	fetcher := fetch.New(
		fetch.WithUserAgent(cfg.Docs.UserAgent),
		fetch.WithMaxAttempts(cfg.Fetch.MaxAttempts),
		fetch.WithTimeout(cfg.Fetch.Timeout()),
		fetch.WithBackoffBase(cfg.Fetch.BackoffBase()),
		fetch.WithLogger(logger),
	)

	extractor, err := extract.New(cfg.Docs.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("init extractor: %w", err)
	}

	var loaderOpts []toctree.LoaderOption
	var cacheOpts []doccache.Option
	if broker != nil {
		loaderOpts = append(loaderOpts, toctree.WithNotify(func(source string) {
			broker.Publish(sse.Event{Type: "toctree.loaded", Data: map[string]string{"source": source}})
		}))
		cacheOpts = append(cacheOpts, doccache.WithNotify(func(id, url string) {
			broker.Publish(sse.Event{Type: "doc.fetched", Data: map[string]string{"id": id, "url": url}})
		}))
	}

	loader := toctree.NewLoader(fs, fetcher, cfg.Docs.ToctreeURL, logger, loaderOpts...)
	docs := doccache.New(fs, fetcher, logger, cacheOpts...)

	return docservice.New(loader, docs, extractor, logger), nil
}

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("cache_dir", cfg.Cache.Dir),
		slog.String("toctree_url", cfg.Docs.ToctreeURL),
		slog.String("log_level", cfg.App.LogLevel.String()))

	broker := sse.NewBroker()
	defer broker.Close()

	svc, err := NewService(cfg, logger, broker)
	if err != nil {
		return err
	}

	mcpSrv := mcpserver.New(svc)
	router := api.NewRouter(Version, mcpSrv.HTTPHandler(), broker)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: router,
	}

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
