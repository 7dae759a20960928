package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Topsis/internal/api"
	"github.com/MikeSquared-Agency/Topsis/internal/dataset"
	"github.com/MikeSquared-Agency/Topsis/internal/hermes"
	"github.com/MikeSquared-Agency/Topsis/internal/ranking"
	"github.com/MikeSquared-Agency/Topsis/internal/store"
)

func newServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and metrics servers",
		Long: `Serve the ranking API on server.port and /health plus /metrics on
server.metrics_port. Alternatives come from the Postgres catalog when
database.url is set and from dataset.path otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(parent context.Context) error {
	cfg, logger := a.cfg, a.logger

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Catalog (optional)
	var db store.Store
	if cfg.Database.URL != "" {
		pg, err := store.NewPostgresStore(ctx, cfg.Database.URL)
		if err != nil {
			return err
		}
		defer pg.Close()
		db = pg
		logger.Info("connected to database")
	}

	var source dataset.Source = &dataset.CSVSource{
		Path:             cfg.Dataset.Path,
		IDColumn:         cfg.Dataset.IDColumn,
		Columns:          cfg.Criteria.Names(),
		ImageURLTemplate: cfg.Dataset.ImageURLTemplate,
	}
	if db != nil {
		source = &dataset.StoreSource{
			Store:            db,
			IDColumn:         cfg.Dataset.IDColumn,
			Columns:          cfg.Criteria.Names(),
			ImageURLTemplate: cfg.Dataset.ImageURLTemplate,
		}
	}
	cache := dataset.NewCache(source, cfg.CacheTTL())

	// Hermes (optional)
	var hermesClient hermes.Client = hermes.NopClient{}
	if cfg.Hermes.URL != "" {
		hc, err := hermes.NewNATSClient(ctx, cfg.Hermes.URL, logger)
		if err != nil {
			logger.Warn("failed to connect to hermes, running without events", "error", err)
		} else {
			hermesClient = hc
			defer hc.Close()
			logger.Info("connected to hermes")
			if err := hc.Subscribe(hermes.SubjectCatalogUpdated, func(_ string, _ []byte) {
				cache.Invalidate()
				logger.Debug("dataset cache invalidated by catalog update")
			}); err != nil {
				logger.Warn("failed to subscribe to catalog updates", "error", err)
			}
		}
	}

	ds, err := cache.Load(ctx)
	if err != nil {
		return fmt.Errorf("initial dataset load: %w", err)
	}
	logger.Info("dataset loaded", "alternatives", ds.Len(), "criteria", len(ds.Columns))

	svc := ranking.New(cache, cfg.Criteria, a.engine(), hermesClient, a.rankingOptions(), logger)

	// API server
	apiServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           api.NewRouter(svc, db, hermesClient, cache.Invalidate, cfg.Server, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Metrics server
	metricsServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler:           api.NewMetricsRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Info("API server starting", "port", cfg.Server.Port)
		if err := apiServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("API server: %w", err)
		}
	}()
	go func() {
		logger.Info("metrics server starting", "port", cfg.Server.MetricsPort)
		if err := metricsServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("metrics server: %w", err)
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
		logger.Error("server error", "error", serveErr)
	}

	logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = apiServer.Shutdown(shutdownCtx)
	_ = metricsServer.Shutdown(shutdownCtx)

	logger.Info("shutdown complete")
	return serveErr
}
