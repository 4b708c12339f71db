package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/gonsam85/assets/internal/adapter/repository/filestore"
	"github.com/gonsam85/assets/internal/adapter/repository/postgres"
	"github.com/gonsam85/assets/internal/adapter/yahoo"
	"github.com/gonsam85/assets/internal/config"
	"github.com/gonsam85/assets/internal/domain"
	"github.com/gonsam85/assets/internal/metrics"
	"github.com/gonsam85/assets/internal/usecase/portfolio"
	"github.com/gonsam85/assets/internal/usecase/quote"
	"github.com/gonsam85/assets/internal/usecase/seeder"
	"github.com/gonsam85/assets/internal/usecase/settings"
	"github.com/gonsam85/assets/internal/usecase/valuation"
)

// app holds the wired services shared by every command
type app struct {
	metrics   *metrics.Metrics
	portfolio *portfolio.PortfolioService
	settings  *settings.SettingsService
	quotes    *quote.QuoteService
	valuation *valuation.ValuationService
	close     func() error
}

func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*app, error) {
	// 1. Setup stores
	assetStore, settingsStore, closeStores, err := openStores(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	// 2. Seed the demonstration set on first run
	if _, err := seeder.NewDemoSeeder(assetStore, log).Seed(ctx); err != nil {
		closeStores()
		return nil, fmt.Errorf("failed to seed demo assets: %w", err)
	}

	// 3. Initialize Services (Use Cases)
	portfolioService := portfolio.NewPortfolioService(assetStore, log)
	if err := portfolioService.Load(ctx); err != nil {
		closeStores()
		return nil, err
	}

	settingsService := settings.NewSettingsService(settingsStore)
	if err := settingsService.Load(ctx); err != nil {
		closeStores()
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	m := metrics.NewMetrics(reg)

	// 4. Quote sources, constructed once and shared
	quoteService, err := newQuoteService(cfg, m, log)
	if err != nil {
		closeStores()
		return nil, err
	}

	valuationService := valuation.NewValuationService(portfolioService, quoteService, valuation.Options{
		FXTicker:      cfg.FXTicker,
		DefaultFXRate: cfg.DefaultFXRate,
	}, m, log)

	return &app{
		metrics:   m,
		portfolio: portfolioService,
		settings:  settingsService,
		quotes:    quoteService,
		valuation: valuationService,
		close:     closeStores,
	}, nil
}

// newQuoteService wires the primary batch source and the per-symbol fallback
func newQuoteService(cfg *config.Config, m *metrics.Metrics, log zerolog.Logger) (*quote.QuoteService, error) {
	primary, err := yahoo.NewQuoteClient(yahoo.QuoteClientOptions{
		BaseURL:    cfg.PrimaryBaseURL,
		SessionURL: cfg.SessionURL,
		UserAgent:  cfg.UserAgent,
		Timeout:    cfg.QuoteTimeout,
	}, log)
	if err != nil {
		return nil, err
	}
	fallback := yahoo.NewChartClient(cfg.FallbackBaseURL, cfg.UserAgent, cfg.QuoteTimeout, log)

	return quote.NewQuoteService(primary, fallback, m, log), nil
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (domain.AssetStore, domain.SettingsStore, func() error, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		db, err := postgres.NewDB(ctx, cfg.DBConnStr)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := db.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, nil, err
		}
		log.Info().Msg("Using PostgreSQL store")
		return postgres.NewAssetStore(db, cfg.StoreKey), postgres.NewSettingsStore(db, cfg.StoreKey), db.Close, nil

	case config.StoreDriverFile:
		store, err := filestore.NewStore(cfg.DataDir, cfg.StoreKey)
		if err != nil {
			return nil, nil, nil, err
		}
		log.Info().Msgf("Using file store in %s", cfg.DataDir)
		return store, store, func() error { return nil }, nil
	}
	return nil, nil, nil, errors.New("unknown store driver: " + cfg.StoreDriver)
}
