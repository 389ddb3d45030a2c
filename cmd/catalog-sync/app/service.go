package app

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/syncline/catalog-sync-server/internal/catalog"
	"github.com/syncline/catalog-sync-server/internal/config"
	"github.com/syncline/catalog-sync-server/internal/shop"
	"github.com/syncline/catalog-sync-server/internal/sync"
	"github.com/syncline/catalog-sync-server/internal/telemetry"
	"github.com/syncline/catalog-sync-server/internal/versions"
)

// loadConfig loads and validates the configuration file named by the
// --config flag.
func loadConfig(path string) (*config.Config, error) {
	var opts []config.Option
	if path != "" {
		opts = append(opts, config.WithConfigPath(path))
	}

	cfg, err := config.LoadConfig(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newEngine wires the catalog reader, the shop client and the metrics
// into a reconciliation engine. The registry may be nil to skip metrics.
func newEngine(cfg *config.Config, registry *prometheus.Registry) (*sync.Engine, error) {
	catalogToken, err := cfg.CatalogToken()
	if err != nil {
		return nil, err
	}
	shopToken, err := cfg.ShopToken()
	if err != nil {
		return nil, err
	}

	reader := catalog.NewClient(cfg.Catalog.Endpoint, cfg.Catalog.CompanyID, catalogToken,
		catalog.WithListingsEndpoint(cfg.Catalog.UseListings),
		catalog.WithPageSize(cfg.Catalog.PageSize),
	)

	shopSvc := shop.NewClient(cfg.Shop.Domain, shopToken, cfg.Shop.APIVersion)

	engineOpts := []sync.Option{
		sync.WithBatchSize(cfg.Sync.BatchSize),
		sync.WithBatchPause(cfg.Sync.BatchPause),
	}

	if registry != nil {
		provider, err := telemetry.NewMeterProvider("catalog-sync-server",
			versions.GetVersionInfo().Version, registry)
		if err != nil {
			return nil, fmt.Errorf("failed to create meter provider: %w", err)
		}
		metrics, err := telemetry.NewSyncMetrics(provider)
		if err != nil {
			return nil, fmt.Errorf("failed to create sync metrics: %w", err)
		}
		engineOpts = append(engineOpts, sync.WithMetrics(metrics))
	}

	return sync.NewEngine(reader, shopSvc, engineOpts...), nil
}
