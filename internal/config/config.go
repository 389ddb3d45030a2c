// Package config provides configuration loading and management for the
// catalog sync server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/syncline/catalog-sync-server/internal/validators"
)

// EnvPrefix is the prefix for environment variable overrides,
// e.g. CATALOG_SYNC_SHOP_TOKEN overrides shop.token.
const EnvPrefix = "CATALOG_SYNC"

const (
	// DefaultBatchSize is the number of products reconciled concurrently
	// per batch. Kept small to respect upstream rate limits.
	DefaultBatchSize = 5

	// DefaultBatchPause is the pause between consecutive batches.
	DefaultBatchPause = 100 * time.Millisecond

	// DefaultPageSize is the maximum number of catalog records fetched
	// in a single request.
	DefaultPageSize = 100
)

// ConfigError indicates missing or invalid configuration. It is fatal and
// aborts before any I/O is attempted.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// Config represents the root configuration structure
type Config struct {
	// Catalog is the inventory-management platform the sync reads from
	Catalog CatalogConfig `yaml:"catalog"`

	// Shop is the commerce platform the sync writes to
	Shop ShopConfig `yaml:"shop"`

	// Sync tunes the reconciliation engine
	Sync SyncConfig `yaml:"sync"`

	// Server holds the HTTP server settings
	Server ServerConfig `yaml:"server"`
}

// CatalogConfig defines the catalog (source) API settings
type CatalogConfig struct {
	// Endpoint is the base API URL (without path)
	Endpoint string `yaml:"endpoint"`

	// CompanyID identifies the merchant account on the catalog platform
	CompanyID string `yaml:"companyId"`

	// Token is the bearer token. TokenFile takes priority when both are set.
	Token     string `yaml:"token,omitempty"`
	TokenFile string `yaml:"tokenFile,omitempty"`

	// UseListings selects the productlistings endpoint (flat image fields)
	// instead of the products endpoint (relationship-included objects).
	// Both payload shapes feed the same normalizer.
	UseListings bool `yaml:"useListings,omitempty"`

	// PageSize caps the number of records fetched per request
	PageSize int `yaml:"pageSize,omitempty"`
}

// ShopConfig defines the shop (sink) API settings
type ShopConfig struct {
	// Domain is the shop hostname, e.g. "example.myshopify.com"
	Domain string `yaml:"domain"`

	// Token is the admin API access token. TokenFile takes priority.
	Token     string `yaml:"token,omitempty"`
	TokenFile string `yaml:"tokenFile,omitempty"`

	// APIVersion selects the admin API version, e.g. "2024-01"
	APIVersion string `yaml:"apiVersion,omitempty"`
}

// SyncConfig tunes the reconciliation engine
type SyncConfig struct {
	// BatchSize is the per-batch concurrency cap
	BatchSize int `yaml:"batchSize,omitempty"`

	// BatchPause is the pause between consecutive batches
	BatchPause time.Duration `yaml:"batchPause,omitempty"`
}

// ServerConfig holds the HTTP server settings
type ServerConfig struct {
	Address string `yaml:"address,omitempty"`
}

// Option defines the interface for configuration options
type Option func(*loaderConfig) error

// loaderConfig defines the configuration for loading a configuration
type loaderConfig struct {
	path string
}

// WithConfigPath loads configuration from a YAML file
func WithConfigPath(path string) Option {
	return func(cfg *loaderConfig) error {
		if path == "" {
			return fmt.Errorf("path is required")
		}

		// Resolve symlinks to prevent symlink attacks.
		// Note that this calls filepath.Clean internally.
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return fmt.Errorf("failed to evaluate symlinks: %w", err)
		}

		if !filepath.IsAbs(realPath) {
			if !filepath.IsLocal(realPath) {
				return fmt.Errorf("path is not local or contains invalid traversal: %s", path)
			}
		}

		cfg.path = realPath
		return nil
	}
}

// LoadConfig loads and parses configuration from a YAML file, then applies
// environment variable overrides (CATALOG_SYNC_ prefix, dots replaced with
// underscores) and defaults.
func LoadConfig(opts ...Option) (*Config, error) {
	loaderCfg := &loaderConfig{}
	for _, opt := range opts {
		if err := opt(loaderCfg); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}

	if loaderCfg.path != "" {
		data, err := os.ReadFile(loaderCfg.path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)
	cfg.applyDefaults()

	return cfg, nil
}

// applyEnvOverrides layers environment variables over the file values
func applyEnvOverrides(cfg *Config) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if s := v.GetString("catalog.endpoint"); s != "" {
		cfg.Catalog.Endpoint = s
	}
	if s := v.GetString("catalog.companyid"); s != "" {
		cfg.Catalog.CompanyID = s
	}
	if s := v.GetString("catalog.token"); s != "" {
		cfg.Catalog.Token = s
	}
	if s := v.GetString("shop.domain"); s != "" {
		cfg.Shop.Domain = s
	}
	if s := v.GetString("shop.token"); s != "" {
		cfg.Shop.Token = s
	}
	if s := v.GetString("server.address"); s != "" {
		cfg.Server.Address = s
	}
}

func (c *Config) applyDefaults() {
	if c.Catalog.PageSize <= 0 {
		c.Catalog.PageSize = DefaultPageSize
	}
	if c.Shop.APIVersion == "" {
		c.Shop.APIVersion = "2024-01"
	}
	if c.Sync.BatchSize <= 0 {
		c.Sync.BatchSize = DefaultBatchSize
	}
	if c.Sync.BatchPause <= 0 {
		c.Sync.BatchPause = DefaultBatchPause
	}
	if c.Server.Address == "" {
		c.Server.Address = ":8080"
	}
}

// Validate checks that the configuration is complete enough to reach both
// platforms. Returns a *ConfigError on the first missing field.
func (c *Config) Validate() error {
	if c.Catalog.Endpoint == "" {
		return &ConfigError{Field: "catalog.endpoint", Message: "catalog API endpoint is required"}
	}
	if c.Catalog.CompanyID == "" {
		return &ConfigError{Field: "catalog.companyId", Message: "catalog company id is required"}
	}
	if _, err := c.CatalogToken(); err != nil {
		return &ConfigError{Field: "catalog.token", Message: err.Error()}
	}
	if _, err := validators.ValidateShopDomain(c.Shop.Domain); err != nil {
		return &ConfigError{Field: "shop.domain", Message: err.Error()}
	}
	if _, err := c.ShopToken(); err != nil {
		return &ConfigError{Field: "shop.token", Message: err.Error()}
	}
	return nil
}

// CatalogToken returns the catalog API token, preferring TokenFile
func (c *Config) CatalogToken() (string, error) {
	return resolveToken(c.Catalog.TokenFile, c.Catalog.Token, "catalog")
}

// ShopToken returns the shop admin API token, preferring TokenFile
func (c *Config) ShopToken() (string, error) {
	return resolveToken(c.Shop.TokenFile, c.Shop.Token, "shop")
}

// resolveToken reads a credential from a file when configured, trimming
// surrounding whitespace, and falls back to the inline value.
func resolveToken(file, inline, which string) (string, error) {
	if file != "" {
		data, err := os.ReadFile(filepath.Clean(file))
		if err != nil {
			return "", fmt.Errorf("failed to read %s token from file %s: %w", which, file, err)
		}
		token := strings.TrimSpace(string(data))
		if token == "" {
			return "", fmt.Errorf("%s token file %s is empty", which, file)
		}
		return token, nil
	}
	if inline == "" {
		return "", fmt.Errorf("no %s token configured", which)
	}
	return inline, nil
}
