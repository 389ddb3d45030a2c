// Package main is the entry point for the catalog sync server.
package main

import (
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/syncline/catalog-sync-server/cmd/catalog-sync/app"
	"github.com/syncline/catalog-sync-server/internal/config"
	"github.com/syncline/catalog-sync-server/internal/logger"
)

// getLogLevel reads CATALOG_SYNC_LOG_LEVEL, falling back to LOG_LEVEL.
func getLogLevel() string {
	v := viper.New()
	v.SetEnvPrefix(config.EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	levelStr := v.GetString("LOG_LEVEL")
	if levelStr == "" {
		levelStr = os.Getenv("LOG_LEVEL")
	}
	if levelStr == "" {
		levelStr = "info"
	}
	return levelStr
}

func main() {
	if err := logger.Initialize(getLogLevel(), os.Getenv("CATALOG_SYNC_DEV") == ""); err != nil {
		logger.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if err := app.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
