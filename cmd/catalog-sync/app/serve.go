package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/syncline/catalog-sync-server/internal/api"
	"github.com/syncline/catalog-sync-server/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the catalog sync API server",
	Long: `Start the HTTP server exposing sync runs and channel listing.

The server requires a configuration file (--config) that specifies:
- Catalog endpoint, company id and credentials
- Shop domain, API version and credentials
- Batch size, batch pause and server address`,
	RunE: runServe,
}

const (
	defaultGracefulTimeout = 30 * time.Second
	serverReadTimeout      = 10 * time.Second
	// A sync run walks the whole catalog; the write timeout has to
	// outlast the slowest expected run.
	serverWriteTimeout = 10 * time.Minute
	serverIdleTimeout  = 60 * time.Second
)

func init() {
	serveCmd.Flags().String("address", "", "Address to listen on (overrides server.address)")
	serveCmd.Flags().String("config", "", "Path to configuration file (YAML format, required)")

	if err := viper.BindPFlag("address", serveCmd.Flags().Lookup("address")); err != nil {
		logger.Fatalf("Failed to bind address flag: %v", err)
	}
	if err := viper.BindPFlag("config", serveCmd.Flags().Lookup("config")); err != nil {
		logger.Fatalf("Failed to bind config flag: %v", err)
	}

	if err := serveCmd.MarkFlagRequired("config"); err != nil {
		logger.Fatalf("Failed to mark config flag as required: %v", err)
	}
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig(viper.GetString("config"))
	if err != nil {
		return err
	}

	address := viper.GetString("address")
	if address == "" {
		address = cfg.Server.Address
	}

	registry := prometheus.NewRegistry()
	engine, err := newEngine(cfg, registry)
	if err != nil {
		return err
	}

	router := api.NewServer(engine,
		api.WithMiddlewares(
			middleware.RealIP,
			middleware.Recoverer,
			api.LoggingMiddleware,
		),
		api.WithMetricsRegistry(registry),
	)

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  serverReadTimeout,
		WriteTimeout: serverWriteTimeout,
		IdleTimeout:  serverIdleTimeout,
	}

	go func() {
		logger.Infof("Server listening on %s", address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Infof("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultGracefulTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
		return err
	}

	logger.Infof("Server shutdown complete")
	return nil
}
