// Package telemetry provides OpenTelemetry instrumentation for the catalog
// sync server.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// SyncMetricsMeterName is the name used for the sync metrics meter
const SyncMetricsMeterName = "github.com/syncline/catalog-sync-server/sync"

// SyncMetrics holds the OpenTelemetry instruments for sync run metrics
type SyncMetrics struct {
	runsTotal   metric.Int64Counter
	itemsTotal  metric.Int64Counter
	runDuration metric.Float64Histogram
}

// NewSyncMetrics creates a new SyncMetrics instance with the given meter
// provider. If provider is nil, it returns nil (no-op metrics).
func NewSyncMetrics(provider metric.MeterProvider) (*SyncMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(SyncMetricsMeterName)

	runsTotal, err := meter.Int64Counter(
		"catalog_sync_runs_total",
		metric.WithDescription("Number of sync runs, by terminal result"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, err
	}

	itemsTotal, err := meter.Int64Counter(
		"catalog_sync_items_total",
		metric.WithDescription("Number of reconciled products, by outcome"),
		metric.WithUnit("{product}"),
	)
	if err != nil {
		return nil, err
	}

	runDuration, err := meter.Float64Histogram(
		"catalog_sync_run_duration_seconds",
		metric.WithDescription("Duration of sync runs in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600),
	)
	if err != nil {
		return nil, err
	}

	return &SyncMetrics{
		runsTotal:   runsTotal,
		itemsTotal:  itemsTotal,
		runDuration: runDuration,
	}, nil
}

// RecordRun records one completed (or aborted) sync run
func (m *SyncMetrics) RecordRun(ctx context.Context, duration time.Duration, success bool) {
	if m == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.Bool("success", success),
	}

	if m.runsTotal != nil {
		m.runsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
	if m.runDuration != nil {
		m.runDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	}
}

// RecordItem records one reconciled product with its outcome
// (created, updated, or failed)
func (m *SyncMetrics) RecordItem(ctx context.Context, outcome string) {
	if m == nil || m.itemsTotal == nil {
		return
	}

	m.itemsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}
