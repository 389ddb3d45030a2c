package sync

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/syncline/catalog-sync-server/internal/catalog"
	"github.com/syncline/catalog-sync-server/internal/config"
	"github.com/syncline/catalog-sync-server/internal/logger"
	"github.com/syncline/catalog-sync-server/internal/shop"
	"github.com/syncline/catalog-sync-server/internal/telemetry"
)

//go:generate mockgen -destination=mocks/mock_engine.go -package=mocks -source=engine.go CatalogReader,ShopService

// CatalogReader fetches and normalizes the source catalog
type CatalogReader interface {
	// FetchProducts retrieves all catalog records, normalized, including
	// records without a SKU
	FetchProducts(ctx context.Context) ([]catalog.Product, error)
}

// ShopService groups the shop operations the engine drives per product
type ShopService interface {
	// Locate finds the record carrying a SKU; (nil, nil) when absent
	Locate(ctx context.Context, sku string) (*shop.Record, error)

	// Create creates a product with one variant and returns its id
	Create(ctx context.Context, product catalog.Product) (string, error)

	// Update reconciles an existing record against the catalog product
	Update(ctx context.Context, record *shop.Record, product catalog.Product) error

	// Publish attaches a product to a channel; false on platform refusal
	Publish(ctx context.Context, productID, channelID string) (bool, error)

	// ListChannels fetches the shop's sales channels
	ListChannels(ctx context.Context) ([]shop.Channel, error)
}

// Service is the inbound surface consumed by the API and CLI layers
type Service interface {
	// RunSync reconciles the whole catalog into the shop, optionally
	// publishing each matched product to the given channels. The error
	// is non-nil only when the run aborted before reconciling anything
	// (catalog fetch failure); the result is returned in both cases.
	RunSync(ctx context.Context, channelIDs []string) (*RunResult, error)

	// ListChannels fetches the shop's sales channels
	ListChannels(ctx context.Context) ([]shop.Channel, error)
}

// item outcome tags
const (
	outcomeCreated = "created"
	outcomeUpdated = "updated"
	outcomeFailed  = "failed"
)

// itemOutcome is the settled result of reconciling one product. Outcomes
// are collected per batch and reduced into the summary after the batch
// join, so no two goroutines ever write the summary concurrently.
type itemOutcome struct {
	sku       string
	outcome   string
	productID string
	price     string
	stock     int64
	published int
	notes     []string
	err       error
}

// Engine is the reconciliation engine. One Engine serves many runs; all
// per-run state lives in the run itself.
type Engine struct {
	reader     CatalogReader
	shop       ShopService
	batchSize  int
	batchPause time.Duration
	metrics    *telemetry.SyncMetrics
}

var _ Service = (*Engine)(nil)

// Option configures the Engine
type Option func(*Engine)

// WithBatchSize overrides the per-batch concurrency cap
func WithBatchSize(size int) Option {
	return func(e *Engine) {
		if size > 0 {
			e.batchSize = size
		}
	}
}

// WithBatchPause overrides the pause between consecutive batches
func WithBatchPause(pause time.Duration) Option {
	return func(e *Engine) {
		if pause >= 0 {
			e.batchPause = pause
		}
	}
}

// WithMetrics attaches sync metrics; nil metrics are a no-op
func WithMetrics(metrics *telemetry.SyncMetrics) Option {
	return func(e *Engine) {
		e.metrics = metrics
	}
}

// NewEngine creates a reconciliation engine
func NewEngine(reader CatalogReader, shopSvc ShopService, opts ...Option) *Engine {
	e := &Engine{
		reader:     reader,
		shop:       shopSvc,
		batchSize:  config.DefaultBatchSize,
		batchPause: config.DefaultBatchPause,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RunSync executes one reconciliation run. The run always completes once
// the catalog is fetched; per-item failures are folded into the summary
// and never abort the run.
func (e *Engine) RunSync(ctx context.Context, channelIDs []string) (*RunResult, error) {
	runID := uuid.NewString()
	started := time.Now()

	log := NewProgressLog()
	summary := Summary{}

	logger.Infof("Starting sync run %s (channels: %d)", runID, len(channelIDs))
	log.Appendf("Starting catalog sync run %s", runID)

	products, err := e.reader.FetchProducts(ctx)
	if err != nil {
		logger.Errorf("Sync run %s aborted: %v", runID, err)
		log.Appendf("Catalog fetch failed: %v", err)
		e.metrics.RecordRun(ctx, time.Since(started), false)
		return &RunResult{Success: false, Logs: log.Entries(), Summary: summary}, err
	}

	summary.Total = len(products)

	eligible := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		if p.SKU == "" {
			continue
		}
		eligible = append(eligible, p)
	}
	if skipped := len(products) - len(eligible); skipped > 0 {
		log.Appendf("Skipping %d products without SKU", skipped)
	}
	log.Appendf("Reconciling %d products in batches of %d", len(eligible), e.batchSize)

	for start := 0; start < len(eligible); start += e.batchSize {
		end := min(start+e.batchSize, len(eligible))
		batch := eligible[start:end]

		outcomes := make([]itemOutcome, len(batch))
		var group errgroup.Group
		for i, product := range batch {
			group.Go(func() error {
				outcomes[i] = e.reconcileItem(ctx, product, channelIDs)
				return nil
			})
		}
		// Join: every item settles, success or failure, before the
		// batch is reduced and the next one starts.
		_ = group.Wait()

		for _, o := range outcomes {
			e.reduceOutcome(ctx, o, &summary, log)
		}

		if end < len(eligible) {
			time.Sleep(e.batchPause)
		}
	}

	log.Appendf("Sync complete: total=%d created=%d updated=%d failed=%d published=%d",
		summary.Total, summary.Created, summary.Updated, summary.Failed, summary.Published)

	success := summary.Failed == 0
	e.metrics.RecordRun(ctx, time.Since(started), success)
	logger.Infof("Sync run %s finished in %s: %+v", runID, time.Since(started).Round(time.Millisecond), summary)

	return &RunResult{Success: success, Logs: log.Entries(), Summary: summary}, nil
}

// ListChannels fetches the shop's sales channels, fresh per request
func (e *Engine) ListChannels(ctx context.Context) ([]shop.Channel, error) {
	return e.shop.ListChannels(ctx)
}

// reconcileItem runs the per-product pipeline: locate, then create or
// update, then zero or more publish attempts. Any locate/create/update
// error settles the item as failed; publish errors only annotate it.
func (e *Engine) reconcileItem(ctx context.Context, product catalog.Product, channelIDs []string) itemOutcome {
	o := itemOutcome{sku: product.SKU, price: product.Price, stock: product.Stock}

	record, err := e.shop.Locate(ctx, product.SKU)
	if err != nil {
		o.outcome = outcomeFailed
		o.err = err
		return o
	}

	if record == nil {
		id, err := e.shop.Create(ctx, product)
		if err != nil {
			o.outcome = outcomeFailed
			o.err = err
			return o
		}
		o.outcome = outcomeCreated
		o.productID = id
	} else {
		if err := e.shop.Update(ctx, record, product); err != nil {
			o.outcome = outcomeFailed
			o.err = err
			return o
		}
		o.outcome = outcomeUpdated
		o.productID = record.ProductID
	}

	for _, channelID := range channelIDs {
		ok, err := e.shop.Publish(ctx, o.productID, channelID)
		if err != nil {
			o.notes = append(o.notes, "publish to channel "+channelID+" failed: "+err.Error())
			continue
		}
		if !ok {
			o.notes = append(o.notes, "channel "+channelID+" declined the product")
			continue
		}
		o.published++
	}

	return o
}

// reduceOutcome folds one settled outcome into the summary and the
// progress log. Called only after the batch join, never concurrently.
func (e *Engine) reduceOutcome(ctx context.Context, o itemOutcome, summary *Summary, log *ProgressLog) {
	switch o.outcome {
	case outcomeCreated:
		summary.Created++
		summary.Published += o.published
		log.Appendf("Created %s (price=%s, stock=%d, published=%d)", o.sku, o.price, o.stock, o.published)
	case outcomeUpdated:
		summary.Updated++
		summary.Published += o.published
		log.Appendf("Updated %s (price=%s, stock=%d, published=%d)", o.sku, o.price, o.stock, o.published)
	case outcomeFailed:
		summary.Failed++
		log.Appendf("Failed %s: %v", o.sku, o.err)
		logger.Warnf("Product %s failed to sync: %v", o.sku, o.err)
	}

	for _, note := range o.notes {
		log.Appendf("%s: %s", o.sku, note)
	}

	e.metrics.RecordItem(ctx, o.outcome)
}
