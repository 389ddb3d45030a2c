// Package sync implements the reconciliation engine that keeps the shop's
// products in step with the catalog.
//
// One run fetches and normalizes the whole catalog, partitions the
// SKU-bearing records into fixed-size batches, and reconciles each batch
// concurrently: locate by SKU, then create or update, then optionally
// publish to sales channels. Batches run strictly sequentially with a short
// pause between them; the batch size is a deliberate concurrency cap that
// respects upstream rate limits rather than maximizing throughput.
//
// Failures have exactly two blast radii. A catalog fetch failure aborts the
// run, because no partial catalog data is usable. Everything else is scoped
// to a single item: a locate, create, or update error marks that one
// product failed and never disturbs its batch siblings, and channel
// publication is best-effort on top of an already-settled outcome. A run
// therefore always completes and always returns its full log and summary;
// partial success is the normal terminal state, not an error.
package sync
