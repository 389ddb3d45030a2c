package catalog

import "fmt"

// Product is the canonical, normalized shape of a catalog record. It is
// immutable once constructed for a sync run.
type Product struct {
	// SKU is the join key between catalog and shop records. Records
	// without one are skipped by the engine.
	SKU string

	Name        string
	Description string

	// Price is a decimal string, "0.00" when the catalog carries none
	Price string

	// Stock is the floor of the summed per-location inventory lines,
	// falling back to the flat total-on-hand field; 0 when neither parses
	Stock int64

	Category string
	Vendor   string

	// ImageURL is the single resolved primary image with resize query
	// parameters stripped; empty when the record has no image
	ImageURL string
}

// FetchError indicates the catalog API call itself failed. It is fatal to
// the whole run; no partial catalog data is usable.
type FetchError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("catalog fetch failed (HTTP %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("catalog fetch failed: %s", e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
