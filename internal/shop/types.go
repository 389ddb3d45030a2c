package shop

import (
	"fmt"
	"strings"
)

// Record identifies an existing shop product and its primary variant by the
// platform's opaque identifiers. Absence of a record for a SKU is a valid,
// expected outcome, not an error.
type Record struct {
	ProductID       string
	VariantID       string
	InventoryItemID string

	// LocationID is the primary fulfillment location. Empty when the
	// location could not be resolved; stock writes are skipped then.
	LocationID string
}

// Channel is a sales surface a product can be published to. Read-only
// reference data, fetched fresh per request.
type Channel struct {
	ID                       string `json:"id"`
	Name                     string `json:"name"`
	SupportsFuturePublishing bool   `json:"supportsFuturePublishing"`
}

// LocatorError indicates the variant-by-SKU lookup failed on transport or
// auth. Item-scoped: the engine converts it into a failed outcome for the
// one product.
type LocatorError struct {
	SKU string
	Err error
}

func (e *LocatorError) Error() string {
	return fmt.Sprintf("locate %s: %v", e.SKU, e.Err)
}

func (e *LocatorError) Unwrap() error {
	return e.Err
}

// WriteError indicates a product/variant create or update failed.
// Item-scoped.
type WriteError struct {
	Op  string
	SKU string
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.SKU, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// PublishError indicates a channel attachment failed on transport. The
// engine treats publication as best-effort and never fails an item on it.
type PublishError struct {
	ProductID string
	ChannelID string
	Err       error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish product %s to channel %s: %v", e.ProductID, e.ChannelID, e.Err)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}

// numericID extracts the trailing numeric identifier from a platform gid
// such as "gid://shop/ProductVariant/123". Plain numeric ids pass through.
func numericID(gid string) string {
	if idx := strings.LastIndex(gid, "/"); idx >= 0 {
		return gid[idx+1:]
	}
	return gid
}

// productGID renders a product id in the gid form the GraphQL API expects.
func productGID(id string) string {
	if strings.HasPrefix(id, "gid://") {
		return id
	}
	return "gid://shop/Product/" + id
}
