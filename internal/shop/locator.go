package shop

import (
	"context"
	"fmt"

	"github.com/syncline/catalog-sync-server/internal/logger"
)

// variantBySKUQuery finds the variant carrying a SKU together with its
// parent product and inventory item. The search is prefix-based on the
// platform side, so the exact-match check happens client-side.
const variantBySKUQuery = `
query variantBySku($query: String!) {
  productVariants(first: 5, query: $query) {
    edges {
      node {
        id
        sku
        product { id }
        inventoryItem { id }
      }
    }
  }
}`

// Locate finds the shop record carrying the given SKU. Returns (nil, nil)
// when no variant matches: not-found is the fork point for create-vs-update,
// not an error. Transport or auth failure returns a *LocatorError.
func (c *Client) Locate(ctx context.Context, sku string) (*Record, error) {
	data, err := c.graphql(ctx, variantBySKUQuery, map[string]any{
		"query": fmt.Sprintf("sku:%s", sku),
	})
	if err != nil {
		return nil, &LocatorError{SKU: sku, Err: err}
	}

	for _, edge := range data.Get("productVariants.edges").Array() {
		node := edge.Get("node")
		if node.Get("sku").String() != sku {
			continue
		}

		record := &Record{
			ProductID:       numericID(node.Get("product.id").String()),
			VariantID:       numericID(node.Get("id").String()),
			InventoryItemID: numericID(node.Get("inventoryItem.id").String()),
		}

		// The location is shared reference data; a failed lookup only
		// disables stock writes for this record, it does not fail the
		// item.
		locationID, err := c.primaryLocation(ctx)
		if err != nil {
			logger.Warnf("Could not resolve primary location for %s: %v", sku, err)
		} else {
			record.LocationID = locationID
		}

		return record, nil
	}

	return nil, nil
}
