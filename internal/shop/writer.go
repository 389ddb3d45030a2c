package shop

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/syncline/catalog-sync-server/internal/catalog"
	"github.com/syncline/catalog-sync-server/internal/logger"
)

// Create creates a new shop product with a single variant carrying the
// catalog SKU, price, and stock. Returns the new product id.
func (c *Client) Create(ctx context.Context, product catalog.Product) (string, error) {
	variant := map[string]any{
		"sku":                  product.SKU,
		"price":                product.Price,
		"inventory_quantity":   product.Stock,
		"inventory_management": "shop",
	}

	body := map[string]any{
		"title":        product.Name,
		"body_html":    product.Description,
		"vendor":       product.Vendor,
		"product_type": product.Category,
		"variants":     []any{variant},
	}
	if product.ImageURL != "" {
		body["images"] = []any{map[string]any{"src": product.ImageURL}}
	}

	payload, err := json.Marshal(map[string]any{"product": body})
	if err != nil {
		return "", &WriteError{Op: "create", SKU: product.SKU, Err: err}
	}

	resp, err := c.httpClient.Post(ctx, c.rest("/products.json"), payload)
	if err != nil {
		return "", &WriteError{Op: "create", SKU: product.SKU, Err: err}
	}

	id := gjson.GetBytes(resp, "product.id")
	if !id.Exists() {
		return "", &WriteError{Op: "create", SKU: product.SKU, Err: fmt.Errorf("response carries no product id")}
	}

	return id.String(), nil
}

// Update reconciles an existing shop record against the catalog product:
// variant identity and price, absolute stock when the record exposes
// inventory-item and location ids, and the parent product's metadata and
// image. Stock is written through a dedicated inventory call because the
// platform models inventory and pricing as distinct subsystems.
func (c *Client) Update(ctx context.Context, record *Record, product catalog.Product) error {
	if err := c.updateVariant(ctx, record, product); err != nil {
		return err
	}

	if record.InventoryItemID != "" && record.LocationID != "" {
		if err := c.setInventoryLevel(ctx, record, product); err != nil {
			return err
		}
	}

	if err := c.updateProductMetadata(ctx, record, product); err != nil {
		return err
	}

	// Image replacement is best-effort: product and variant correctness
	// must not depend on image-sync success.
	if product.ImageURL != "" {
		if err := c.replaceProductImage(ctx, record, product); err != nil {
			logger.Warnf("Image update for %s failed: %v", product.SKU, err)
		}
	}

	return nil
}

func (c *Client) updateVariant(ctx context.Context, record *Record, product catalog.Product) error {
	payload, err := json.Marshal(map[string]any{
		"variant": map[string]any{
			"id":    record.VariantID,
			"sku":   product.SKU,
			"price": product.Price,
		},
	})
	if err != nil {
		return &WriteError{Op: "update variant", SKU: product.SKU, Err: err}
	}

	url := c.rest(fmt.Sprintf("/variants/%s.json", record.VariantID))
	if _, err := c.httpClient.Put(ctx, url, payload); err != nil {
		return &WriteError{Op: "update variant", SKU: product.SKU, Err: err}
	}
	return nil
}

// setInventoryLevel writes the absolute available quantity at the primary
// location.
func (c *Client) setInventoryLevel(ctx context.Context, record *Record, product catalog.Product) error {
	payload, err := json.Marshal(map[string]any{
		"location_id":       record.LocationID,
		"inventory_item_id": record.InventoryItemID,
		"available":         product.Stock,
	})
	if err != nil {
		return &WriteError{Op: "set inventory", SKU: product.SKU, Err: err}
	}

	if _, err := c.httpClient.Post(ctx, c.rest("/inventory_levels/set.json"), payload); err != nil {
		return &WriteError{Op: "set inventory", SKU: product.SKU, Err: err}
	}
	return nil
}

func (c *Client) updateProductMetadata(ctx context.Context, record *Record, product catalog.Product) error {
	payload, err := json.Marshal(map[string]any{
		"product": map[string]any{
			"id":           record.ProductID,
			"body_html":    product.Description,
			"vendor":       product.Vendor,
			"product_type": product.Category,
		},
	})
	if err != nil {
		return &WriteError{Op: "update product", SKU: product.SKU, Err: err}
	}

	url := c.rest(fmt.Sprintf("/products/%s.json", record.ProductID))
	if _, err := c.httpClient.Put(ctx, url, payload); err != nil {
		return &WriteError{Op: "update product", SKU: product.SKU, Err: err}
	}
	return nil
}

// replaceProductImage swaps the product's image set for the single
// resolved primary image.
func (c *Client) replaceProductImage(ctx context.Context, record *Record, product catalog.Product) error {
	payload, err := json.Marshal(map[string]any{
		"product": map[string]any{
			"id":     record.ProductID,
			"images": []any{map[string]any{"src": product.ImageURL}},
		},
	})
	if err != nil {
		return err
	}

	url := c.rest(fmt.Sprintf("/products/%s.json", record.ProductID))
	_, err = c.httpClient.Put(ctx, url, payload)
	return err
}
