package catalog

import (
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

// The catalog API is inconsistently shaped: the productlistings endpoint
// returns flat records while the products endpoint inlines relationship
// objects, and field casing varies between generations of the API. All
// fallback chains live here, as explicit priority tables, so the write
// paths never have to guess.

// Field priority tables. First present (and non-empty) wins.
var (
	skuPaths         = []string{"sku", "Sku", "SKU"}
	namePaths        = []string{"name", "Name", "productName"}
	descriptionPaths = []string{"description", "Description", "remarks"}
	pricePaths       = []string{"unitPrice", "price", "Price"}
	categoryPaths    = []string{"category.name", "category", "Category"}
	vendorPaths      = []string{"vendor.name", "vendor", "Vendor"}

	// Image resolution priority: full-resolution first, thumbnail last.
	// The flat shape carries the URLs as top-level fields, the nested
	// shape under the first element of the images relationship.
	imagePaths = []string{
		"originalImageUrl", "images.0.originalUrl",
		"largeImageUrl", "images.0.largeUrl",
		"mediumUncroppedImageUrl", "images.0.mediumUncroppedUrl",
		"mediumImageUrl", "images.0.mediumUrl",
		"smallImageUrl", "images.0.smallUrl",
		"thumbnailImageUrl", "images.0.thumbnailUrl",
	}

	quantityTotalPaths = []string{"totalQuantityOnHand", "quantityOnHand", "quantity"}
)

// resizeParams are query parameters the catalog CDN uses to serve scaled
// image variants. They are stripped so the shop receives the
// original-resolution asset.
var resizeParams = []string{"width", "height", "w", "h"}

// Normalize converts one raw catalog record into the canonical Product
// shape. It never fails: missing fields resolve to their defaults, and a
// missing SKU yields an empty one for the engine to skip.
func Normalize(record gjson.Result) Product {
	return Product{
		SKU:         strings.TrimSpace(firstString(record, skuPaths)),
		Name:        firstString(record, namePaths),
		Description: firstString(record, descriptionPaths),
		Price:       normalizePrice(firstString(record, pricePaths)),
		Stock:       resolveStock(record),
		Category:    firstString(record, categoryPaths),
		Vendor:      firstString(record, vendorPaths),
		ImageURL:    stripResizeParams(firstString(record, imagePaths)),
	}
}

// NormalizeAll normalizes every record of a raw payload's record array.
func NormalizeAll(records []gjson.Result) []Product {
	products := make([]Product, 0, len(records))
	for _, record := range records {
		products = append(products, Normalize(record))
	}
	return products
}

// firstString walks a priority table and returns the first non-empty
// string value.
func firstString(record gjson.Result, paths []string) string {
	for _, path := range paths {
		if v := record.Get(path); v.Exists() && v.String() != "" {
			return v.String()
		}
	}
	return ""
}

// normalizePrice validates the raw price and renders it with two decimal
// places. Anything unparsable becomes "0.00".
func normalizePrice(raw string) string {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || d.IsNegative() {
		return "0.00"
	}
	return d.StringFixed(2)
}

// resolveStock computes the quantity on hand: the floored sum of the
// per-location inventory lines when present, otherwise the floored flat
// total field, otherwise 0. Never an error.
func resolveStock(record gjson.Result) int64 {
	if lines := record.Get("inventoryLines"); lines.IsArray() {
		sum := decimal.Zero
		counted := false
		for _, line := range lines.Array() {
			raw := firstString(line, []string{"quantityOnHand", "quantity"})
			if raw == "" {
				continue
			}
			d, err := decimal.NewFromString(raw)
			if err != nil {
				continue
			}
			sum = sum.Add(d)
			counted = true
		}
		if counted {
			return clampStock(sum)
		}
	}

	raw := firstString(record, quantityTotalPaths)
	if raw == "" {
		return 0
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0
	}
	return clampStock(d)
}

func clampStock(d decimal.Decimal) int64 {
	if d.IsNegative() {
		return 0
	}
	return d.Floor().IntPart()
}

// stripResizeParams removes the CDN resize query parameters from an image
// URL. Unparsable URLs are passed through untouched.
func stripResizeParams(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	for _, p := range resizeParams {
		q.Del(p)
	}
	u.RawQuery = q.Encode()
	return u.String()
}
