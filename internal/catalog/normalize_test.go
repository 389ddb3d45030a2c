package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

func TestNormalize_FieldFallbacks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		record   string
		expected Product
	}{
		{
			name: "flat listing shape with lowercase fields",
			record: `{
				"sku": "SKU-1",
				"name": "Widget",
				"description": "A widget",
				"unitPrice": "19.5",
				"quantityOnHand": 12,
				"category": "Tools",
				"vendor": "Acme",
				"largeImageUrl": "https://cdn.example.com/widget.jpg"
			}`,
			expected: Product{
				SKU:         "SKU-1",
				Name:        "Widget",
				Description: "A widget",
				Price:       "19.50",
				Stock:       12,
				Category:    "Tools",
				Vendor:      "Acme",
				ImageURL:    "https://cdn.example.com/widget.jpg",
			},
		},
		{
			name: "relationship-included shape with capitalized fallbacks",
			record: `{
				"Sku": "SKU-2",
				"Name": "Gadget",
				"Description": "A gadget",
				"price": 7,
				"inventoryLines": [{"quantityOnHand": 1}, {"quantity": 2}],
				"category": {"name": "Electronics"},
				"vendor": {"name": "Globex"},
				"images": [{"mediumUrl": "https://cdn.example.com/gadget.jpg"}]
			}`,
			expected: Product{
				SKU:         "SKU-2",
				Name:        "Gadget",
				Description: "A gadget",
				Price:       "7.00",
				Stock:       3,
				Category:    "Electronics",
				Vendor:      "Globex",
				ImageURL:    "https://cdn.example.com/gadget.jpg",
			},
		},
		{
			name:   "empty record resolves to defaults",
			record: `{}`,
			expected: Product{
				Price: "0.00",
			},
		},
		{
			name: "whitespace-only SKU is treated as missing",
			record: `{
				"sku": "   ",
				"name": "No sku"
			}`,
			expected: Product{
				Name:  "No sku",
				Price: "0.00",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Normalize(gjson.Parse(tt.record))
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNormalize_ImagePriority(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		record   string
		expected string
	}{
		{
			name: "full resolution wins over all others",
			record: `{
				"originalImageUrl": "https://cdn.example.com/original.jpg",
				"largeImageUrl": "https://cdn.example.com/large.jpg",
				"thumbnailImageUrl": "https://cdn.example.com/thumb.jpg"
			}`,
			expected: "https://cdn.example.com/original.jpg",
		},
		{
			name: "medium uncropped beats medium",
			record: `{
				"mediumImageUrl": "https://cdn.example.com/medium.jpg",
				"mediumUncroppedImageUrl": "https://cdn.example.com/medium-uncropped.jpg"
			}`,
			expected: "https://cdn.example.com/medium-uncropped.jpg",
		},
		{
			name: "thumbnail is the last resort",
			record: `{
				"thumbnailImageUrl": "https://cdn.example.com/thumb.jpg"
			}`,
			expected: "https://cdn.example.com/thumb.jpg",
		},
		{
			name: "only the first image of the nested shape is considered",
			record: `{
				"images": [
					{"smallUrl": "https://cdn.example.com/first-small.jpg"},
					{"originalUrl": "https://cdn.example.com/second-original.jpg"}
				]
			}`,
			expected: "https://cdn.example.com/first-small.jpg",
		},
		{
			name:     "no image yields empty URL",
			record:   `{"sku": "X"}`,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Normalize(gjson.Parse(tt.record))
			assert.Equal(t, tt.expected, got.ImageURL)
		})
	}
}

func TestStripResizeParams(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{
			name:     "width and height are stripped",
			raw:      "https://cdn.example.com/img.jpg?width=200&height=200",
			expected: "https://cdn.example.com/img.jpg",
		},
		{
			name:     "short param names are stripped too",
			raw:      "https://cdn.example.com/img.jpg?w=64&h=64&v=3",
			expected: "https://cdn.example.com/img.jpg?v=3",
		},
		{
			name:     "URL without params is untouched",
			raw:      "https://cdn.example.com/img.jpg",
			expected: "https://cdn.example.com/img.jpg",
		},
		{
			name:     "empty URL stays empty",
			raw:      "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, stripResizeParams(tt.raw))
		})
	}
}

func TestResolveStock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		record   string
		expected int64
	}{
		{
			name:     "fractional line quantities are summed then floored",
			record:   `{"inventoryLines": [{"quantityOnHand": 3.7}, {"quantity": 2}]}`,
			expected: 5,
		},
		{
			name:     "flat total is used when lines are absent",
			record:   `{"totalQuantityOnHand": 9.9}`,
			expected: 9,
		},
		{
			name:     "empty line array falls back to flat total",
			record:   `{"inventoryLines": [], "quantityOnHand": 4}`,
			expected: 4,
		},
		{
			name:     "unparsable values resolve to zero",
			record:   `{"quantityOnHand": "many"}`,
			expected: 0,
		},
		{
			name:     "negative totals clamp to zero",
			record:   `{"quantityOnHand": -3}`,
			expected: 0,
		},
		{
			name:     "absent fields resolve to zero",
			record:   `{}`,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, resolveStock(gjson.Parse(tt.record)))
		})
	}
}

func TestNormalizePrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw      string
		expected string
	}{
		{"19.5", "19.50"},
		{"0", "0.00"},
		{"", "0.00"},
		{"free", "0.00"},
		{"-5", "0.00"},
		{"  12.345 ", "12.35"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, normalizePrice(tt.raw))
		})
	}
}
