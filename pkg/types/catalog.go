package types

import "time"

// CatalogItem is a registered ingredient type. Catalog rows are created on
// first registration and refreshed on repeat purchase; they are never hard
// deleted because movements reference them.
type CatalogItem struct {
	ItemID        int64     `json:"item_id"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	Unit          string    `json:"unit"`
	ShelfLifeDays int       `json:"shelf_life_days"`
	LastVendor    string    `json:"last_vendor,omitempty"`
	LastUnitPrice float64   `json:"last_unit_price,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// DefaultUnit is used when an item is registered without a unit of measure.
const DefaultUnit = "unit"

// Validate checks the fields a caller must supply before the item is
// persisted. Returns a sentinel error on failure.
func (c *CatalogItem) Validate() error {
	if c.Name == "" {
		return ErrInvalidName
	}
	if c.ShelfLifeDays < 0 {
		return ErrInvalidShelfLife
	}
	return nil
}

// StockEntry is the current on-hand quantity of a catalog item. An entry
// exists only while the quantity is positive; deducting to zero removes the
// row rather than keeping it at zero, so listings show only items actually
// held.
type StockEntry struct {
	ItemID      int64     `json:"item_id"`
	Quantity    float64   `json:"quantity"`
	LastUpdated time.Time `json:"last_updated"`
}
