// Catalog item row helpers. Every helper hangs off ledgerView so it works
// identically against the database and inside transactions.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mesh-intelligence/larder/pkg/types"
)

const catalogColumns = "item_id, name, category, unit, shelf_life_days, last_vendor, last_unit_price, created_at, updated_at"

// GetItem retrieves a catalog item by ID.
func (v ledgerView) GetItem(itemID int64) (*types.CatalogItem, error) {
	if itemID <= 0 {
		return nil, types.ErrInvalidID
	}

	row := v.q.QueryRow(
		"SELECT "+catalogColumns+" FROM catalog_items WHERE item_id = ?",
		itemID,
	)
	item, err := hydrateItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting item %d: %w", itemID, err)
	}
	return item, nil
}

// GetItemByName retrieves a catalog item by name, case-insensitively.
// Names are unique in the catalog.
func (v ledgerView) GetItemByName(name string) (*types.CatalogItem, error) {
	if name == "" {
		return nil, types.ErrInvalidName
	}

	row := v.q.QueryRow(
		"SELECT "+catalogColumns+" FROM catalog_items WHERE name = ? COLLATE NOCASE",
		name,
	)
	item, err := hydrateItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting item %q: %w", name, err)
	}
	return item, nil
}

// PutItem creates the item when ItemID is zero, otherwise updates the
// existing row. Returns the item's ID.
func (v ledgerView) PutItem(item *types.CatalogItem) (int64, error) {
	if err := item.Validate(); err != nil {
		return 0, err
	}

	now := v.now().UTC()
	if item.Unit == "" {
		item.Unit = types.DefaultUnit
	}

	if item.ItemID == 0 {
		// Duplicate-name check up front for a clean sentinel instead of a
		// driver constraint error.
		var one int
		err := v.q.QueryRow(
			"SELECT 1 FROM catalog_items WHERE name = ? COLLATE NOCASE", item.Name,
		).Scan(&one)
		if err == nil {
			return 0, types.ErrDuplicateName
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("checking item name: %w", err)
		}

		item.CreatedAt = now
		item.UpdatedAt = now
		res, err := v.q.Exec(
			"INSERT INTO catalog_items (name, category, unit, shelf_life_days, last_vendor, last_unit_price, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			item.Name, item.Category, item.Unit, item.ShelfLifeDays,
			item.LastVendor, item.LastUnitPrice,
			now.Format(time.RFC3339), now.Format(time.RFC3339),
		)
		if err != nil {
			return 0, fmt.Errorf("inserting item: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("reading item id: %w", err)
		}
		item.ItemID = id
		return id, nil
	}

	item.UpdatedAt = now
	res, err := v.q.Exec(
		"UPDATE catalog_items SET name = ?, category = ?, unit = ?, shelf_life_days = ?, last_vendor = ?, last_unit_price = ?, updated_at = ? WHERE item_id = ?",
		item.Name, item.Category, item.Unit, item.ShelfLifeDays,
		item.LastVendor, item.LastUnitPrice,
		now.Format(time.RFC3339), item.ItemID,
	)
	if err != nil {
		return 0, fmt.Errorf("updating item %d: %w", item.ItemID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("updating item %d: %w", item.ItemID, err)
	}
	if n == 0 {
		return 0, types.ErrNotFound
	}
	return item.ItemID, nil
}

// RefreshPurchaseInfo records the latest vendor and unit price after a
// purchase. Empty vendor and zero price leave the stored values untouched.
func (v ledgerView) RefreshPurchaseInfo(itemID int64, vendor string, unitPrice float64) error {
	item, err := v.GetItem(itemID)
	if err != nil {
		return err
	}

	if vendor != "" {
		item.LastVendor = vendor
	}
	if unitPrice > 0 {
		item.LastUnitPrice = unitPrice
	}

	_, err = v.q.Exec(
		"UPDATE catalog_items SET last_vendor = ?, last_unit_price = ?, updated_at = ? WHERE item_id = ?",
		item.LastVendor, item.LastUnitPrice, v.now().UTC().Format(time.RFC3339), itemID,
	)
	if err != nil {
		return fmt.Errorf("refreshing purchase info for item %d: %w", itemID, err)
	}
	return nil
}

// ListItems returns all catalog items ordered by name.
func (v ledgerView) ListItems() ([]*types.CatalogItem, error) {
	rows, err := v.q.Query("SELECT " + catalogColumns + " FROM catalog_items ORDER BY name COLLATE NOCASE ASC")
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	items := []*types.CatalogItem{}
	for rows.Next() {
		item, err := hydrateItemFromRows(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating items: %w", err)
	}
	return items, nil
}

// hydrateItem converts a single row into a *types.CatalogItem.
func hydrateItem(row *sql.Row) (*types.CatalogItem, error) {
	var c types.CatalogItem
	var createdAt, updatedAt string
	if err := row.Scan(&c.ItemID, &c.Name, &c.Category, &c.Unit, &c.ShelfLifeDays,
		&c.LastVendor, &c.LastUnitPrice, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	return finishItem(&c, createdAt, updatedAt)
}

// hydrateItemFromRows converts a row from sql.Rows into a *types.CatalogItem.
func hydrateItemFromRows(rows *sql.Rows) (*types.CatalogItem, error) {
	var c types.CatalogItem
	var createdAt, updatedAt string
	if err := rows.Scan(&c.ItemID, &c.Name, &c.Category, &c.Unit, &c.ShelfLifeDays,
		&c.LastVendor, &c.LastUnitPrice, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	return finishItem(&c, createdAt, updatedAt)
}

func finishItem(c *types.CatalogItem, createdAt, updatedAt string) (*types.CatalogItem, error) {
	var err error
	c.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	c.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return c, nil
}
