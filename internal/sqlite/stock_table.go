// Stock entry row helpers. A stock row exists only while its quantity is
// positive; SetStock with a non-positive quantity deletes the row, so
// "currently held" listings never show zero rows.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mesh-intelligence/larder/pkg/types"
)

// GetStock returns the current quantity for the item, or ErrNotFound when
// no stock entry exists.
func (v ledgerView) GetStock(itemID int64) (float64, error) {
	if itemID <= 0 {
		return 0, types.ErrInvalidID
	}

	var qty float64
	err := v.q.QueryRow(
		"SELECT quantity FROM stock_entries WHERE item_id = ?", itemID,
	).Scan(&qty)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, types.ErrNotFound
		}
		return 0, fmt.Errorf("getting stock for item %d: %w", itemID, err)
	}
	return qty, nil
}

// SetStock writes the current quantity, upserting the row. A quantity of
// zero or less removes the entry instead.
func (v ledgerView) SetStock(itemID int64, quantity float64) error {
	if itemID <= 0 {
		return types.ErrInvalidID
	}

	if quantity <= 0 {
		if _, err := v.q.Exec("DELETE FROM stock_entries WHERE item_id = ?", itemID); err != nil {
			return fmt.Errorf("removing stock for item %d: %w", itemID, err)
		}
		return nil
	}

	_, err := v.q.Exec(
		`INSERT INTO stock_entries (item_id, quantity, last_updated) VALUES (?, ?, ?)
		 ON CONFLICT(item_id) DO UPDATE SET quantity = excluded.quantity, last_updated = excluded.last_updated`,
		itemID, quantity, v.now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("setting stock for item %d: %w", itemID, err)
	}
	return nil
}

// ListStock returns all current stock entries, ordered by item name.
func (v ledgerView) ListStock() ([]*types.StockEntry, error) {
	rows, err := v.q.Query(
		`SELECT s.item_id, s.quantity, s.last_updated
		 FROM stock_entries s
		 JOIN catalog_items c ON c.item_id = s.item_id
		 ORDER BY c.name COLLATE NOCASE ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing stock: %w", err)
	}
	defer rows.Close()

	entries := []*types.StockEntry{}
	for rows.Next() {
		var e types.StockEntry
		var lastUpdated string
		if err := rows.Scan(&e.ItemID, &e.Quantity, &lastUpdated); err != nil {
			return nil, fmt.Errorf("scanning stock entry: %w", err)
		}
		e.LastUpdated, err = time.Parse(time.RFC3339, lastUpdated)
		if err != nil {
			return nil, fmt.Errorf("parsing last_updated: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating stock entries: %w", err)
	}
	return entries, nil
}
