// Shared helpers for larder CLI commands.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/mesh-intelligence/larder/internal/sqlite"
	"github.com/mesh-intelligence/larder/pkg/types"
)

// attachStore resolves the data directory, creates a SQLite store, and
// attaches it. The caller must defer store.Detach().
func attachStore() (*sqlite.Store, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	cfg := types.Config{
		Backend: types.BackendSQLite,
		DataDir: dataDir,
	}

	store := sqlite.NewStore()
	if err := store.Attach(cfg); err != nil {
		return nil, fmt.Errorf("attach store: %w", err)
	}

	return store, nil
}

// resolveItem finds a catalog item by name, or by ID when the argument is
// numeric.
func resolveItem(store *sqlite.Store, arg string) (*types.CatalogItem, error) {
	if id, err := strconv.ParseInt(arg, 10, 64); err == nil {
		item, err := store.GetItem(id)
		if err != nil {
			if errors.Is(err, types.ErrNotFound) {
				return nil, fmt.Errorf("item %d: %w", id, types.ErrItemNotFound)
			}
			return nil, err
		}
		return item, nil
	}

	item, err := store.GetItemByName(arg)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, fmt.Errorf("%q: %w", arg, types.ErrItemNotFound)
		}
		return nil, err
	}
	return item, nil
}

// parseQuantity parses a positive decimal quantity argument.
func parseQuantity(arg string) (float64, error) {
	qty, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return 0, fmt.Errorf("quantity %q: %w", arg, types.ErrInvalidQuantity)
	}
	if qty <= 0 {
		return 0, fmt.Errorf("quantity must be positive: %w", types.ErrInvalidQuantity)
	}
	return qty, nil
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Println(string(output))
	return nil
}

// formatQty renders quantities without trailing zeros.
func formatQty(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}
