// Package sqlite implements the SQLite storage backend for larder.
package sqlite

// Schema DDL. Applied idempotently on Attach; the database file is the
// source of truth and survives across runs.
const (
	createCatalogItems = `CREATE TABLE IF NOT EXISTS catalog_items (
    item_id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE COLLATE NOCASE,
    category TEXT NOT NULL DEFAULT '',
    unit TEXT NOT NULL,
    shelf_life_days INTEGER NOT NULL DEFAULT 0,
    last_vendor TEXT NOT NULL DEFAULT '',
    last_unit_price REAL NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createStockEntries = `CREATE TABLE IF NOT EXISTS stock_entries (
    item_id INTEGER PRIMARY KEY,
    quantity REAL NOT NULL CHECK (quantity > 0),
    last_updated TEXT NOT NULL,
    FOREIGN KEY (item_id) REFERENCES catalog_items(item_id)
);`

	createMovements = `CREATE TABLE IF NOT EXISTS movements (
    movement_id TEXT PRIMARY KEY,
    item_id INTEGER NOT NULL,
    kind TEXT NOT NULL,
    quantity REAL NOT NULL,
    unit_price REAL NOT NULL DEFAULT 0,
    vendor TEXT NOT NULL DEFAULT '',
    source TEXT NOT NULL,
    recorded_at TEXT NOT NULL,
    FOREIGN KEY (item_id) REFERENCES catalog_items(item_id)
);`

	createUsers = `CREATE TABLE IF NOT EXISTS users (
    user_id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    full_name TEXT NOT NULL DEFAULT '',
    role TEXT NOT NULL DEFAULT 'user',
    created_at TEXT NOT NULL
);`
)

// Index DDL for common queries.
const (
	idxMovementsItem     = `CREATE INDEX IF NOT EXISTS idx_movements_item ON movements(item_id);`
	idxMovementsKind     = `CREATE INDEX IF NOT EXISTS idx_movements_kind ON movements(kind);`
	idxMovementsRecorded = `CREATE INDEX IF NOT EXISTS idx_movements_recorded ON movements(recorded_at);`
	idxCatalogCategory   = `CREATE INDEX IF NOT EXISTS idx_catalog_category ON catalog_items(category);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createCatalogItems,
	createStockEntries,
	createMovements,
	createUsers,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxMovementsItem,
	idxMovementsKind,
	idxMovementsRecorded,
	idxCatalogCategory,
}
