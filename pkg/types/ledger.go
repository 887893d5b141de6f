package types

import "errors"

// Ledger is the Ledger Store boundary: the read/write operations the
// reconciliation engine and the CLI need from the storage backend. Inside
// Store.Transact every Ledger call runs against the same transaction.
type Ledger interface {
	// GetItem returns the catalog item, or ErrNotFound.
	GetItem(itemID int64) (*CatalogItem, error)

	// GetItemByName returns the catalog item with the given name, or
	// ErrNotFound. Names are unique in the catalog.
	GetItemByName(name string) (*CatalogItem, error)

	// PutItem creates the item when ItemID is zero, otherwise updates it.
	// Returns the item's ID.
	PutItem(item *CatalogItem) (int64, error)

	// RefreshPurchaseInfo updates the catalog item's last vendor and unit
	// price after a purchase. Empty vendor and zero price leave the stored
	// values untouched.
	RefreshPurchaseInfo(itemID int64, vendor string, unitPrice float64) error

	// ListItems returns all catalog items ordered by name.
	ListItems() ([]*CatalogItem, error)

	// GetStock returns the current quantity for the item, or ErrNotFound
	// when no stock entry exists. Absent is distinct from zero: entries
	// are removed at zero, never kept.
	GetStock(itemID int64) (float64, error)

	// SetStock writes the current quantity. Quantity <= 0 removes the
	// entry (delete-if-zero semantics).
	SetStock(itemID int64, quantity float64) error

	// ListStock returns all current stock entries ordered by item name.
	ListStock() ([]*StockEntry, error)

	// AppendMovement appends one movement to the log and returns its
	// generated ID. The log is append-only.
	AppendMovement(m *Movement) (string, error)

	// ListMovements returns movements matching the filter, newest first.
	ListMovements(filter MovementFilter) ([]*Movement, error)
}

// Store is a Ledger with an attach/detach lifecycle and transactional
// batches. Callers attach with a Config, operate, and detach when done.
type Store interface {
	Ledger

	// Attach connects the store to the backend described by config,
	// creating the data directory and schema as needed. Returns
	// ErrAlreadyAttached if called while attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent. After Detach,
	// operations return ErrStoreDetached.
	Detach() error

	// Transact runs fn against a transaction-bound Ledger. If fn returns
	// an error, every write made through that Ledger is rolled back and
	// the error is returned.
	Transact(fn func(Ledger) error) error
}

// UserDirectory provides account lookup for session management.
type UserDirectory interface {
	// GetUser returns the user with the given username, or ErrNotFound.
	GetUser(username string) (*User, error)

	// PutUser creates the user when UserID is zero, otherwise updates it.
	PutUser(u *User) (int64, error)
}

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)

// Entity and validation errors.
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidID        = errors.New("invalid item id")
	ErrInvalidName      = errors.New("name must not be empty")
	ErrInvalidQuantity  = errors.New("invalid quantity")
	ErrInvalidKind      = errors.New("unknown movement kind")
	ErrInvalidShelfLife = errors.New("shelf life must not be negative")
	ErrItemNotFound     = errors.New("item not in catalog")
	ErrDuplicateName    = errors.New("an item with that name already exists")
)

// Authentication errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionExpired     = errors.New("session expired or unknown")
)
