package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/larder/pkg/types"
)

// DBFileName is the SQLite database file created under the data directory.
const DBFileName = "larder.db"

// Compile-time interface checks.
var (
	_ types.Store         = (*Store)(nil)
	_ types.Ledger        = (*ledgerView)(nil)
	_ types.UserDirectory = (*Store)(nil)
)

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx.
// Every row-level helper is written against it, so the same code serves
// single calls and transactional batches.
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// ledgerView implements types.Ledger over a querier. Store binds one view
// to its *sql.DB; Transact binds a fresh view to each transaction.
type ledgerView struct {
	q   querier
	now func() time.Time
}

// Store implements the Ledger Store on SQLite.
type Store struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	view     ledgerView

	// now is replaceable in tests.
	now func() time.Time
}

// NewStore creates a new SQLite store. The store is not attached; call
// Attach with a Config to open the database.
func NewStore() *Store {
	return &Store{now: time.Now}
}

// Attach opens (or creates) the database under config.DataDir and applies
// the schema idempotently. Returns ErrAlreadyAttached if already attached.
func (s *Store) Attach(config types.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, DBFileName))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	// Serialize writers through a single connection; the sqlite driver
	// otherwise reports "database is locked" under concurrent access.
	db.SetMaxOpenConns(1)

	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	for _, ddl := range indexDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return fmt.Errorf("apply indexes: %w", err)
		}
	}

	s.db = db
	s.config = config
	s.view = ledgerView{q: db, now: s.now}
	s.attached = true
	return nil
}

// Detach closes the database. Idempotent. After Detach, all operations
// return ErrStoreDetached.
func (s *Store) Detach() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return nil // idempotent
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			return fmt.Errorf("close database: %w", err)
		}
		s.db = nil
	}

	s.attached = false
	s.view = ledgerView{}
	return nil
}

// Transact runs fn against a transaction-bound Ledger. Any error from fn
// rolls back every write made through that Ledger.
func (s *Store) Transact(fn func(types.Ledger) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.attached {
		return types.ErrStoreDetached
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(ledgerView{q: tx, now: s.now}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// checkedView returns the db-bound view, or an error when detached.
func (s *Store) checkedView() (ledgerView, error) {
	if !s.attached {
		return ledgerView{}, types.ErrStoreDetached
	}
	return s.view, nil
}

// The Ledger methods on Store delegate to the db-bound view under a read
// lock, so plain calls and Transact batches share the row-level helpers.

func (s *Store) GetItem(itemID int64) (*types.CatalogItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, err := s.checkedView()
	if err != nil {
		return nil, err
	}
	return v.GetItem(itemID)
}

func (s *Store) GetItemByName(name string) (*types.CatalogItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, err := s.checkedView()
	if err != nil {
		return nil, err
	}
	return v.GetItemByName(name)
}

func (s *Store) PutItem(item *types.CatalogItem) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, err := s.checkedView()
	if err != nil {
		return 0, err
	}
	return v.PutItem(item)
}

func (s *Store) RefreshPurchaseInfo(itemID int64, vendor string, unitPrice float64) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, err := s.checkedView()
	if err != nil {
		return err
	}
	return v.RefreshPurchaseInfo(itemID, vendor, unitPrice)
}

func (s *Store) ListItems() ([]*types.CatalogItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, err := s.checkedView()
	if err != nil {
		return nil, err
	}
	return v.ListItems()
}

func (s *Store) GetStock(itemID int64) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, err := s.checkedView()
	if err != nil {
		return 0, err
	}
	return v.GetStock(itemID)
}

func (s *Store) SetStock(itemID int64, quantity float64) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, err := s.checkedView()
	if err != nil {
		return err
	}
	return v.SetStock(itemID, quantity)
}

func (s *Store) ListStock() ([]*types.StockEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, err := s.checkedView()
	if err != nil {
		return nil, err
	}
	return v.ListStock()
}

func (s *Store) AppendMovement(m *types.Movement) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, err := s.checkedView()
	if err != nil {
		return "", err
	}
	return v.AppendMovement(m)
}

func (s *Store) ListMovements(filter types.MovementFilter) ([]*types.Movement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, err := s.checkedView()
	if err != nil {
		return nil, err
	}
	return v.ListMovements(filter)
}

func (s *Store) GetUser(username string) (*types.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, err := s.checkedView()
	if err != nil {
		return nil, err
	}
	return v.GetUser(username)
}

func (s *Store) PutUser(u *types.User) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, err := s.checkedView()
	if err != nil {
		return 0, err
	}
	return v.PutUser(u)
}

// generateUUID generates a new UUID v7 for movement IDs.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}
