// Package sqlite implements the SQLite storage backend for Strata. Each
// entity type has its own table accessor implementing types.Table; the
// backend routes table names to accessors and owns the database handle.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/strata/pkg/types"
)

// dbFileName is the SQLite database file created inside DataDir.
const dbFileName = "strata.db"

// Compile-time interface check: Backend must implement Cupboard.
var _ types.Cupboard = (*Backend)(nil)

// Backend implements the Cupboard interface using SQLite as the record store.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	tables   map[string]types.Table
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{
		tables: make(map[string]types.Table),
	}
}

// Attach initializes the backend with the given configuration.
// Creates DataDir if it does not exist, initializes the SQLite schema,
// and creates table accessors.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
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
		return err
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, dbFileName))
	if err != nil {
		return err
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return fmt.Errorf("initializing schema: %w", err)
	}

	b.db = db
	b.config = config
	b.tables = map[string]types.Table{
		types.AssetTypesTable: &assetTypesTable{backend: b},
		types.EnumTypesTable:  &enumTypesTable{backend: b},
		types.TextsTable:      &textsTable{backend: b},
		types.URIsTable:       &urisTable{backend: b},
		types.EnumItemsTable:  &enumItemsTable{backend: b},
		types.AssetsTable:     &assetsTable{backend: b},
		types.ChangesTable:    &changesTable{backend: b},
	}
	b.attached = true
	return nil
}

// Detach releases backend resources. Idempotent: multiple calls succeed.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	err := b.db.Close()
	b.db = nil
	b.tables = make(map[string]types.Table)
	b.attached = false
	return err
}

// GetTable returns a Table interface for the specified table name.
// Returns ErrTableNotFound if the table name is not recognized.
// Returns ErrCupboardDetached if the backend is not attached.
func (b *Backend) GetTable(name string) (types.Table, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrCupboardDetached
	}

	table, ok := b.tables[name]
	if !ok {
		return nil, types.ErrTableNotFound
	}
	return table, nil
}
