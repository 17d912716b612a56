// Package catalog is photopack's single-writer transactional store of
// sources, photos, duplicate groups and configuration. It is built on
// database/sql over github.com/glebarez/go-sqlite, a pure-Go (CGO-free)
// SQLite driver — swapped in for the teacher's CGO mattn/go-sqlite3
// reference in util/library.go since it's the driver actually pinned in
// the teacher's own go.mod, and keeps cross-compilation simple.
package catalog

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "github.com/glebarez/go-sqlite"

	"github.com/jterrazz/photopack/internal/cerrors"
	"github.com/jterrazz/photopack/internal/model"
)

// Catalog is a handle to the catalog database. Not safe for concurrent
// writers — spec.md §5 assumes a single writer at a time.
type Catalog struct {
	db     *sql.DB
	path   string
	logger *log.Logger
}

// Open creates parent directories, opens or creates the database at
// path, applies schema initialization, and runs migrations. Fails with
// *cerrors.SchemaTooNew if the on-disk schema_version exceeds what this
// binary knows.
func Open(path string) (*Catalog, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, &cerrors.IoError{Err: err}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &cerrors.DatabaseError{Err: err}
	}
	// SQLite has no real concurrent-writer story; pinning the pool to a
	// single connection also makes :memory: catalogs (used by tests)
	// behave like a single persistent connection instead of a fresh
	// empty database per checkout.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		db.Close()
		return nil, &cerrors.DatabaseError{Err: err}
	}
	if path != ":memory:" {
		if _, err := db.Exec(`PRAGMA journal_mode = WAL`); err != nil {
			db.Close()
			return nil, &cerrors.DatabaseError{Err: err}
		}
	}

	c := &Catalog{
		db:     db,
		path:   path,
		logger: log.New(os.Stderr, "catalog: ", log.LstdFlags),
	}

	if err := c.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

// Close releases the underlying database handle.
func (c *Catalog) Close() error {
	return c.db.Close()
}

func (c *Catalog) migrate() error {
	for _, stmt := range schemaStatements {
		if _, err := c.db.Exec(stmt); err != nil {
			return &cerrors.DatabaseError{Err: fmt.Errorf("schema init: %w", err)}
		}
	}

	version, ok, err := c.GetConfig(model.ConfigSchemaVersion)
	if err != nil {
		return err
	}
	if !ok {
		// Legacy pre-versioning database (or brand new): adopt current.
		return c.SetConfig(model.ConfigSchemaVersion, fmt.Sprintf("%d", CurrentSchemaVersion))
	}

	var onDisk int
	if _, err := fmt.Sscanf(version, "%d", &onDisk); err != nil {
		return &cerrors.DatabaseError{Err: fmt.Errorf("parsing schema_version %q: %w", version, err)}
	}
	switch {
	case onDisk == CurrentSchemaVersion:
		return nil
	case onDisk > CurrentSchemaVersion:
		return &cerrors.SchemaTooNew{DB: c.path, Code: onDisk}
	default:
		// Future migrations would run here, idempotently, then bump the
		// stored version. No migrations exist yet beyond version 1.
		return c.SetConfig(model.ConfigSchemaVersion, fmt.Sprintf("%d", CurrentSchemaVersion))
	}
}
