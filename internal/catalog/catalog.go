package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver

	"github.com/mranlett/ViLM/internal/logging"
	"github.com/mranlett/ViLM/internal/metrics"
)

// Default timeout for store operations
const defaultTimeout = 5 * time.Second

// ErrAssetNotFound is returned (wrapped in a StorageError) when an update
// references an id that does not exist in the catalog.
var ErrAssetNotFound = errors.New("asset not found")

// StorageError indicates the catalog store could not be opened, migrated,
// or written. The library is unusable until the underlying cause is
// resolved; callers should not retry automatically.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("catalog %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// Catalog manages the persistent asset registry for one library root.
type Catalog struct {
	db   *sql.DB
	root string
	mu   sync.RWMutex
}

// Open ensures the .catalog directory exists, opens or creates the backing
// store, and applies all pending schema migrations in increasing order.
func Open(ctx context.Context, root string) (*Catalog, error) {
	dir := Dir(root)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, storageErr("open", fmt.Errorf("failed to create catalog directory: %w", err))
	}

	storePath := StorePath(root)
	logging.Debug("Catalog store path: %s", storePath)

	// WAL mode and busy_timeout prevent "database is locked" errors when
	// readers overlap the single writer.
	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", storePath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, storageErr("open", fmt.Errorf("failed to open store: %w", err))
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close store after ping failure: %v", closeErr)
		}
		return nil, storageErr("open", fmt.Errorf("failed to connect to store: %w", err))
	}

	// Readers may fan out; writes are serialized through c.mu.
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	c := &Catalog{
		db:   db,
		root: root,
	}

	if err := c.initialize(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close store after initialization failure: %v", closeErr)
		}
		return nil, storageErr("migrate", err)
	}

	logging.Info("Catalog opened at %s", storePath)
	return c, nil
}

// Root returns the library root this catalog belongs to.
func (c *Catalog) Root() string {
	return c.root
}

// Close closes the store connection.
func (c *Catalog) Close() error {
	return c.db.Close()
}

func (c *Catalog) initialize(ctx context.Context) error {
	// Base schema as first released; later columns arrive via migrations.
	schema := `
	CREATE TABLE IF NOT EXISTS assets (
		id TEXT PRIMARY KEY,
		relative_path TEXT NOT NULL UNIQUE,
		file_name TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'unreviewed',
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_assets_status ON assets(status);

	CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
	);
	`

	if _, err := c.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply base schema: %w", err)
	}

	return c.runMigrations(ctx)
}

// migration is one additive schema change. The apply func must be
// idempotent: re-running against an already-current schema is a no-op.
type migration struct {
	version     int
	description string
	apply       func(ctx context.Context, db *sql.DB) error
}

var migrations = []migration{
	{
		version:     1,
		description: "add tags column to assets",
		apply:       migrateAddTagsColumn,
	},
}

// runMigrations applies pending migrations in strictly increasing order,
// recording each applied version in schema_migrations.
func (c *Catalog) runMigrations(ctx context.Context) error {
	var current sql.NullInt64
	err := c.db.QueryRowContext(ctx,
		"SELECT MAX(version) FROM schema_migrations",
	).Scan(&current)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, m := range migrations {
		if current.Valid && int64(m.version) <= current.Int64 {
			continue
		}

		logging.Info("Migrating catalog schema: v%d (%s)", m.version, m.description)

		if err := m.apply(ctx, c.db); err != nil {
			return fmt.Errorf("migration v%d failed: %w", m.version, err)
		}

		if _, err := c.db.ExecContext(ctx,
			"INSERT OR IGNORE INTO schema_migrations (version) VALUES (?)", m.version,
		); err != nil {
			return fmt.Errorf("failed to record migration v%d: %w", m.version, err)
		}

		logging.Info("Migration v%d complete", m.version)
	}

	return nil
}

// migrateAddTagsColumn adds the tags column, released after the initial
// schema. Column presence is checked explicitly so the migration stays a
// no-op on stores created before the migration ledger existed.
func migrateAddTagsColumn(ctx context.Context, db *sql.DB) error {
	var columnExists bool
	err := db.QueryRowContext(ctx, `
		SELECT COUNT(*) > 0
		FROM pragma_table_info('assets')
		WHERE name='tags'
	`).Scan(&columnExists)
	if err != nil {
		return fmt.Errorf("failed to check for tags column: %w", err)
	}

	if columnExists {
		return nil
	}

	_, err = db.ExecContext(ctx, `
		ALTER TABLE assets ADD COLUMN tags TEXT NOT NULL DEFAULT '[]'
	`)
	if err != nil {
		return fmt.Errorf("failed to add tags column: %w", err)
	}

	return nil
}

// observeQuery records catalog query metrics. The returned func must be
// called with the operation's final error.
func observeQuery(operation string) func(error) {
	start := time.Now()
	return func(err error) {
		status := "success"
		if err != nil {
			status = "error"
		}
		metrics.CatalogQueryTotal.WithLabelValues(operation, status).Inc()
		metrics.CatalogQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}
