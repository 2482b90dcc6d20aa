package jtl

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"
)

// SQLiteConfig configures the SQLite asset store.
type SQLiteConfig struct {
	// DataSource is the database file path or DSN. Use SQLiteMemoryDSN for a private
	// in-memory database.
	DataSource string

	// TablePrefix allows customizing the table name prefix.
	// Default: "jtl_"
	TablePrefix string

	// QueryTimeout is the default timeout for queries.
	// Default: 10 seconds
	QueryTimeout time.Duration
}

// SQLiteAssetStore keeps templates in a SQLite table keyed by location. The table is
// created on open. The pure Go driver is used unless built with the cgo_sqlite tag.
type SQLiteAssetStore struct {
	db     *sql.DB
	config SQLiteConfig
	mu     sync.RWMutex
	closed bool
}

// SQLiteAssetDriver is the driver for creating SQLiteAssetStore instances.
type SQLiteAssetDriver struct{}

func init() {
	RegisterAssetDriver(AssetDriverNameSQLite, &SQLiteAssetDriver{})
}

// Open creates a SQLiteAssetStore. The source is the database path.
func (d *SQLiteAssetDriver) Open(source string) (AssetStore, error) {
	return NewSQLiteAssetStore(SQLiteConfig{DataSource: source})
}

// NewSQLiteAssetStore opens the database and creates the assets table.
func NewSQLiteAssetStore(config SQLiteConfig) (*SQLiteAssetStore, error) {
	if config.DataSource == "" {
		return nil, NewStoreError(ErrMsgEmptyConnString, AssetDriverNameSQLite, nil)
	}
	if config.TablePrefix == "" {
		config.TablePrefix = SQLiteTablePrefix
	}
	if config.QueryTimeout == 0 {
		config.QueryTimeout = SQLiteDefaultQueryTimeout
	}

	db, err := openSQLite(config.DataSource)
	if err != nil {
		return nil, NewStoreError(ErrMsgConnectionFailed, AssetDriverNameSQLite, err)
	}
	// One connection keeps ":memory:" databases coherent and serializes writers.
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), config.QueryTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, NewStoreError(ErrMsgConnectionFailed, AssetDriverNameSQLite, err)
	}

	store := &SQLiteAssetStore{
		db:     db,
		config: config,
	}
	if err := store.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteAssetStore) tableName() string {
	return s.config.TablePrefix + assetTableSuffix
}

// Migrate creates the assets table if it does not exist.
func (s *SQLiteAssetStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			location   TEXT PRIMARY KEY,
			content    TEXT NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`, s.tableName()))
	if err != nil {
		return NewStoreError(ErrMsgMigrationFailed, AssetDriverNameSQLite, err)
	}
	return nil
}

// Build loads the asset stored at location.
func (s *SQLiteAssetStore) Build(ctx context.Context, location string) (Asset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewAssetStoreClosedError()
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.QueryTimeout)
	defer cancel()

	query := fmt.Sprintf(`SELECT content FROM %s WHERE location = ?`, s.tableName())

	var content string
	if err := s.db.QueryRowContext(ctx, query, location).Scan(&content); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewAssetNotFoundError(location)
		}
		return nil, NewAssetError(ErrMsgQueryFailed, location, err)
	}
	return NewStringAsset(location, content), nil
}

// Put creates or replaces the asset at location.
func (s *SQLiteAssetStore) Put(ctx context.Context, location, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if location == "" {
		return NewInvalidLocationError(location)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return NewAssetStoreClosedError()
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.QueryTimeout)
	defer cancel()

	query := fmt.Sprintf(`
		INSERT INTO %s (location, content, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (location) DO UPDATE
		SET content = excluded.content, updated_at = CURRENT_TIMESTAMP`, s.tableName())

	if _, err := s.db.ExecContext(ctx, query, location, content); err != nil {
		return NewAssetError(ErrMsgAssetWriteFailed, location, err)
	}
	return nil
}

// Delete removes the asset at location.
func (s *SQLiteAssetStore) Delete(ctx context.Context, location string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return NewAssetStoreClosedError()
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.QueryTimeout)
	defer cancel()

	query := fmt.Sprintf(`DELETE FROM %s WHERE location = ?`, s.tableName())
	result, err := s.db.ExecContext(ctx, query, location)
	if err != nil {
		return NewAssetError(ErrMsgAssetDeleteFailed, location, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return NewAssetError(ErrMsgAssetDeleteFailed, location, err)
	}
	if affected == 0 {
		return NewAssetNotFoundError(location)
	}
	return nil
}

// Locations lists every stored location, sorted.
func (s *SQLiteAssetStore) Locations(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewAssetStoreClosedError()
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.QueryTimeout)
	defer cancel()

	query := fmt.Sprintf(`SELECT location FROM %s ORDER BY location`, s.tableName())
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, NewStoreError(ErrMsgQueryFailed, AssetDriverNameSQLite, err)
	}
	defer rows.Close()

	return scanLocations(rows, AssetDriverNameSQLite)
}

// Close closes the database.
func (s *SQLiteAssetStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStoreError(ErrMsgStoreAlreadyClosed, AssetDriverNameSQLite, nil)
	}

	s.closed = true
	return s.db.Close()
}
