package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/vistoria/internal/model"
)

// DBFileName is the name of the database file inside the database directory.
const DBFileName = "vistoria.db"

// createdAtLayout is a fixed-width UTC layout, so that created_at sorts
// lexicographically in time order.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z"

// SnapshotDB provides SQLite-based storage for fetched datasets.
type SnapshotDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string

	// now returns the current time. Tests replace it.
	now func() time.Time
}

// Options configures SnapshotDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging so that the HTTP server can read
	// while a CLI command refreshes the cache.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a SnapshotDB in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*SnapshotDB, error) {
	dbPath := filepath.Join(dbDir, DBFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file, mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	sdb := &SnapshotDB{
		db:     db,
		dbPath: dbPath,
		now:    time.Now,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := sdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return sdb, nil
}

// Path returns the database file path.
func (sdb *SnapshotDB) Path() string {
	return sdb.dbPath
}

// Close closes the database connection.
func (sdb *SnapshotDB) Close() error {
	return sdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (sdb *SnapshotDB) createTables() error {
	schema := `
	-- Snapshots store complete datasets as JSON, keyed by the source
	-- configuration that produced them
	CREATE TABLE IF NOT EXISTS snapshots (
		id TEXT PRIMARY KEY,
		cache_key TEXT NOT NULL,
		served_by TEXT NOT NULL,
		row_count INTEGER NOT NULL,
		created_at TEXT NOT NULL,
		dataset_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_key ON snapshots(cache_key, created_at);
	`

	_, err := sdb.db.ExecContext(context.Background(), schema)
	return err
}

// Snapshot is a stored dataset.
type Snapshot struct {
	// ID is a random UUID assigned on save.
	ID string

	// Key identifies the source configuration, e.g. the chain of source names.
	Key string

	// ServedBy names the source that produced the dataset ("google", "xlsx"...).
	ServedBy string

	// RowCount is the number of records in the dataset.
	RowCount int

	// CreatedAt is when the dataset was fetched.
	CreatedAt time.Time

	// Dataset is nil for metadata-only listings.
	Dataset *model.Dataset
}

// Age returns how long ago the snapshot was taken, relative to now.
func (s *Snapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.CreatedAt)
}

// SaveSnapshot stores a dataset under key and returns its metadata.
func (sdb *SnapshotDB) SaveSnapshot(ctx context.Context, key, servedBy string, d *model.Dataset) (*Snapshot, error) {
	if d == nil {
		return nil, errors.New("cannot save nil dataset")
	}

	datasetJSON, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize dataset: %w", err)
	}

	snap := &Snapshot{
		ID:        uuid.NewString(),
		Key:       key,
		ServedBy:  servedBy,
		RowCount:  d.Len(),
		CreatedAt: sdb.now().UTC(),
	}

	query := `
	INSERT INTO snapshots (id, cache_key, served_by, row_count, created_at, dataset_json)
	VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err = sdb.db.ExecContext(ctx, query,
		snap.ID,
		snap.Key,
		snap.ServedBy,
		snap.RowCount,
		snap.CreatedAt.Format(createdAtLayout),
		string(datasetJSON),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save snapshot: %w", err)
	}

	return snap, nil
}

// LatestSnapshot returns the newest snapshot for key that is younger than
// maxAge. A maxAge of zero or less accepts any age.
// Returns nil, nil if there is no such snapshot.
func (sdb *SnapshotDB) LatestSnapshot(ctx context.Context, key string, maxAge time.Duration) (*Snapshot, error) {
	query := `
	SELECT id, served_by, row_count, created_at, dataset_json FROM snapshots
	WHERE cache_key = ?
	ORDER BY created_at DESC
	LIMIT 1
	`

	var (
		snap        = Snapshot{Key: key}
		createdAt   string
		datasetJSON string
	)
	err := sdb.db.QueryRowContext(ctx, query, key).Scan(
		&snap.ID,
		&snap.ServedBy,
		&snap.RowCount,
		&createdAt,
		&datasetJSON,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // nil snapshot means cache miss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot: %w", err)
	}

	snap.CreatedAt = parseTimestamp(createdAt)
	if maxAge > 0 && snap.Age(sdb.now()) >= maxAge {
		return nil, nil //nolint:nilnil // stale snapshot means cache miss
	}

	var d model.Dataset
	if err := json.Unmarshal([]byte(datasetJSON), &d); err != nil {
		return nil, fmt.Errorf("failed to parse dataset: %w", err)
	}
	snap.Dataset = &d

	return &snap, nil
}

// ListSnapshots returns snapshot metadata for key, newest first.
// The Dataset field of each entry is nil.
func (sdb *SnapshotDB) ListSnapshots(ctx context.Context, key string) ([]Snapshot, error) {
	query := `
	SELECT id, served_by, row_count, created_at FROM snapshots
	WHERE cache_key = ?
	ORDER BY created_at DESC
	`

	rows, err := sdb.db.QueryContext(ctx, query, key)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var results []Snapshot
	for rows.Next() {
		snap := Snapshot{Key: key}
		var createdAt string
		if err := rows.Scan(&snap.ID, &snap.ServedBy, &snap.RowCount, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snap.CreatedAt = parseTimestamp(createdAt)
		results = append(results, snap)
	}

	return results, rows.Err()
}

// PruneSnapshots deletes snapshots older than maxAge, across all keys.
// It returns the number of deleted snapshots.
func (sdb *SnapshotDB) PruneSnapshots(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := sdb.now().UTC().Add(-maxAge).Format(createdAtLayout)

	res, err := sdb.db.ExecContext(ctx, "DELETE FROM snapshots WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune snapshots: %w", err)
	}
	return res.RowsAffected()
}

// timestampFormats contains the timestamp formats created_at may hold.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	createdAtLayout,
	time.RFC3339Nano,
	"2006-01-02 15:04:05", // SQLite default datetime format
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time, which makes the
// snapshot stale.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
