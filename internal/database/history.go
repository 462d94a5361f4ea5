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

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/dehashscan/internal/model"
)

// FileName is the database file inside the database directory.
const FileName = "dehashscan.db"

// sortableTime formats timestamps so that text order is time order.
const sortableTime = "2006-01-02T15:04:05.000000000Z"

// HistoryDB records completed scans.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the history database in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error
// wrapping fs.ErrNotExist is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); err != nil {
			return nil, fmt.Errorf("failed to open history database: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file; mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Path returns the database file path.
func (h *HistoryDB) Path() string {
	return h.dbPath
}

// Close closes the database connection.
func (h *HistoryDB) Close() error {
	return h.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (h *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS scans (
		id TEXT PRIMARY KEY,
		domain TEXT NOT NULL,
		started_at TEXT NOT NULL,
		finished_at TEXT,
		workspace TEXT,
		total INTEGER DEFAULT 0,
		records INTEGER DEFAULT 0,
		hashes INTEGER DEFAULT 0,
		credentials INTEGER DEFAULT 0,
		digest TEXT,
		error TEXT,
		scan_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_scans_domain ON scans(domain);
	CREATE INDEX IF NOT EXISTS idx_scans_started ON scans(started_at);
	`

	_, err := h.db.ExecContext(context.Background(), schema)
	return err
}

// SaveScan stores a scan. Saving the same scan ID again replaces the row.
func (h *HistoryDB) SaveScan(ctx context.Context, scan *model.Scan) error {
	scanJSON, err := json.Marshal(scan)
	if err != nil {
		return fmt.Errorf("failed to serialize scan: %w", err)
	}

	var finished sql.NullString
	if !scan.FinishedAt.IsZero() {
		finished = sql.NullString{String: formatTime(scan.FinishedAt), Valid: true}
	}

	query := `
	INSERT INTO scans (id, domain, started_at, finished_at, workspace, total, records, hashes, credentials, digest, error, scan_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		finished_at = excluded.finished_at,
		workspace = excluded.workspace,
		total = excluded.total,
		records = excluded.records,
		hashes = excluded.hashes,
		credentials = excluded.credentials,
		digest = excluded.digest,
		error = excluded.error,
		scan_json = excluded.scan_json
	`

	_, err = h.db.ExecContext(ctx, query,
		scan.ID,
		scan.Domain,
		formatTime(scan.StartedAt),
		finished,
		scan.Workspace,
		scan.Total,
		scan.Counts.Records,
		scan.Counts.Hashes,
		scan.Counts.Credentials,
		scan.DataDigest,
		scan.ErrorMessage,
		string(scanJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save scan: %w", err)
	}
	return nil
}

// LatestScan returns the most recent scan of domain that produced a
// dataset, or nil if there is none.
func (h *HistoryDB) LatestScan(ctx context.Context, domain string) (*model.Scan, error) {
	query := `
	SELECT scan_json FROM scans
	WHERE domain = ? AND digest != ''
	ORDER BY started_at DESC
	LIMIT 1
	`

	var scanJSON string
	err := h.db.QueryRowContext(ctx, query, domain).Scan(&scanJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest scan: %w", err)
	}

	return decodeScan(scanJSON)
}

// ListScans returns the scans of domain, newest first. An empty domain
// lists every scan.
func (h *HistoryDB) ListScans(ctx context.Context, domain string) ([]*model.Scan, error) {
	query := `
	SELECT scan_json FROM scans
	WHERE ? = '' OR domain = ?
	ORDER BY started_at DESC
	`

	rows, err := h.db.QueryContext(ctx, query, domain, domain)
	if err != nil {
		return nil, fmt.Errorf("failed to list scans: %w", err)
	}
	defer rows.Close()

	scans := make([]*model.Scan, 0)
	for rows.Next() {
		var scanJSON string
		if err := rows.Scan(&scanJSON); err != nil {
			return nil, fmt.Errorf("failed to read scan: %w", err)
		}

		scan, err := decodeScan(scanJSON)
		if err != nil {
			continue // Skip malformed rows
		}
		scans = append(scans, scan)
	}

	return scans, rows.Err()
}

// decodeScan parses a stored scan.
func decodeScan(scanJSON string) (*model.Scan, error) {
	var scan model.Scan
	if err := json.Unmarshal([]byte(scanJSON), &scan); err != nil {
		return nil, fmt.Errorf("failed to parse scan: %w", err)
	}
	return &scan, nil
}

// formatTime renders t in UTC with a fixed width.
func formatTime(t time.Time) string {
	return t.UTC().Format(sortableTime)
}
