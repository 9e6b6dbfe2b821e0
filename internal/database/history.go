package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/procgen/internal/model"
)

// FileName is the database file created inside the history directory.
const FileName = "procgen.db"

// Errors returned by HistoryDB.
var (
	// ErrAmbiguousRunID is returned when an id prefix matches several runs.
	ErrAmbiguousRunID = errors.New("run id prefix matches more than one run")

	// ErrRunNotWritten is returned when saving a run whose output is empty.
	ErrRunNotWritten = errors.New("run has no written configuration")
)

// HistoryDB stores generation runs in SQLite.
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

// Open opens or creates a HistoryDB in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (record a run with --history first)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite: mode=rw refuses to create a missing file.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
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
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		timestamp TEXT NOT NULL,
		input_path TEXT NOT NULL,
		output_path TEXT NOT NULL,
		destination TEXT NOT NULL,
		discovered INTEGER NOT NULL,
		selected INTEGER NOT NULL,
		urls_json TEXT NOT NULL,
		config_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp);
	CREATE INDEX IF NOT EXISTS idx_runs_destination ON runs(destination);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// RunRecord is a stored generation run.
type RunRecord struct {
	ID          string
	Timestamp   time.Time
	InputPath   string
	OutputPath  string
	Destination string
	Discovered  int
	Selected    int
	URLs        []string
	ConfigJSON  string
}

// SaveRun stores a written run.
func (hdb *HistoryDB) SaveRun(ctx context.Context, run *model.Run) error {
	if len(run.Output) == 0 {
		return ErrRunNotWritten
	}

	urlsJSON, err := json.Marshal(run.Selected)
	if err != nil {
		return fmt.Errorf("failed to serialize urls: %w", err)
	}

	query := `
	INSERT INTO runs (id, timestamp, input_path, output_path, destination, discovered, selected, urls_json, config_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = hdb.db.ExecContext(ctx, query,
		run.ID,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.InputPath,
		run.OutputPath,
		run.Destination.String(),
		len(run.Discovered),
		len(run.Selected),
		string(urlsJSON),
		string(run.Output),
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	return nil
}

// ListRuns returns up to limit runs, newest first. A non-positive limit
// returns every run.
func (hdb *HistoryDB) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	query := `
	SELECT id, timestamp, input_path, output_path, destination, discovered, selected, urls_json, config_json
	FROM runs
	ORDER BY timestamp DESC
	`
	args := make([]any, 0, 1)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}

	return records, rows.Err()
}

// GetRun retrieves a run by id or unique id prefix.
// Returns nil without error when nothing matches.
func (hdb *HistoryDB) GetRun(ctx context.Context, idPrefix string) (*RunRecord, error) {
	query := `
	SELECT id, timestamp, input_path, output_path, destination, discovered, selected, urls_json, config_json
	FROM runs
	WHERE id LIKE ? ESCAPE '\'
	ORDER BY timestamp DESC
	LIMIT 2
	`

	rows, err := hdb.db.QueryContext(ctx, query, escapeLike(idPrefix)+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	defer rows.Close()

	var found []*RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		found = append(found, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch len(found) {
	case 0:
		return nil, nil
	case 1:
		return found[0], nil
	default:
		for _, rec := range found {
			if rec.ID == idPrefix {
				return rec, nil
			}
		}
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousRunID, idPrefix)
	}
}

// CountRuns returns the number of stored runs.
func (hdb *HistoryDB) CountRuns(ctx context.Context) (int, error) {
	var count int
	if err := hdb.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM runs").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count runs: %w", err)
	}
	return count, nil
}

// scanRun reads one row of the runs table.
func scanRun(rows *sql.Rows) (*RunRecord, error) {
	var rec RunRecord
	var timestamp, urlsJSON string

	if err := rows.Scan(
		&rec.ID,
		&timestamp,
		&rec.InputPath,
		&rec.OutputPath,
		&rec.Destination,
		&rec.Discovered,
		&rec.Selected,
		&urlsJSON,
		&rec.ConfigJSON,
	); err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	rec.Timestamp = parseTimestamp(timestamp)
	if err := json.Unmarshal([]byte(urlsJSON), &rec.URLs); err != nil {
		return nil, fmt.Errorf("failed to parse urls: %w", err)
	}

	return &rec, nil
}

// escapeLike escapes LIKE wildcards in s.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// timestampFormats contains the timestamp formats that may be stored.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
