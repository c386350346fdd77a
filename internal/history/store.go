package history

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

	"github.com/nao1215/appmodkit/internal/model"
)

// timeLayout stores timestamps with fixed width so that text order is
// chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store provides SQLite-based storage for assess runs.
type Store struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures Store behavior.
type Options struct {
	// CreateIfNotExists creates the directory and database file if they
	// don't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default store options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the history database at dbPath.
// The parent directory is created when opts.CreateIfNotExists is set.
func Open(dbPath string, opts Options) (*Store, error) {
	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrDatabaseNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close() //nolint:errcheck // already returning an error
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := s.createTables(); err != nil {
		_ = db.Close() //nolint:errcheck // already returning an error
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		output_path TEXT NOT NULL,
		issue_source TEXT NOT NULL,
		result TEXT NOT NULL,
		error TEXT,
		summary_path TEXT,
		applications INTEGER DEFAULT 0,
		issues INTEGER DEFAULT 0,
		severity TEXT,
		warnings TEXT,
		started_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
	CREATE INDEX IF NOT EXISTS idx_runs_output_path ON runs(output_path);
	`

	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// Entry is a stored assess run.
type Entry struct {
	ID           string               `json:"id"`
	OutputPath   string               `json:"outputPath"`
	IssueSource  string               `json:"issueSource"`
	Result       string               `json:"result"`
	Error        string               `json:"error,omitempty"`
	SummaryPath  string               `json:"summaryPath,omitempty"`
	Applications int                  `json:"applications"`
	Issues       int                  `json:"issues"`
	Severity     model.SeverityCounts `json:"severity"`
	Warnings     []string             `json:"warnings,omitempty"`
	StartedAt    time.Time            `json:"startedAt"`
}

// Record stores a finished run. A run without an id gets a new UUID.
func (s *Store) Record(ctx context.Context, run *model.AssessmentRun) error {
	if run == nil {
		return ErrNilRun
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	startedAt := run.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now()
	}

	severityJSON, err := json.Marshal(run.Stats.Severity)
	if err != nil {
		return fmt.Errorf("failed to serialize severity counts: %w", err)
	}
	warningsJSON, err := json.Marshal(run.Warnings)
	if err != nil {
		return fmt.Errorf("failed to serialize warnings: %w", err)
	}

	query := `
	INSERT INTO runs (id, output_path, issue_source, result, error, summary_path,
		applications, issues, severity, warnings, started_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.ExecContext(ctx, query,
		run.ID,
		run.OutputPath,
		run.IssueSource,
		run.Result,
		run.ErrorMessage,
		run.SummaryPath,
		run.Stats.Applications,
		run.Stats.Issues,
		string(severityJSON),
		string(warningsJSON),
		startedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

const selectColumns = `
	SELECT id, output_path, issue_source, result, error, summary_path,
		applications, issues, severity, warnings, started_at
	FROM runs
	`

// List returns the latest runs, newest first. A limit of zero or less
// returns every run.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	query := selectColumns + " ORDER BY started_at DESC, seq DESC"
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// Get returns the run with the given id.
func (s *Store) Get(ctx context.Context, id string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return e, err
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc scanner) (*Entry, error) {
	var (
		e            Entry
		errMsg       sql.NullString
		summaryPath  sql.NullString
		severityJSON sql.NullString
		warningsJSON sql.NullString
		startedAt    string
	)

	err := sc.Scan(
		&e.ID,
		&e.OutputPath,
		&e.IssueSource,
		&e.Result,
		&errMsg,
		&summaryPath,
		&e.Applications,
		&e.Issues,
		&severityJSON,
		&warningsJSON,
		&startedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	e.Error = errMsg.String
	e.SummaryPath = summaryPath.String
	e.StartedAt = parseTimestamp(startedAt)

	// Malformed JSON columns leave the zero value.
	if severityJSON.Valid && severityJSON.String != "" {
		_ = json.Unmarshal([]byte(severityJSON.String), &e.Severity) //nolint:errcheck,errchkjson // zero counts on failure
	}
	if warningsJSON.Valid && warningsJSON.String != "" {
		_ = json.Unmarshal([]byte(warningsJSON.String), &e.Warnings) //nolint:errcheck,errchkjson // no warnings on failure
	}
	return &e, nil
}

// timestampFormats contains the timestamp formats accepted when reading.
var timestampFormats = []string{
	timeLayout,
	time.RFC3339Nano,
	"2006-01-02 15:04:05", // SQLite default datetime format
}

// parseTimestamp parses a stored timestamp. Returns zero time when no
// format matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
