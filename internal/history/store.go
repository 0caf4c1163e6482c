// =============================================================================
// Order Document Generator - Job History Store
// =============================================================================
//
// This module keeps a small sqlite database next to the output directory:
//   - jobs:         one row per finished conversion, newest listed first
//   - saved_inputs: the field files used for a conversion, kept for a day
//                   so the same order can be regenerated
//
// The database is opened in WAL mode with a busy timeout, so two CLI runs
// writing at the same time wait for each other instead of failing.
//
// =============================================================================

package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/ginjaninja78/orderdoc/internal/history/migrations"
)

// ErrNotFound is returned when a job or saved input does not exist.
var ErrNotFound = errors.New("history entry not found")

// DefaultJobLimit is the number of jobs ListJobs returns when no limit is
// given.
const DefaultJobLimit = 50

// DefaultRetention is how long saved inputs are kept.
const DefaultRetention = 24 * time.Hour

// StatusCompleted is the status of a successful job.
const StatusCompleted = "completed"

// timeLayout is fixed width and always UTC, so stored timestamps sort
// lexically.
const timeLayout = "2006-01-02 15:04:05.000000"

// Job is one recorded conversion.
type Job struct {
	ID          int64             `json:"id"`
	SessionID   string            `json:"session_id"`
	Tool        string            `json:"tool"`
	Description string            `json:"description"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	Status      string            `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
}

// SavedInput is a stored set of conversion inputs.
type SavedInput struct {
	ID        int64           `json:"id"`
	Tool      string          `json:"tool"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"created_at"`
}

// Store is the sqlite-backed history.
type Store struct {
	db        *sql.DB
	path      string
	now       func() time.Time
	retention time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithRetention sets how long saved inputs are kept. Zero or negative
// values keep the default.
func WithRetention(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.retention = d
		}
	}
}

// Open opens (creating if needed) the history database at path. The path
// ":memory:" opens a private in-memory database.
func Open(path string, opts ...Option) (*Store, error) {
	memory := path == ":memory:"
	if !memory {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	// WAL mode for concurrent CLI runs.
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	if memory {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	s := &Store{
		db:        db,
		path:      path,
		now:       time.Now,
		retention: DefaultRetention,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)",
			version, formatTime(s.now())); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}
	return nil
}

// ==================== Jobs ====================

// RecordJob stores a finished conversion.
func (s *Store) RecordJob(ctx context.Context, tool, description string, metadata map[string]string) (Job, error) {
	job := Job{
		SessionID:   uuid.NewString(),
		Tool:        tool,
		Description: description,
		Metadata:    metadata,
		Status:      StatusCompleted,
		CreatedAt:   s.now().UTC(),
	}

	var metaJSON sql.NullString
	if len(metadata) > 0 {
		data, err := json.Marshal(metadata)
		if err != nil {
			return Job{}, fmt.Errorf("marshalling job metadata: %w", err)
		}
		metaJSON = sql.NullString{String: string(data), Valid: true}
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO jobs (session_id, tool_type, description, metadata, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, job.SessionID, job.Tool, job.Description, metaJSON, job.Status, formatTime(job.CreatedAt))
	if err != nil {
		return Job{}, fmt.Errorf("saving job: %w", err)
	}
	if job.ID, err = res.LastInsertId(); err != nil {
		return Job{}, fmt.Errorf("reading job id: %w", err)
	}
	return job, nil
}

// ListJobs returns up to limit jobs, newest first.
func (s *Store) ListJobs(ctx context.Context, limit int) ([]Job, error) {
	if limit <= 0 {
		limit = DefaultJobLimit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, tool_type, description, metadata, status, created_at
		FROM jobs
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying jobs: %w", err)
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		var (
			job       Job
			meta      sql.NullString
			createdAt string
		)
		if err := rows.Scan(&job.ID, &job.SessionID, &job.Tool, &job.Description, &meta, &job.Status, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning job: %w", err)
		}
		if meta.Valid && meta.String != "" {
			if err := json.Unmarshal([]byte(meta.String), &job.Metadata); err != nil {
				return nil, fmt.Errorf("parsing metadata of job %d: %w", job.ID, err)
			}
		}
		if job.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating jobs: %w", err)
	}
	return jobs, nil
}

// DeleteJob removes one job.
func (s *Store) DeleteJob(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM jobs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting job: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting job: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("job %d: %w", id, ErrNotFound)
	}
	return nil
}

// ClearJobs removes every job and returns how many were removed.
func (s *Store) ClearJobs(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM jobs")
	if err != nil {
		return 0, fmt.Errorf("clearing jobs: %w", err)
	}
	return res.RowsAffected()
}

// ==================== Saved Inputs ====================

// SaveInput stores data as JSON under tool and purges inputs older than the
// retention window.
func (s *Store) SaveInput(ctx context.Context, tool string, data any) (int64, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return 0, fmt.Errorf("marshalling input: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO saved_inputs (tool_type, input_data, created_at)
		VALUES (?, ?, ?)
	`, tool, string(payload), formatTime(s.now()))
	if err != nil {
		return 0, fmt.Errorf("saving input: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading input id: %w", err)
	}

	if _, err := s.CleanupInputs(ctx); err != nil {
		return id, err
	}
	return id, nil
}

// CleanupInputs removes saved inputs older than the retention window.
func (s *Store) CleanupInputs(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.retention)
	res, err := s.db.ExecContext(ctx, "DELETE FROM saved_inputs WHERE created_at < ?", formatTime(cutoff))
	if err != nil {
		return 0, fmt.Errorf("cleaning saved inputs: %w", err)
	}
	return res.RowsAffected()
}

// SavedInputs returns the inputs saved for tool on the calendar day of day,
// in day's time zone, newest first.
func (s *Store) SavedInputs(ctx context.Context, tool string, day time.Time) ([]SavedInput, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, tool_type, input_data, created_at
		FROM saved_inputs
		WHERE tool_type = ? AND created_at >= ? AND created_at < ?
		ORDER BY created_at DESC, id DESC
	`, tool, formatTime(start), formatTime(end))
	if err != nil {
		return nil, fmt.Errorf("querying saved inputs: %w", err)
	}
	defer rows.Close()

	var out []SavedInput
	for rows.Next() {
		var (
			in        SavedInput
			data      string
			createdAt string
		)
		if err := rows.Scan(&in.ID, &in.Tool, &data, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning saved input: %w", err)
		}
		if !json.Valid([]byte(data)) {
			continue
		}
		in.Data = json.RawMessage(data)
		if in.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating saved inputs: %w", err)
	}
	return out, nil
}

// LoadInput decodes the saved input id into v.
func (s *Store) LoadInput(ctx context.Context, id int64, v any) error {
	var data string
	err := s.db.QueryRowContext(ctx, "SELECT input_data FROM saved_inputs WHERE id = ?", id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("saved input %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("loading saved input: %w", err)
	}
	if err := json.Unmarshal([]byte(data), v); err != nil {
		return fmt.Errorf("decoding saved input %d: %w", id, err)
	}
	return nil
}

// ==================== Helpers ====================

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.ParseInLocation(timeLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t, nil
}
