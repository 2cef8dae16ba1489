/*
Package sqlite provides the SQLite-backed request log and staff directory.

PURPOSE:
  Durable implementation of workflow.RequestStore plus the admin-facing
  queries (full listing, destructive reset) and the staff directory used to
  pre-populate the intake form.

APPEND-ONLY WITH ONE EXCEPTION:
  The requests table is append-only except for the single permitted
  mutation: UpdateStatus sets the status column exactly once when a
  decision arrives. No other UPDATE, no DELETE outside ResetLog.

LOG LAYOUT:
  One row per request with the column order the admin view renders:
  timestamp, name, email, approver, start, end, days, duration, leave type,
  reason, status. Days are stored as decimal strings so 0.5 round-trips
  exactly.

CONCURRENCY:
  sync.RWMutex over *sql.DB. SQLite is opened with WAL so readers don't
  block.

USAGE:
  store, err := sqlite.New("./data/leave.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - workflow/types.go: RequestStore contract
  - store/memory: In-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/leave-workflow/calendar"
	"github.com/warp/leave-workflow/workflow"
)

// Store implements workflow.RequestStore and the admin/directory queries.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a SQLite store at the given path. Use ":memory:" for tests.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the schema. The original's header-row-on-first-use
// becomes CREATE TABLE IF NOT EXISTS here.
func (s *Store) migrate() error {
	schema := `
	-- Request log (append-only; status is the one mutable column)
	CREATE TABLE IF NOT EXISTS requests (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		approver TEXT NOT NULL DEFAULT '',
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		days TEXT NOT NULL,
		duration TEXT NOT NULL,
		leave_type TEXT,
		reason TEXT,
		status TEXT NOT NULL DEFAULT 'Pending'
	);

	-- Pending lookup (hot path for decisions)
	CREATE INDEX IF NOT EXISTS idx_requests_pending
		ON requests(email, start_date, end_date, status);

	-- Admin view ordering
	CREATE INDEX IF NOT EXISTS idx_requests_created
		ON requests(created_at DESC);

	-- Staff directory (intake form pre-population)
	CREATE TABLE IF NOT EXISTS staff (
		email TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// REQUEST LOG (workflow.RequestStore interface)
// =============================================================================

// Append adds a request as the newest log entry. No uniqueness constraint
// on any field beyond the generated ID; duplicates are expected on
// re-submission.
func (s *Store) Append(ctx context.Context, rec workflow.TimeOffRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO requests
		(id, created_at, name, email, approver, start_date, end_date, days, duration, leave_type, reason, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		rec.ID,
		rec.CreatedAt.UTC().Format(time.RFC3339),
		rec.EmployeeName,
		rec.EmployeeEmail,
		rec.Approver,
		rec.StartDate.Format(calendar.DateLayout),
		rec.EndDate.Format(calendar.DateLayout),
		rec.Days.String(),
		string(rec.Duration),
		nullString(rec.LeaveType),
		nullString(rec.Reason),
		string(rec.Status),
	)
	if err != nil {
		return fmt.Errorf("failed to append request: %w", err)
	}
	return nil
}

// FindLatestPending returns the newest Pending record matching
// (email, start, end), or nil when none matches. Most recent wins because
// duplicate Pending rows can exist after a re-submission.
func (s *Store) FindLatestPending(ctx context.Context, email string, start, end time.Time) (*workflow.TimeOffRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, created_at, name, email, approver, start_date, end_date, days, duration, leave_type, reason, status
		FROM requests
		WHERE email = ? AND start_date = ? AND end_date = ? AND status = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT 1
	`

	row := s.db.QueryRowContext(ctx, query,
		email,
		start.Format(calendar.DateLayout),
		end.Format(calendar.DateLayout),
		string(workflow.StatusPending),
	)

	rec, err := scanRequest(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// UpdateStatus sets the status of the record with the given ID. This is the
// only permitted mutation of the log.
func (s *Store) UpdateStatus(ctx context.Context, id string, status workflow.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"UPDATE requests SET status = ? WHERE id = ?",
		string(status), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update request status: %w", err)
	}
	return nil
}

// =============================================================================
// ADMIN QUERIES
// =============================================================================

// ListRequests returns up to limit records, newest first.
func (s *Store) ListRequests(ctx context.Context, limit int) ([]workflow.TimeOffRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, created_at, name, email, approver, start_date, end_date, days, duration, leave_type, reason, status
		FROM requests
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	defer rows.Close()

	var records []workflow.TimeOffRequest
	for rows.Next() {
		rec, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// ResetLog clears all request records. Destructive, admin-only.
func (s *Store) ResetLog(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM requests")
	return err
}

// Ping verifies the store is reachable (diagnostic endpoint).
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return err
	}
	var count int
	return s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM requests").Scan(&count)
}

// =============================================================================
// STAFF DIRECTORY
// =============================================================================

// StaffMember is a directory entry used to pre-populate the intake form.
type StaffMember struct {
	Name  string
	Email string
}

// SaveStaff upserts a directory entry keyed by email.
func (s *Store) SaveStaff(ctx context.Context, m StaffMember) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO staff (email, name, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(email) DO UPDATE SET
			name = excluded.name
	`

	_, err := s.db.ExecContext(ctx, query,
		m.Email, m.Name, time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// ListStaff returns the directory sorted by name.
func (s *Store) ListStaff(ctx context.Context) ([]StaffMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT name, email FROM staff ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var staff []StaffMember
	for rows.Next() {
		var m StaffMember
		if err := rows.Scan(&m.Name, &m.Email); err != nil {
			return nil, err
		}
		staff = append(staff, m)
	}
	return staff, rows.Err()
}

// =============================================================================
// HELPERS
// =============================================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner) (*workflow.TimeOffRequest, error) {
	var (
		rec                workflow.TimeOffRequest
		createdAt          string
		startDate, endDate string
		days, duration     string
		leaveType, reason  sql.NullString
		status             string
	)

	err := row.Scan(
		&rec.ID, &createdAt, &rec.EmployeeName, &rec.EmployeeEmail, &rec.Approver,
		&startDate, &endDate, &days, &duration, &leaveType, &reason, &status,
	)
	if err != nil {
		return nil, err
	}

	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	rec.StartDate, _ = calendar.ParseDate(startDate)
	rec.EndDate, _ = calendar.ParseDate(endDate)
	rec.Days, _ = decimal.NewFromString(days)
	rec.Duration = calendar.Duration(duration)
	rec.LeaveType = leaveType.String
	rec.Reason = reason.String
	rec.Status = workflow.Status(status)

	return &rec, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
