package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/civicreporter/internal/complaints"
	apperrors "github.com/louisbranch/civicreporter/internal/platform/errors"
	"github.com/louisbranch/civicreporter/internal/platform/pagination"
	sqlitemigrate "github.com/louisbranch/civicreporter/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/civicreporter/internal/services/reporter/filter"
	"github.com/louisbranch/civicreporter/internal/services/reporter/storage"
	"github.com/louisbranch/civicreporter/internal/services/reporter/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// TriagePageSize is the default audit page size.
const TriagePageSize = 25

var triagePageSizes = pagination.PageSizeConfig{Default: TriagePageSize, Max: 100}

// Store provides SQLite-backed persistence for reporter admin state.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a reporter SQLite store at the provided path, creating its
// parent directory when missing.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB, now: time.Now}
	if err := sqlitemigrate.ApplyMigrations(context.Background(), sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close closes the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

// PutAdminSession persists a newly issued admin session.
func (s *Store) PutAdminSession(ctx context.Context, session storage.AdminSession) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(session.SessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = s.now().UTC()
	}
	if !session.ExpiresAt.After(session.CreatedAt) {
		return fmt.Errorf("session expiry must be after creation")
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO admin_sessions (session_id, created_at, expires_at, revoked_at)
VALUES (?, ?, ?, NULL)
`, session.SessionID, toMillis(session.CreatedAt), toMillis(session.ExpiresAt))
	if err != nil {
		return fmt.Errorf("put admin session: %w", err)
	}
	return nil
}

// GetAdminSession returns a session by id.
func (s *Store) GetAdminSession(ctx context.Context, sessionID string) (storage.AdminSession, error) {
	if err := s.ready(ctx); err != nil {
		return storage.AdminSession{}, err
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return storage.AdminSession{}, storage.ErrNotFound
	}

	var (
		createdAt int64
		expiresAt int64
		revokedAt sql.NullInt64
	)
	err := s.sqlDB.QueryRowContext(ctx, `
SELECT created_at, expires_at, revoked_at FROM admin_sessions WHERE session_id = ?
`, sessionID).Scan(&createdAt, &expiresAt, &revokedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.AdminSession{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.AdminSession{}, fmt.Errorf("get admin session: %w", err)
	}

	session := storage.AdminSession{
		SessionID: sessionID,
		CreatedAt: fromMillis(createdAt),
		ExpiresAt: fromMillis(expiresAt),
	}
	if revokedAt.Valid {
		revoked := fromMillis(revokedAt.Int64)
		session.RevokedAt = &revoked
	}
	return session, nil
}

// RevokeAdminSession marks a session revoked. Revoking twice keeps the first time.
func (s *Store) RevokeAdminSession(ctx context.Context, sessionID string, revokedAt time.Time) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if revokedAt.IsZero() {
		revokedAt = s.now().UTC()
	}
	res, err := s.sqlDB.ExecContext(ctx, `
UPDATE admin_sessions SET revoked_at = COALESCE(revoked_at, ?) WHERE session_id = ?
`, toMillis(revokedAt), strings.TrimSpace(sessionID))
	if err != nil {
		return fmt.Errorf("revoke admin session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("revoke admin session rows: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// AppendTriage records one status change and returns it with its id.
func (s *Store) AppendTriage(ctx context.Context, record storage.TriageRecord) (storage.TriageRecord, error) {
	if err := s.ready(ctx); err != nil {
		return storage.TriageRecord{}, err
	}
	if record.ComplaintID <= 0 {
		return storage.TriageRecord{}, fmt.Errorf("complaint id is required")
	}
	if !record.Status.Valid() {
		return storage.TriageRecord{}, fmt.Errorf("invalid status %q", record.Status)
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = s.now().UTC()
	}
	record.Timestamp = fromMillis(toMillis(record.Timestamp))

	res, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO triage_audit (complaint_id, status, admin_note, session_id, ts)
VALUES (?, ?, ?, ?, ?)
`, record.ComplaintID, string(record.Status), record.AdminNote, record.SessionID, toMillis(record.Timestamp))
	if err != nil {
		return storage.TriageRecord{}, fmt.Errorf("append triage: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return storage.TriageRecord{}, fmt.Errorf("append triage id: %w", err)
	}
	record.ID = id
	return record, nil
}

// ListTriage returns audit records matching cond, newest first. The page
// token is the cursor returned by the previous page.
func (s *Store) ListTriage(ctx context.Context, cond filter.SQLCondition, pageSize int, pageToken string) (storage.TriagePage, error) {
	if err := s.ready(ctx); err != nil {
		return storage.TriagePage{}, err
	}
	pageSize = pagination.ClampPageSize(pageSize, triagePageSizes)
	cursor, err := pagination.DecodeCursor(pageToken)
	if err != nil {
		return storage.TriagePage{}, apperrors.Wrap(apperrors.CodeInvalidFilter, "invalid page token", err)
	}

	var (
		where  []string
		params []any
	)
	if !cond.Empty() {
		where = append(where, cond.Clause)
		params = append(params, cond.Params...)
	}
	if cursor > 0 {
		where = append(where, "id < ?")
		params = append(params, cursor)
	}
	query := "SELECT id, complaint_id, status, admin_note, session_id, ts FROM triage_audit"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id DESC LIMIT ?"
	params = append(params, pageSize+1)

	rows, err := s.sqlDB.QueryContext(ctx, query, params...)
	if err != nil {
		return storage.TriagePage{}, fmt.Errorf("list triage: %w", err)
	}
	defer rows.Close()

	page := storage.TriagePage{Records: make([]storage.TriageRecord, 0, pageSize)}
	for rows.Next() {
		var (
			record storage.TriageRecord
			status string
			ts     int64
		)
		if err := rows.Scan(&record.ID, &record.ComplaintID, &status, &record.AdminNote, &record.SessionID, &ts); err != nil {
			return storage.TriagePage{}, fmt.Errorf("scan triage: %w", err)
		}
		record.Status = complaints.Status(status)
		record.Timestamp = fromMillis(ts)
		page.Records = append(page.Records, record)
	}
	if err := rows.Err(); err != nil {
		return storage.TriagePage{}, fmt.Errorf("iterate triage: %w", err)
	}

	if len(page.Records) > pageSize {
		page.Records = page.Records[:pageSize]
		page.NextPageToken = pagination.EncodeCursor(page.Records[pageSize-1].ID)
	}
	return page, nil
}

var _ storage.Store = (*Store)(nil)
