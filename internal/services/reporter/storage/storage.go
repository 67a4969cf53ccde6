// Package storage defines the local persistence the reporter keeps beside the
// complaints API: admin sessions and the triage audit log.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/louisbranch/civicreporter/internal/complaints"
	"github.com/louisbranch/civicreporter/internal/services/reporter/filter"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// AdminSession is one issued admin login.
type AdminSession struct {
	SessionID string
	CreatedAt time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
}

// Active reports whether the session is unrevoked and unexpired at now.
func (s AdminSession) Active(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}

// TriageRecord is one status change made from the admin panel.
type TriageRecord struct {
	ID          int64
	ComplaintID int64
	Status      complaints.Status
	AdminNote   string
	SessionID   string
	Timestamp   time.Time
}

// TriagePage is one page of audit records, newest first.
type TriagePage struct {
	Records       []TriageRecord
	NextPageToken string
}

// AdminSessionStore persists admin sessions.
type AdminSessionStore interface {
	PutAdminSession(ctx context.Context, session AdminSession) error
	GetAdminSession(ctx context.Context, sessionID string) (AdminSession, error)
	RevokeAdminSession(ctx context.Context, sessionID string, revokedAt time.Time) error
}

// TriageAuditStore records admin status changes.
type TriageAuditStore interface {
	AppendTriage(ctx context.Context, record TriageRecord) (TriageRecord, error)
	ListTriage(ctx context.Context, cond filter.SQLCondition, pageSize int, pageToken string) (TriagePage, error)
}

// Store is a composite interface for reporter storage concerns.
type Store interface {
	AdminSessionStore
	TriageAuditStore
	Close() error
}
