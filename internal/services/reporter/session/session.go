// Package session issues and verifies admin panel sessions.
//
// A session is a HS256 JWT carried in a cookie whose jti names a row in the
// admin session store, so logout can revoke it before expiry.
package session

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	apperrors "github.com/louisbranch/civicreporter/internal/platform/errors"
	"github.com/louisbranch/civicreporter/internal/services/reporter/storage"
)

const (
	// Issuer is the iss claim on admin tokens.
	Issuer = "civic-reporter"
	// Subject is the sub claim on admin tokens.
	Subject = "admin"
	// CookieName carries the admin token.
	CookieName = "cr_admin"
	// DefaultTTL bounds how long a login lasts.
	DefaultTTL = 12 * time.Hour
)

// Config configures a Manager.
type Config struct {
	Password string
	Secret   []byte
	TTL      time.Duration
	Store    storage.AdminSessionStore
	Now      func() time.Time
	// SecureCookie sets the Secure attribute on the session cookie.
	SecureCookie bool
}

// Manager authenticates the admin password and manages session tokens.
type Manager struct {
	password     []byte
	secret       []byte
	ttl          time.Duration
	store        storage.AdminSessionStore
	now          func() time.Time
	secureCookie bool
}

// Session describes a verified admin session.
type Session struct {
	ID        string
	ExpiresAt time.Time
}

// NewManager validates cfg. An empty secret is replaced with random bytes,
// which invalidates sessions on restart.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.Store == nil {
		return nil, errors.New("session store is required")
	}
	if cfg.Password == "" {
		return nil, errors.New("admin password is required")
	}
	secret := cfg.Secret
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("generate session secret: %w", err)
		}
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Manager{
		password:     []byte(cfg.Password),
		secret:       secret,
		ttl:          ttl,
		store:        cfg.Store,
		now:          now,
		secureCookie: cfg.SecureCookie,
	}, nil
}

type adminClaims struct {
	jwt.RegisteredClaims
}

func unauthorized(message string, cause error) error {
	if cause == nil {
		return apperrors.New(apperrors.CodeAdminUnauthorized, message)
	}
	return apperrors.Wrap(apperrors.CodeAdminUnauthorized, message, cause)
}

// CheckPassword compares password against the configured one in constant time.
func (m *Manager) CheckPassword(password string) bool {
	if m == nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(password), m.password) == 1
}

// Login checks the password and issues a new session token.
func (m *Manager) Login(ctx context.Context, password string) (string, Session, error) {
	if !m.CheckPassword(password) {
		return "", Session{}, unauthorized("invalid admin password", nil)
	}
	return m.Issue(ctx)
}

// Issue persists a new session and returns its signed token.
func (m *Manager) Issue(ctx context.Context) (string, Session, error) {
	if m == nil {
		return "", Session{}, errors.New("session manager is not configured")
	}
	now := m.now().UTC().Truncate(time.Second)
	record := storage.AdminSession{
		SessionID: uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.store.PutAdminSession(ctx, record); err != nil {
		return "", Session{}, fmt.Errorf("persist admin session: %w", err)
	}

	claims := adminClaims{RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    Issuer,
		Subject:   Subject,
		ID:        record.SessionID,
		IssuedAt:  jwt.NewNumericDate(record.CreatedAt),
		NotBefore: jwt.NewNumericDate(record.CreatedAt),
		ExpiresAt: jwt.NewNumericDate(record.ExpiresAt),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", Session{}, fmt.Errorf("sign admin session: %w", err)
	}
	return token, Session{ID: record.SessionID, ExpiresAt: record.ExpiresAt}, nil
}

// Verify checks the token signature and claims, then confirms the session is
// still active in the store.
func (m *Manager) Verify(ctx context.Context, token string) (Session, error) {
	if m == nil {
		return Session{}, errors.New("session manager is not configured")
	}
	claims, err := m.parse(token)
	if err != nil {
		return Session{}, err
	}
	now := m.now().UTC()
	if claims.ExpiresAt == nil || !claims.ExpiresAt.Time.After(now) {
		return Session{}, unauthorized("admin session expired", nil)
	}

	record, err := m.store.GetAdminSession(ctx, claims.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return Session{}, unauthorized("admin session unknown", nil)
	}
	if err != nil {
		return Session{}, fmt.Errorf("load admin session: %w", err)
	}
	if !record.Active(now) {
		return Session{}, unauthorized("admin session inactive", nil)
	}
	return Session{ID: record.SessionID, ExpiresAt: record.ExpiresAt}, nil
}

// Revoke ends the session named by token. Invalid tokens are ignored.
func (m *Manager) Revoke(ctx context.Context, token string) error {
	if m == nil {
		return nil
	}
	claims, err := m.parse(token)
	if err != nil {
		return nil
	}
	err = m.store.RevokeAdminSession(ctx, claims.ID, m.now().UTC())
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("revoke admin session: %w", err)
	}
	return nil
}

func (m *Manager) parse(token string) (adminClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return adminClaims{}, unauthorized("admin session missing", nil)
	}
	var claims adminClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return adminClaims{}, unauthorized("admin session invalid", err)
	}
	if claims.Issuer != Issuer || claims.Subject != Subject || claims.ID == "" {
		return adminClaims{}, unauthorized("admin session claims mismatch", nil)
	}
	return claims, nil
}

// SetCookie writes the session cookie.
func (m *Manager) SetCookie(w http.ResponseWriter, token string, sess Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/admin",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   m != nil && m.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie.
func (m *Manager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/admin",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m != nil && m.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// TokenFromRequest returns the session cookie value, if any.
func TokenFromRequest(r *http.Request) string {
	if r == nil {
		return ""
	}
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
