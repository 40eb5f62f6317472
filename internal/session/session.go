// Package session persists the active operator identity across process
// restarts. The snapshot carries a signed token so a stored session can
// expire instead of living forever; the darkMode display preference rides
// along here because it is likewise per-operator state.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/Young4Rare/kbase/internal/errs"
	"github.com/Young4Rare/kbase/internal/model"
	"github.com/Young4Rare/kbase/internal/store"
)

// snapshot is the persisted currentUser record.
type snapshot struct {
	User  model.User `json:"user"`
	Token string     `json:"token"`
}

// Manager holds the active session.
type Manager struct {
	store   store.Store
	logger  *zap.Logger
	signKey []byte
	ttl     time.Duration

	current *model.User
}

// New loads any persisted session. A stored session whose token no longer
// verifies (expired, tampered, key change) is discarded silently.
func New(ctx context.Context, st store.Store, signKey []byte, ttl time.Duration, logger *zap.Logger) (*Manager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{store: st, logger: logger, signKey: signKey, ttl: ttl}

	var snap snapshot
	err := st.Load(ctx, store.KeyCurrentUser, &snap)
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return m, nil
	case err != nil:
		return nil, fmt.Errorf("load session: %w", err)
	}
	if _, err := m.Verify(snap.Token); err != nil {
		m.logger.Info("discarding stale session", zap.String("user", snap.User.Username))
		_ = st.Remove(ctx, store.KeyCurrentUser)
		return m, nil
	}
	m.current = &snap.User
	return m, nil
}

// Login records u as the active session and returns the signed token.
func (m *Manager) Login(ctx context.Context, u model.User) (string, error) {
	token, err := m.issueToken(u.Username)
	if err != nil {
		return "", err
	}
	if err := m.store.Save(ctx, store.KeyCurrentUser, snapshot{User: u, Token: token}); err != nil {
		return "", fmt.Errorf("persist session: %w", err)
	}
	m.current = &u
	return token, nil
}

// Logout clears the active session.
func (m *Manager) Logout(ctx context.Context) error {
	m.current = nil
	return m.store.Remove(ctx, store.KeyCurrentUser)
}

// Current returns the active user, if any.
func (m *Manager) Current() (model.User, bool) {
	if m.current == nil {
		return model.User{}, false
	}
	return *m.current, true
}

// Username returns the active username, or "admin" when nobody is logged
// in so authored content always carries an attribution.
func (m *Manager) Username() string {
	if m.current == nil {
		return "admin"
	}
	return m.current.Username
}

// issueToken creates a signed HS256 JWT for the given subject.
func (m *Manager) issueToken(username string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.signKey)
}

// Verify parses and validates a session token, returning its subject.
func (m *Manager) Verify(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.signKey, nil
	})
	if err != nil || !parsed.Valid {
		return "", errs.ErrUnauthorized
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return "", errs.ErrUnauthorized
	}
	return claims.Subject, nil
}

// DarkMode reads the display preference; missing means false.
func (m *Manager) DarkMode(ctx context.Context) bool {
	var dark bool
	if err := m.store.Load(ctx, store.KeyDarkMode, &dark); err != nil {
		return false
	}
	return dark
}

// SetDarkMode persists the display preference.
func (m *Manager) SetDarkMode(ctx context.Context, dark bool) error {
	return m.store.Save(ctx, store.KeyDarkMode, dark)
}
