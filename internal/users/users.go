// Package users implements the credential directory with role assignment
// and the bootstrap fallback account.
package users

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/Young4Rare/kbase/internal/audit"
	"github.com/Young4Rare/kbase/internal/errs"
	"github.com/Young4Rare/kbase/internal/model"
	"github.com/Young4Rare/kbase/internal/store"
)

// Fallback credential, honored only while the directory is empty. Exists
// so the operator can bootstrap the first real account.
const (
	FallbackUsername = "admin"
	FallbackPassword = "admin123"
)

// Directory holds the user records and enforces username uniqueness.
type Directory struct {
	store  store.Store
	trail  *audit.Log
	cmp    Comparer
	logger *zap.Logger

	mu    sync.Mutex
	users []model.User
}

// New loads persisted accounts and returns the directory. A nil comparer
// defaults to PlainComparer.
func New(ctx context.Context, st store.Store, trail *audit.Log, cmp Comparer, logger *zap.Logger) (*Directory, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cmp == nil {
		cmp = PlainComparer{}
	}
	d := &Directory{store: st, trail: trail, cmp: cmp, logger: logger}
	if err := st.Load(ctx, store.KeyUsers, &d.users); err != nil && !errors.Is(err, errs.ErrNotFound) {
		return nil, fmt.Errorf("load users: %w", err)
	}
	return d, nil
}

// Authenticate matches the credential against stored records. While the
// directory is empty it additionally accepts the fallback credential and
// synthesizes an admin user without persisting it. Every attempt is
// audited; failures return errs.ErrUnauthorized with no state change.
func (d *Directory) Authenticate(ctx context.Context, username, password string) (model.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.users) == 0 {
		if username == FallbackUsername && password == FallbackPassword {
			_ = d.trail.Append(ctx, audit.ActionLoginSuccess, "fallback admin login")
			d.logger.Info("fallback admin login")
			return model.User{Username: FallbackUsername, Role: model.RoleAdmin}, nil
		}
		_ = d.trail.Append(ctx, audit.ActionLoginFailed, "login attempt: "+username)
		return model.User{}, errs.ErrUnauthorized
	}

	for _, u := range d.users {
		if u.Username == username && d.cmp.Match(password, u.Password) {
			_ = d.trail.Append(ctx, audit.ActionLoginSuccess, "login: "+username)
			return u, nil
		}
	}
	_ = d.trail.Append(ctx, audit.ActionLoginFailed, "login attempt: "+username)
	return model.User{}, errs.ErrUnauthorized
}

// Add creates an account. Empty username or password is rejected before
// any mutation; duplicate usernames report errs.ErrAlreadyExists.
func (d *Directory) Add(ctx context.Context, username, password, role string) (model.User, error) {
	if username == "" || password == "" {
		return model.User{}, fmt.Errorf("%w: username and password are required", errs.ErrValidation)
	}
	if role == "" {
		role = model.RoleEditor
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for _, u := range d.users {
		if u.Username == username {
			return model.User{}, fmt.Errorf("user %q: %w", username, errs.ErrAlreadyExists)
		}
	}

	id, err := uuid.NewV4()
	if err != nil {
		return model.User{}, err
	}
	stored, err := d.cmp.Hash(password)
	if err != nil {
		return model.User{}, fmt.Errorf("prepare credential: %w", err)
	}

	u := model.User{ID: id, Username: username, Password: stored, Role: role}
	d.users = append(d.users, u)
	if err := d.store.Save(ctx, store.KeyUsers, d.users); err != nil {
		return model.User{}, fmt.Errorf("persist users: %w", err)
	}
	_ = d.trail.Append(ctx, audit.ActionUserAdd, fmt.Sprintf("added %s (%s)", username, role))
	return u, nil
}

// Delete removes the account with the given id. Returns false without
// error when the id is unknown.
func (d *Directory) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	idx := -1
	for i, u := range d.users {
		if u.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, nil
	}
	removed := d.users[idx]
	d.users = append(d.users[:idx], d.users[idx+1:]...)
	if err := d.store.Save(ctx, store.KeyUsers, d.users); err != nil {
		return false, fmt.Errorf("persist users: %w", err)
	}
	_ = d.trail.Append(ctx, audit.ActionUserDelete, "removed "+removed.Username)
	return true, nil
}

// List returns a snapshot of all accounts.
func (d *Directory) List() []model.User {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]model.User, len(d.users))
	copy(out, d.users)
	return out
}

// Count reports the number of stored accounts (the fallback admin is
// never among them).
func (d *Directory) Count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.users)
}
