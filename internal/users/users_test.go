package users

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/Young4Rare/kbase/internal/audit"
	"github.com/Young4Rare/kbase/internal/errs"
	"github.com/Young4Rare/kbase/internal/store"
)

func newTestDirectory(t *testing.T, cmp Comparer) (*Directory, *audit.Log) {
	t.Helper()
	ctx := context.Background()
	st, err := store.NewFileStore(t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	trail, err := audit.New(ctx, st, 0, zap.NewNop())
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	d, err := New(ctx, st, trail, cmp, zap.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return d, trail
}

func lastAction(t *testing.T, trail *audit.Log) string {
	t.Helper()
	entries := trail.Entries()
	if len(entries) == 0 {
		t.Fatalf("audit trail empty")
	}
	return entries[0].Action
}

func TestAuthenticate_FallbackOnlyWhileEmpty(t *testing.T) {
	ctx := context.Background()
	d, trail := newTestDirectory(t, nil)

	u, err := d.Authenticate(ctx, FallbackUsername, FallbackPassword)
	if err != nil {
		t.Fatalf("fallback login: %v", err)
	}
	if u.Username != "admin" || u.Role != "admin" {
		t.Fatalf("synthesized user wrong: %+v", u)
	}
	if d.Count() != 0 {
		t.Fatalf("fallback login persisted a record")
	}
	if got := lastAction(t, trail); got != audit.ActionLoginSuccess {
		t.Fatalf("action=%q", got)
	}

	if _, err := d.Add(ctx, "bob", "pw", "admin"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	// Directory no longer empty: fallback must stop applying.
	if _, err := d.Authenticate(ctx, FallbackUsername, FallbackPassword); !errors.Is(err, errs.ErrUnauthorized) {
		t.Fatalf("fallback still active after first real user: err=%v", err)
	}
	if got := lastAction(t, trail); got != audit.ActionLoginFailed {
		t.Fatalf("failed attempt not audited: %q", got)
	}

	if _, err := d.Authenticate(ctx, "bob", "pw"); err != nil {
		t.Fatalf("real login: %v", err)
	}
}

func TestAuthenticate_WrongPasswordAudited(t *testing.T) {
	ctx := context.Background()
	d, trail := newTestDirectory(t, nil)
	_, _ = d.Add(ctx, "alice", "secret", "admin")

	before := trail.Len()
	if _, err := d.Authenticate(ctx, "alice", "nope"); !errors.Is(err, errs.ErrUnauthorized) {
		t.Fatalf("err=%v, want ErrUnauthorized", err)
	}
	if trail.Len() != before+1 || lastAction(t, trail) != audit.ActionLoginFailed {
		t.Fatalf("failed attempt not audited")
	}
}

func TestAdd_Validation(t *testing.T) {
	ctx := context.Background()
	d, trail := newTestDirectory(t, nil)

	if _, err := d.Add(ctx, "", "pw", "admin"); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("empty username: err=%v", err)
	}
	if _, err := d.Add(ctx, "bob", "", "admin"); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("empty password: err=%v", err)
	}
	// Rejected before any mutation: nothing persisted, nothing audited.
	if d.Count() != 0 || trail.Len() != 0 {
		t.Fatalf("validation failure mutated state")
	}
}

func TestAdd_DuplicateUsername(t *testing.T) {
	ctx := context.Background()
	d, _ := newTestDirectory(t, nil)

	if _, err := d.Add(ctx, "bob", "pw", "admin"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := d.Add(ctx, "bob", "other", "editor"); !errors.Is(err, errs.ErrAlreadyExists) {
		t.Fatalf("err=%v, want ErrAlreadyExists", err)
	}
	if d.Count() != 1 {
		t.Fatalf("duplicate changed directory size")
	}
}

func TestDelete_UnknownIDIsNoOp(t *testing.T) {
	ctx := context.Background()
	d, _ := newTestDirectory(t, nil)

	u, _ := d.Add(ctx, "bob", "pw", "admin")

	ok, err := d.Delete(ctx, u.ID)
	if err != nil || !ok {
		t.Fatalf("Delete: ok=%v err=%v", ok, err)
	}
	ok, err = d.Delete(ctx, u.ID)
	if err != nil || ok {
		t.Fatalf("second Delete: ok=%v err=%v, want no-op", ok, err)
	}
}

func TestArgon2Comparer_NoCleartextAtRest(t *testing.T) {
	ctx := context.Background()
	d, _ := newTestDirectory(t, Argon2Comparer{})

	u, err := d.Add(ctx, "carol", "hunter2", "editor")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if u.Password == "hunter2" {
		t.Fatalf("password stored in clear under Argon2Comparer")
	}

	if _, err := d.Authenticate(ctx, "carol", "hunter2"); err != nil {
		t.Fatalf("hashed login: %v", err)
	}
	if _, err := d.Authenticate(ctx, "carol", "hunter3"); !errors.Is(err, errs.ErrUnauthorized) {
		t.Fatalf("wrong password accepted: err=%v", err)
	}
}
