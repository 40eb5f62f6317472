package subs

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/Young4Rare/kbase/internal/store"
)

func newService(t *testing.T, st store.Store) *Service {
	t.Helper()
	s, err := New(context.Background(), st, zap.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func newFileStore(t *testing.T) store.Store {
	t.Helper()
	st, err := store.NewFileStore(t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return st
}

func TestToggleFlips(t *testing.T) {
	ctx := context.Background()
	s := newService(t, newFileStore(t))

	on, err := s.Toggle(ctx, "Auditoria e Compliance")
	if err != nil || !on {
		t.Fatalf("first toggle: on=%v err=%v", on, err)
	}
	if got, _ := s.Subscribed(ctx, "Auditoria e Compliance"); !got {
		t.Fatal("subscription not visible after toggle")
	}

	on, err = s.Toggle(ctx, "Auditoria e Compliance")
	if err != nil || on {
		t.Fatalf("second toggle: on=%v err=%v", on, err)
	}
	if got, _ := s.Subscribed(ctx, "Auditoria e Compliance"); got {
		t.Fatal("subscription survived unsubscribe")
	}
}

func TestSubscriptionsSurviveRestart(t *testing.T) {
	ctx := context.Background()
	st := newFileStore(t)

	s := newService(t, st)
	if _, err := s.Toggle(ctx, "Acessos e Permissões"); err != nil {
		t.Fatalf("Toggle: %v", err)
	}

	reloaded := newService(t, st)
	if got, _ := reloaded.Subscribed(ctx, "Acessos e Permissões"); !got {
		t.Fatal("subscription lost across restart")
	}
	if got, _ := reloaded.Subscribed(ctx, "Gestão de Identidades"); got {
		t.Fatal("phantom subscription after restart")
	}
}
