// Package subs tracks per-category opt-in flags for new-post notifications.
package subs

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Young4Rare/kbase/internal/errs"
	"github.com/Young4Rare/kbase/internal/model"
	"github.com/Young4Rare/kbase/internal/store"
)

// Service holds the subscription set and writes it through on every toggle.
type Service struct {
	store  store.Store
	logger *zap.Logger

	mu  sync.Mutex
	set model.Subscriptions
}

// New loads the persisted subscription set.
func New(ctx context.Context, st store.Store, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{store: st, logger: logger, set: model.Subscriptions{}}
	if err := st.Load(ctx, store.KeySubscriptions, &s.set); err != nil && !errors.Is(err, errs.ErrNotFound) {
		return nil, fmt.Errorf("load subscriptions: %w", err)
	}
	if s.set == nil {
		s.set = model.Subscriptions{}
	}
	return s, nil
}

// Toggle flips the flag for category, persists, and returns the new state.
func (s *Service) Toggle(ctx context.Context, category string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set[category] = !s.set[category]
	if err := s.store.Save(ctx, store.KeySubscriptions, s.set); err != nil {
		return false, fmt.Errorf("persist subscriptions: %w", err)
	}
	return s.set[category], nil
}

// Subscribed reports whether category is opted in.
func (s *Service) Subscribed(_ context.Context, category string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set[category], nil
}

// All returns a snapshot of the subscription set.
func (s *Service) All() model.Subscriptions {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(model.Subscriptions, len(s.set))
	for k, v := range s.set {
		out[k] = v
	}
	return out
}
