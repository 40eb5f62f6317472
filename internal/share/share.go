// Package share issues and checks expiring share links. Links are created
// on demand, consulted lazily when an access token shows up, and never
// pruned.
package share

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/Young4Rare/kbase/internal/audit"
	"github.com/Young4Rare/kbase/internal/errs"
	"github.com/Young4Rare/kbase/internal/model"
	"github.com/Young4Rare/kbase/internal/store"
)

// Expiry windows offered when creating a link.
const (
	ExpiryDay  = 24 * time.Hour
	ExpiryWeek = 7 * 24 * time.Hour
)

// Service manages the shared-link collection.
type Service struct {
	store  store.Store
	trail  *audit.Log
	logger *zap.Logger
	now    func() time.Time

	mu    sync.Mutex
	links []model.SharedLink
}

// New loads persisted links and returns the service.
func New(ctx context.Context, st store.Store, trail *audit.Log, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{store: st, trail: trail, logger: logger, now: time.Now}
	if err := st.Load(ctx, store.KeySharedLinks, &s.links); err != nil && !errors.Is(err, errs.ErrNotFound) {
		return nil, fmt.Errorf("load shared links: %w", err)
	}
	return s, nil
}

// Create issues a link with a random opaque token. A ttl <= 0 means the
// link never expires. The handed-out link is audited as copied, since the
// only reason to create one is to hand it out.
func (s *Service) Create(ctx context.Context, ttl time.Duration) (model.SharedLink, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return model.SharedLink{}, err
	}
	now := s.now()
	link := model.SharedLink{ID: id.String(), CreatedAt: now}
	if ttl > 0 {
		expiry := now.Add(ttl)
		link.ExpiryDate = &expiry
	}

	s.mu.Lock()
	s.links = append(s.links, link)
	if err := s.store.Save(ctx, store.KeySharedLinks, s.links); err != nil {
		s.mu.Unlock()
		return model.SharedLink{}, fmt.Errorf("persist shared links: %w", err)
	}
	s.mu.Unlock()

	_ = s.trail.Append(ctx, audit.ActionShareLinkCopy, "share link copied ("+expiryText(ttl)+")")
	return link, nil
}

func expiryText(ttl time.Duration) string {
	switch {
	case ttl <= 0:
		return "never expires"
	case ttl == ExpiryDay:
		return "expires in 24h"
	case ttl == ExpiryWeek:
		return "expires in 7 days"
	default:
		return "expires in " + ttl.String()
	}
}

// Check reports whether the access token is still valid. Unknown tokens
// and unexpired links pass; an expired link reports errs.ErrExpired. The
// result is advisory: callers notify, they do not block access.
func (s *Service) Check(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.links {
		if l.ID == id {
			if l.Expired(s.now()) {
				return fmt.Errorf("share link %s: %w", id, errs.ErrExpired)
			}
			return nil
		}
	}
	return nil
}

// List returns a snapshot of all issued links, expired ones included.
func (s *Service) List() []model.SharedLink {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.SharedLink, len(s.links))
	copy(out, s.links)
	return out
}
