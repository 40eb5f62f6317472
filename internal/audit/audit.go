// Package audit implements the append-only bounded log of user actions.
// Every state-mutating operation across the system appends an entry; the
// log keeps the most recent entries newest-first and writes through to the
// store on every change.
package audit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Young4Rare/kbase/internal/errs"
	"github.com/Young4Rare/kbase/internal/model"
	"github.com/Young4Rare/kbase/internal/store"
)

// Audited actions.
const (
	ActionLoginSuccess   = "login_success"
	ActionLoginFailed    = "login_failed"
	ActionCreatePost     = "create_post"
	ActionViewPost       = "view_post"
	ActionEditPost       = "edit_post"
	ActionDeletePost     = "delete_post"
	ActionDeleteAll      = "delete_all"
	ActionExportData     = "export_data"
	ActionImportData     = "import_data"
	ActionExportPostsCSV = "export_posts_csv"
	ActionExportAuditCSV = "export_audit_csv"
	ActionAuditClear     = "audit_clear"
	ActionAuditExport    = "audit_export"
	ActionUserAdd        = "user_add"
	ActionUserDelete     = "user_delete"
	ActionShareLinkCopy  = "share_link_copy"
)

// DefaultCap is the maximum number of retained entries.
const DefaultCap = 500

// Log is the audit trail service. Entries are kept newest-first and
// truncated to the cap on every append.
type Log struct {
	store  store.Store
	logger *zap.Logger
	cap    int
	now    func() time.Time

	mu      sync.Mutex
	entries []model.AuditEntry
}

// New loads the persisted trail and returns the log service. A cap <= 0
// falls back to DefaultCap.
func New(ctx context.Context, st store.Store, cap int, logger *zap.Logger) (*Log, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cap <= 0 {
		cap = DefaultCap
	}
	l := &Log{store: st, logger: logger, cap: cap, now: time.Now}
	if err := st.Load(ctx, store.KeyAuditLog, &l.entries); err != nil && !errors.Is(err, errs.ErrNotFound) {
		return nil, fmt.Errorf("load audit log: %w", err)
	}
	if len(l.entries) > l.cap {
		l.entries = l.entries[:l.cap]
	}
	return l, nil
}

// Append prepends an entry stamped with the current time, truncates to the
// cap and persists.
func (l *Log) Append(ctx context.Context, action, details string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.append(ctx, action, details)
}

func (l *Log) append(ctx context.Context, action, details string) error {
	now := l.now()
	entry := model.AuditEntry{
		Action:    action,
		Details:   details,
		Timestamp: now.Format(model.TimestampLayout),
		Date:      now,
	}
	l.entries = append([]model.AuditEntry{entry}, l.entries...)
	if len(l.entries) > l.cap {
		l.entries = l.entries[:l.cap]
	}
	if err := l.store.Save(ctx, store.KeyAuditLog, l.entries); err != nil {
		return fmt.Errorf("persist audit log: %w", err)
	}
	l.logger.Debug("audited", zap.String("action", action), zap.String("details", details))
	return nil
}

// Clear empties the log, persists, then appends a post-clear entry so the
// clearing action itself stays traceable.
func (l *Log) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
	if err := l.store.Save(ctx, store.KeyAuditLog, []model.AuditEntry{}); err != nil {
		return fmt.Errorf("persist audit log: %w", err)
	}
	return l.append(ctx, ActionAuditClear, "audit log cleared")
}

// Entries returns a newest-first snapshot of the trail.
func (l *Log) Entries() []model.AuditEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.AuditEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len reports the current number of entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Query returns entries whose Date falls inside the inclusive range.
// A zero from or to leaves that end open.
func (l *Log) Query(from, to time.Time) []model.AuditEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []model.AuditEntry
	for _, e := range l.entries {
		if !from.IsZero() && e.Date.Before(from) {
			continue
		}
		if !to.IsZero() && e.Date.After(to) {
			continue
		}
		out = append(out, e)
	}
	return out
}
