// Package app wires the store and every service into one application
// context, constructed once per process and torn down never (the process
// lifetime is the session lifetime). Operations that span services, such
// as login, authoring and export, live here so front ends stay thin.
package app

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Young4Rare/kbase/internal/audit"
	"github.com/Young4Rare/kbase/internal/catalog"
	"github.com/Young4Rare/kbase/internal/config"
	"github.com/Young4Rare/kbase/internal/model"
	"github.com/Young4Rare/kbase/internal/report"
	"github.com/Young4Rare/kbase/internal/session"
	"github.com/Young4Rare/kbase/internal/share"
	"github.com/Young4Rare/kbase/internal/store"
	"github.com/Young4Rare/kbase/internal/subs"
	"github.com/Young4Rare/kbase/internal/users"
)

// App is the process-wide application context.
type App struct {
	Config  *config.Config
	Store   store.Store
	Audit   *audit.Log
	Users   *users.Directory
	Catalog *catalog.Catalog
	Session *session.Manager
	Share   *share.Service
	Subs    *subs.Service
	Logger  *zap.Logger
}

// New opens the configured store and constructs every service on top of it.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		st  store.Store
		err error
	)
	switch cfg.Store {
	case config.StoreSQLite:
		st, err = store.OpenSQLite(ctx, filepath.Join(cfg.DataDir, "kbase.db"), logger)
	default:
		st, err = store.NewFileStore(cfg.DataDir, logger)
	}
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	trail, err := audit.New(ctx, st, cfg.AuditCap, logger)
	if err != nil {
		return nil, err
	}

	var cmp users.Comparer = users.PlainComparer{}
	if cfg.PasswordHashing == config.HashingArgon2id {
		cmp = users.Argon2Comparer{}
	}
	directory, err := users.New(ctx, st, trail, cmp, logger)
	if err != nil {
		return nil, err
	}

	subscriptions, err := subs.New(ctx, st, logger)
	if err != nil {
		return nil, err
	}
	cat, err := catalog.New(ctx, st, trail, subscriptions, logger)
	if err != nil {
		return nil, err
	}
	links, err := share.New(ctx, st, trail, logger)
	if err != nil {
		return nil, err
	}
	sess, err := session.New(ctx, st, []byte(cfg.SessionKey), cfg.TTL(), logger)
	if err != nil {
		return nil, err
	}

	return &App{
		Config:  cfg,
		Store:   st,
		Audit:   trail,
		Users:   directory,
		Catalog: cat,
		Session: sess,
		Share:   links,
		Subs:    subscriptions,
		Logger:  logger,
	}, nil
}

// Close releases the store.
func (a *App) Close() error { return a.Store.Close() }

// Login authenticates and records the session, returning the user and the
// session token.
func (a *App) Login(ctx context.Context, username, password string) (model.User, string, error) {
	u, err := a.Users.Authenticate(ctx, username, password)
	if err != nil {
		return model.User{}, "", err
	}
	token, err := a.Session.Login(ctx, u)
	if err != nil {
		return model.User{}, "", err
	}
	return u, token, nil
}

// CreatePost authors a post attributed to the active session identity.
// The bool reports whether the caller should raise a new-post notification
// for the post's category.
func (a *App) CreatePost(ctx context.Context, d model.Draft) (model.Post, bool, error) {
	return a.Catalog.Create(ctx, d, a.Session.Username())
}

// EditPost starts an identity-changing edit attributed to the session
// identity. ok is false when the id is unknown.
func (a *App) EditPost(ctx context.Context, id int64) (model.Draft, bool, error) {
	return a.Catalog.Edit(ctx, id, a.Session.Username())
}

// ExportPostsJSON snapshots the catalog and audits the export.
func (a *App) ExportPostsJSON(ctx context.Context) ([]byte, error) {
	posts := a.Catalog.List()
	data, err := report.PostsJSON(posts)
	if err != nil {
		return nil, err
	}
	_ = a.Audit.Append(ctx, audit.ActionExportData, fmt.Sprintf("exported %d posts", len(posts)))
	return data, nil
}

// ExportAuditJSON snapshots the audit trail and audits the export.
func (a *App) ExportAuditJSON(ctx context.Context) ([]byte, error) {
	data, err := report.AuditJSON(a.Audit.Entries())
	if err != nil {
		return nil, err
	}
	_ = a.Audit.Append(ctx, audit.ActionAuditExport, "audit log exported")
	return data, nil
}

// ExportPostsCSV renders the date-filtered catalog as CSV and audits the
// export with the row count.
func (a *App) ExportPostsCSV(ctx context.Context, from, to time.Time) (string, error) {
	csvText, n := report.PostsCSV(a.Catalog.List(), from, to)
	_ = a.Audit.Append(ctx, audit.ActionExportPostsCSV, fmt.Sprintf("exported %d posts", n))
	return csvText, nil
}

// ExportAuditCSV renders the date-filtered trail as CSV and audits the
// export with the row count.
func (a *App) ExportAuditCSV(ctx context.Context, from, to time.Time) (string, error) {
	csvText, n := report.AuditCSV(a.Audit.Entries(), from, to)
	_ = a.Audit.Append(ctx, audit.ActionExportAuditCSV, fmt.Sprintf("exported %d audit entries", n))
	return csvText, nil
}

// ImportPosts parses the payload and replaces the whole catalog. On any
// parse or format error the catalog is left untouched. Returns the number
// of imported posts.
func (a *App) ImportPosts(ctx context.Context, data []byte) (int, error) {
	posts, err := report.ParsePosts(data)
	if err != nil {
		return 0, err
	}
	if err := a.Catalog.Replace(ctx, posts); err != nil {
		return 0, err
	}
	return len(posts), nil
}

// CheckAccess lazily validates an access token from a share link. The
// error is advisory: the caller notifies, it does not block.
func (a *App) CheckAccess(ctx context.Context, token string) error {
	return a.Share.Check(ctx, token)
}
