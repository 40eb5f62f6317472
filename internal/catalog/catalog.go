// Package catalog implements the primary entity store: post CRUD,
// view-count increment and read-side aggregations over the collection.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Young4Rare/kbase/internal/audit"
	"github.com/Young4Rare/kbase/internal/dashboard"
	"github.com/Young4Rare/kbase/internal/errs"
	"github.com/Young4Rare/kbase/internal/model"
	"github.com/Young4Rare/kbase/internal/store"
)

// Subscribers answers whether a category is opted in for notifications.
// Create consults it so the caller can raise a notification.
type Subscribers interface {
	Subscribed(ctx context.Context, category string) (bool, error)
}

// Catalog is the post collection, newest-first, persisted after every
// mutation.
type Catalog struct {
	store  store.Store
	trail  *audit.Log
	subs   Subscribers
	logger *zap.Logger
	now    func() time.Time

	mu     sync.Mutex
	posts  []model.Post
	lastID int64
}

// New loads persisted posts and returns the catalog. subs may be nil when
// no notification check is wanted.
func New(ctx context.Context, st store.Store, trail *audit.Log, subs Subscribers, logger *zap.Logger) (*Catalog, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Catalog{store: st, trail: trail, subs: subs, logger: logger, now: time.Now}
	if err := st.Load(ctx, store.KeyPosts, &c.posts); err != nil && !errors.Is(err, errs.ErrNotFound) {
		return nil, fmt.Errorf("load posts: %w", err)
	}
	for _, p := range c.posts {
		if p.ID > c.lastID {
			c.lastID = p.ID
		}
	}
	return c, nil
}

// nextID derives a fresh id from the clock, bumping past the last issued
// one so ids stay pairwise distinct even within a single millisecond.
func (c *Catalog) nextID() int64 {
	id := c.now().UnixMilli()
	if id <= c.lastID {
		id = c.lastID + 1
	}
	c.lastID = id
	return id
}

// NormalizeTags trims, lowercases and deduplicates tags, dropping empties
// and preserving first-seen order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Create validates the draft, assigns a fresh id and zero views, prepends
// the post, persists and audits. The returned bool reports whether the
// post's category is subscribed, so the caller can notify.
func (c *Catalog) Create(ctx context.Context, d model.Draft, creator string) (model.Post, bool, error) {
	var missing []string
	if d.Category == "" {
		missing = append(missing, "category")
	}
	if d.Title == "" {
		missing = append(missing, "title")
	}
	if d.Link == "" {
		missing = append(missing, "link")
	}
	if len(missing) > 0 {
		return model.Post{}, false, fmt.Errorf("%w: missing %s", errs.ErrValidation, strings.Join(missing, ", "))
	}

	if creator == "" {
		creator = "admin"
	}
	emoji := d.Emoji
	if emoji == "" {
		emoji = model.DefaultEmoji
	}

	c.mu.Lock()
	now := c.now()
	post := model.Post{
		ID:        c.nextID(),
		Category:  d.Category,
		Title:     d.Title,
		Link:      d.Link,
		Emoji:     emoji,
		Date:      now.Format(model.DateLayout),
		Views:     0,
		Tags:      NormalizeTags(d.Tags),
		CreatedBy: creator,
		CreatedAt: now,
		EditedBy:  append([]string(nil), d.EditedBy...),
		EditedAt:  append([]time.Time(nil), d.EditedAt...),
	}
	c.posts = append([]model.Post{post}, c.posts...)
	if err := c.persist(ctx); err != nil {
		c.mu.Unlock()
		return model.Post{}, false, err
	}
	c.mu.Unlock()

	_ = c.trail.Append(ctx, audit.ActionCreatePost, "post: "+post.Title)

	notify := false
	if c.subs != nil {
		notify, _ = c.subs.Subscribed(ctx, post.Category)
	}
	return post, notify, nil
}

// IncrementViews bumps the view counter for id. Unknown ids are a silent
// no-op reported as false.
func (c *Catalog) IncrementViews(ctx context.Context, id int64) (bool, error) {
	c.mu.Lock()
	idx := c.index(id)
	if idx < 0 {
		c.mu.Unlock()
		return false, nil
	}
	c.posts[idx].Views++
	title := c.posts[idx].Title
	if err := c.persist(ctx); err != nil {
		c.mu.Unlock()
		return false, err
	}
	c.mu.Unlock()

	_ = c.trail.Append(ctx, audit.ActionViewPost, "post: "+title)
	return true, nil
}

// Delete removes the post with the given id. Unknown ids return false
// without error. Confirmation is the caller's concern; once invoked the
// delete is unconditional.
func (c *Catalog) Delete(ctx context.Context, id int64) (bool, error) {
	c.mu.Lock()
	idx := c.index(id)
	if idx < 0 {
		c.mu.Unlock()
		return false, nil
	}
	title := c.posts[idx].Title
	c.posts = append(c.posts[:idx], c.posts[idx+1:]...)
	if err := c.persist(ctx); err != nil {
		c.mu.Unlock()
		return false, err
	}
	c.mu.Unlock()

	_ = c.trail.Append(ctx, audit.ActionDeletePost, "post: "+title)
	return true, nil
}

// DeleteAll clears the whole catalog.
func (c *Catalog) DeleteAll(ctx context.Context) error {
	c.mu.Lock()
	c.posts = nil
	if err := c.persist(ctx); err != nil {
		c.mu.Unlock()
		return err
	}
	c.mu.Unlock()

	return c.trail.Append(ctx, audit.ActionDeleteAll, "deleted all posts")
}

// Edit starts an identity-changing edit: it audits, removes the old post
// and returns a draft prefilled with its fields, the editor appended to
// the edit history. The caller resubmits the draft through Create, which
// assigns a new id. Unknown ids return ok=false and change nothing.
func (c *Catalog) Edit(ctx context.Context, id int64, editor string) (model.Draft, bool, error) {
	c.mu.Lock()
	idx := c.index(id)
	if idx < 0 {
		c.mu.Unlock()
		return model.Draft{}, false, nil
	}
	old := c.posts[idx]
	draft := model.Draft{
		Category: old.Category,
		Title:    old.Title,
		Link:     old.Link,
		Emoji:    old.Emoji,
		Tags:     append([]string(nil), old.Tags...),
		EditedBy: append(append([]string(nil), old.EditedBy...), editor),
		EditedAt: append(append([]time.Time(nil), old.EditedAt...), c.now()),
	}
	c.posts = append(c.posts[:idx], c.posts[idx+1:]...)
	if err := c.persist(ctx); err != nil {
		c.mu.Unlock()
		return model.Draft{}, false, err
	}
	c.mu.Unlock()

	_ = c.trail.Append(ctx, audit.ActionEditPost, "edit started: "+old.Title)
	_ = c.trail.Append(ctx, audit.ActionDeletePost, "post: "+old.Title)
	return draft, true, nil
}

// Replace swaps in a whole new catalog (import path) and persists it.
func (c *Catalog) Replace(ctx context.Context, posts []model.Post) error {
	c.mu.Lock()
	c.posts = append([]model.Post(nil), posts...)
	c.lastID = 0
	for _, p := range c.posts {
		if p.ID > c.lastID {
			c.lastID = p.ID
		}
	}
	if err := c.persist(ctx); err != nil {
		c.mu.Unlock()
		return err
	}
	c.mu.Unlock()

	return c.trail.Append(ctx, audit.ActionImportData, fmt.Sprintf("imported %d posts", len(posts)))
}

// persist writes the catalog through to the store. Callers hold the lock.
func (c *Catalog) persist(ctx context.Context) error {
	if err := c.store.Save(ctx, store.KeyPosts, c.posts); err != nil {
		return fmt.Errorf("persist posts: %w", err)
	}
	return nil
}

// index returns the position of id, or -1. Callers hold the lock.
func (c *Catalog) index(id int64) int {
	for i := range c.posts {
		if c.posts[i].ID == id {
			return i
		}
	}
	return -1
}

// List returns the catalog snapshot, newest-first.
func (c *Catalog) List() []model.Post {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Post, len(c.posts))
	copy(out, c.posts)
	return out
}

// Get returns the post with the given id.
func (c *Catalog) Get(id int64) (model.Post, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if idx := c.index(id); idx >= 0 {
		return c.posts[idx], true
	}
	return model.Post{}, false
}

// Len reports the catalog size.
func (c *Catalog) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.posts)
}

// Recent returns up to n most recent posts.
func (c *Catalog) Recent(n int) []model.Post {
	posts := c.List()
	if n >= 0 && len(posts) > n {
		posts = posts[:n]
	}
	return posts
}

// TopByViews returns up to n posts by views descending.
func (c *Catalog) TopByViews(n int) []model.Post {
	return dashboard.Top(c.List(), n)
}

// CountByCategory counts posts per category.
func (c *Catalog) CountByCategory() map[string]int {
	return dashboard.ByCategory(c.List())
}

// TotalViews sums view counters.
func (c *Catalog) TotalViews() int {
	return dashboard.TotalViews(c.List())
}

// AverageViews returns the rounded mean view count, zero when empty.
func (c *Catalog) AverageViews() int {
	return dashboard.AverageViews(c.List())
}

// TagCloud returns the set of tags in use, in first-seen catalog order.
func (c *Catalog) TagCloud() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []string
	seen := make(map[string]struct{})
	for _, p := range c.posts {
		for _, t := range p.Tags {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}
