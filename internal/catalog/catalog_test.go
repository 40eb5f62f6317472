package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Young4Rare/kbase/internal/audit"
	"github.com/Young4Rare/kbase/internal/errs"
	"github.com/Young4Rare/kbase/internal/model"
	"github.com/Young4Rare/kbase/internal/store"
)

type fakeSubs struct {
	subscribed map[string]bool
	asked      []string
}

func (f *fakeSubs) Subscribed(_ context.Context, category string) (bool, error) {
	f.asked = append(f.asked, category)
	return f.subscribed[category], nil
}

func newTestCatalog(t *testing.T, subs Subscribers) (*Catalog, *audit.Log, store.Store) {
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
	c, err := New(ctx, st, trail, subs, zap.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c, trail, st
}

func draft() model.Draft {
	return model.Draft{
		Category: "Acessos",
		Title:    "Intro",
		Link:     "https://x",
		Tags:     []string{"a", " B ", "a"},
	}
}

func TestCreate_AssignsIdentityAndNormalizes(t *testing.T) {
	ctx := context.Background()
	subs := &fakeSubs{subscribed: map[string]bool{"Acessos": true}}
	c, trail, _ := newTestCatalog(t, subs)

	post, notify, err := c.Create(ctx, draft(), "alice")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if post.Views != 0 {
		t.Fatalf("views=%d, want 0", post.Views)
	}
	if len(post.Tags) != 2 || post.Tags[0] != "a" || post.Tags[1] != "b" {
		t.Fatalf("tags=%v, want normalized [a b]", post.Tags)
	}
	if post.Emoji != model.DefaultEmoji {
		t.Fatalf("emoji=%q, want default glyph", post.Emoji)
	}
	if post.CreatedBy != "alice" {
		t.Fatalf("createdBy=%q", post.CreatedBy)
	}
	if !notify {
		t.Fatalf("subscribed category should report notify")
	}
	if got := c.CountByCategory()["Acessos"]; got != 1 {
		t.Fatalf("CountByCategory=%d, want 1", got)
	}
	if trail.Entries()[0].Action != audit.ActionCreatePost {
		t.Fatalf("create not audited")
	}
}

func TestCreate_ValidationListsMissingFields(t *testing.T) {
	ctx := context.Background()
	c, trail, _ := newTestCatalog(t, nil)

	_, _, err := c.Create(ctx, model.Draft{Title: "only title"}, "alice")
	if !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("err=%v, want ErrValidation", err)
	}
	want := "missing category, link"
	if got := err.Error(); !strings.Contains(got, want) {
		t.Fatalf("error %q does not name missing fields %q", got, want)
	}
	if c.Len() != 0 || trail.Len() != 0 {
		t.Fatalf("validation failure mutated state")
	}
}

func TestCreate_IDsPairwiseDistinct(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCatalog(t, nil)

	// A frozen clock forces the monotonic bump path.
	c.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	seen := make(map[int64]bool)
	for i := 0; i < 50; i++ {
		p, _, err := c.Create(ctx, draft(), "alice")
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if seen[p.ID] {
			t.Fatalf("duplicate id %d", p.ID)
		}
		seen[p.ID] = true
	}
}

func TestCreate_PrependsNewestFirst(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCatalog(t, nil)

	first, _, _ := c.Create(ctx, draft(), "alice")
	d := draft()
	d.Title = "Second"
	second, _, _ := c.Create(ctx, d, "alice")

	posts := c.List()
	if posts[0].ID != second.ID || posts[1].ID != first.ID {
		t.Fatalf("catalog not newest-first: %+v", posts)
	}
}

func TestIncrementViews(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCatalog(t, nil)
	p, _, _ := c.Create(ctx, draft(), "alice")

	const n = 7
	for i := 0; i < n; i++ {
		ok, err := c.IncrementViews(ctx, p.ID)
		if err != nil || !ok {
			t.Fatalf("IncrementViews: ok=%v err=%v", ok, err)
		}
	}
	got, _ := c.Get(p.ID)
	if got.Views != n {
		t.Fatalf("views=%d, want %d", got.Views, n)
	}

	// Absent id: silent no-op, catalog unchanged.
	ok, err := c.IncrementViews(ctx, 424242)
	if err != nil || ok {
		t.Fatalf("absent id: ok=%v err=%v", ok, err)
	}
	if got, _ := c.Get(p.ID); got.Views != n {
		t.Fatalf("no-op changed catalog")
	}
}

func TestDelete_Idempotent(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCatalog(t, nil)
	p, _, _ := c.Create(ctx, draft(), "alice")

	ok, err := c.Delete(ctx, p.ID)
	if err != nil || !ok {
		t.Fatalf("Delete: ok=%v err=%v", ok, err)
	}
	size := c.Len()
	ok, err = c.Delete(ctx, p.ID)
	if err != nil || ok {
		t.Fatalf("second Delete: ok=%v err=%v", ok, err)
	}
	if c.Len() != size {
		t.Fatalf("second delete changed catalog size")
	}
}

func TestEdit_IdentityChangingReplace(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCatalog(t, nil)
	old, _, _ := c.Create(ctx, draft(), "alice")
	_, _ = c.IncrementViews(ctx, old.ID)

	d, ok, err := c.Edit(ctx, old.ID, "bob")
	if err != nil || !ok {
		t.Fatalf("Edit: ok=%v err=%v", ok, err)
	}
	if _, found := c.Get(old.ID); found {
		t.Fatalf("old id still present after edit")
	}
	if len(d.EditedBy) != 1 || d.EditedBy[0] != "bob" || len(d.EditedAt) != 1 {
		t.Fatalf("edit history not carried: %+v", d)
	}

	d.Title = "Intro v2"
	replacement, _, err := c.Create(ctx, d, "alice")
	if err != nil {
		t.Fatalf("recreate: %v", err)
	}
	if replacement.ID == old.ID {
		t.Fatalf("edit must produce a new id")
	}
	if replacement.Views != 0 {
		t.Fatalf("recreated post keeps zero views, got %d", replacement.Views)
	}
	if len(replacement.EditedBy) != 1 || replacement.EditedBy[0] != "bob" {
		t.Fatalf("edit history lost on recreate: %+v", replacement.EditedBy)
	}

	// Unknown id: no-op.
	if _, ok, err := c.Edit(ctx, 999999, "bob"); ok || err != nil {
		t.Fatalf("unknown id: ok=%v err=%v", ok, err)
	}
}

func TestReplace_ResetsIDSequence(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCatalog(t, nil)

	imported := []model.Post{
		{ID: 9_000_000_000_000, Title: "big id", Category: "Acessos", Link: "https://x"},
	}
	if err := c.Replace(ctx, imported); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	p, _, err := c.Create(ctx, draft(), "alice")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.ID <= 9_000_000_000_000 {
		t.Fatalf("new id %d collides with imported range", p.ID)
	}
}

func TestNew_ReloadsAndContinuesSequence(t *testing.T) {
	ctx := context.Background()
	c, trail, st := newTestCatalog(t, nil)
	p, _, _ := c.Create(ctx, draft(), "alice")

	c2, err := New(ctx, st, trail, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("New(2): %v", err)
	}
	if c2.Len() != 1 {
		t.Fatalf("restart lost posts")
	}
	p2, _, _ := c2.Create(ctx, draft(), "alice")
	if p2.ID <= p.ID {
		t.Fatalf("id sequence went backwards across restart: %d <= %d", p2.ID, p.ID)
	}
}

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{" Kubernetes ", "SSO", "sso", "", "  "})
	if len(got) != 2 || got[0] != "kubernetes" || got[1] != "sso" {
		t.Fatalf("NormalizeTags=%v", got)
	}
}
