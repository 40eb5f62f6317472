package dashboard

import (
	"testing"
	"time"

	"github.com/Young4Rare/kbase/internal/model"
)

func samplePosts() []model.Post {
	return []model.Post{
		{ID: 3, Category: "Acessos", Title: "c", Views: 10, CreatedBy: "alice"},
		{ID: 2, Category: "Identidades", Title: "b", Views: 0, CreatedBy: "bob", EditedBy: []string{"alice", "bob"}},
		{ID: 1, Category: "Acessos", Title: "a", Views: 5, CreatedBy: "alice"},
	}
}

func TestTotals(t *testing.T) {
	posts := samplePosts()
	if got := TotalPosts(posts); got != 3 {
		t.Fatalf("TotalPosts=%d", got)
	}
	if got := TotalViews(posts); got != 15 {
		t.Fatalf("TotalViews=%d, want 15", got)
	}
	if got := AverageViews(posts); got != 5 {
		t.Fatalf("AverageViews=%d, want 5", got)
	}
	if got := AverageViews(nil); got != 0 {
		t.Fatalf("AverageViews(empty)=%d, want 0", got)
	}
}

func TestAverageViews_Rounds(t *testing.T) {
	posts := []model.Post{{Views: 1}, {Views: 2}} // 1.5 rounds up
	if got := AverageViews(posts); got != 2 {
		t.Fatalf("AverageViews=%d, want 2", got)
	}
}

func TestTop_DescendingStable(t *testing.T) {
	posts := []model.Post{
		{ID: 1, Views: 5},
		{ID: 2, Views: 10},
		{ID: 3, Views: 5},
	}
	top := Top(posts, 2)
	if len(top) != 2 || top[0].ID != 2 || top[1].ID != 1 {
		t.Fatalf("Top order wrong: %+v", top)
	}
	// Input order untouched.
	if posts[0].ID != 1 {
		t.Fatalf("Top mutated its input")
	}
	if got := Top(posts, 10); len(got) != 3 {
		t.Fatalf("n larger than catalog: len=%d", len(got))
	}
}

func TestByCategory(t *testing.T) {
	got := ByCategory(samplePosts())
	if got["Acessos"] != 2 || got["Identidades"] != 1 {
		t.Fatalf("ByCategory=%v", got)
	}
}

func TestUserStats(t *testing.T) {
	got := UserStats(samplePosts())
	alice := got["alice"]
	if alice.Created != 2 || alice.Views != 15 || alice.Edited != 0 {
		t.Fatalf("alice=%+v", alice)
	}
	bob := got["bob"]
	if bob.Created != 1 || bob.Edited != 2 || bob.Views != 0 {
		t.Fatalf("bob=%+v", bob)
	}
}

func TestViewTrend_SevenZeroFilledSlots(t *testing.T) {
	now := time.Date(2026, 5, 10, 15, 0, 0, 0, time.UTC)
	trend := ViewTrend(samplePosts(), now)

	if len(trend) != TrendDays {
		t.Fatalf("len=%d, want %d", len(trend), TrendDays)
	}
	if trend[0].Label != "May 4" || trend[6].Label != "May 10" {
		t.Fatalf("labels wrong: first=%q last=%q", trend[0].Label, trend[6].Label)
	}
	for i := 0; i < 6; i++ {
		if trend[i].Views != 0 {
			t.Fatalf("slot %d not zero-filled: %+v", i, trend[i])
		}
	}
	if trend[6].Views != 15 {
		t.Fatalf("today=%d, want all views attributed to today", trend[6].Views)
	}
}
