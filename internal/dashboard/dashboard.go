// Package dashboard derives statistics from catalog and audit snapshots.
// Everything here is a pure function recomputed on demand; no state is
// held between calls.
package dashboard

import (
	"math"
	"sort"
	"time"

	"github.com/Young4Rare/kbase/internal/model"
)

// TrendDays is the length of the view trend series.
const TrendDays = 7

// UserStat aggregates per-author activity, keyed by Post.CreatedBy.
type UserStat struct {
	Created int
	Edited  int
	Views   int
}

// TrendPoint is one slot of the view trend series.
type TrendPoint struct {
	Label string
	Views int
}

// TotalPosts returns the catalog size.
func TotalPosts(posts []model.Post) int { return len(posts) }

// TotalViews sums view counters across the catalog.
func TotalViews(posts []model.Post) int {
	sum := 0
	for _, p := range posts {
		sum += p.Views
	}
	return sum
}

// AverageViews returns total views over catalog size, rounded; zero when
// the catalog is empty.
func AverageViews(posts []model.Post) int {
	if len(posts) == 0 {
		return 0
	}
	return int(math.Round(float64(TotalViews(posts)) / float64(len(posts))))
}

// Top returns up to n posts ordered by views descending, ties broken by
// catalog order.
func Top(posts []model.Post, n int) []model.Post {
	sorted := make([]model.Post, len(posts))
	copy(sorted, posts)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Views > sorted[j].Views })
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// ByCategory counts posts per category.
func ByCategory(posts []model.Post) map[string]int {
	out := make(map[string]int)
	for _, p := range posts {
		out[p.Category]++
	}
	return out
}

// UserStats aggregates posts created, cumulative edits (length of the
// edit history) and cumulative views per author.
func UserStats(posts []model.Post) map[string]UserStat {
	out := make(map[string]UserStat)
	for _, p := range posts {
		s := out[p.CreatedBy]
		s.Created++
		s.Edited += len(p.EditedBy)
		s.Views += p.Views
		out[p.CreatedBy] = s
	}
	return out
}

// ViewTrend returns the last TrendDays calendar days as labeled slots,
// oldest first. Per-day attribution is not tracked, so all current views
// land on today and earlier slots stay zero-filled; the series shape is
// what dashboards render against.
func ViewTrend(posts []model.Post, now time.Time) []TrendPoint {
	out := make([]TrendPoint, 0, TrendDays)
	for i := TrendDays - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		out = append(out, TrendPoint{Label: day.Format("Jan 2")})
	}
	out[len(out)-1].Views = TotalViews(posts)
	return out
}
