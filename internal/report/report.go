// Package report serializes catalog and audit snapshots to CSV and JSON
// with date-range filtering, and parses import payloads. Functions here
// are pure; auditing the export/import actions is the caller's job.
package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Young4Rare/kbase/internal/errs"
	"github.com/Young4Rare/kbase/internal/model"
)

// Fixed CSV column sets.
var (
	PostHeaders  = []string{"id", "title", "category", "link", "date", "views", "tags"}
	AuditHeaders = []string{"action", "details", "timestamp"}
)

// endOfDay extends a day bound to 23:59:59 so the range is inclusive at
// day granularity.
func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// FilterPostsByDate keeps posts whose display date parses and falls inside
// the inclusive [from, to] day range. Zero bounds leave that end open;
// with both bounds zero no post is excluded, not even unparseable ones.
func FilterPostsByDate(posts []model.Post, from, to time.Time) []model.Post {
	if from.IsZero() && to.IsZero() {
		return posts
	}
	if !to.IsZero() {
		to = endOfDay(to)
	}
	var out []model.Post
	for _, p := range posts {
		dt, err := time.Parse(model.DateLayout, p.Date)
		if err != nil {
			continue
		}
		if !from.IsZero() && dt.Before(from) {
			continue
		}
		if !to.IsZero() && dt.After(to) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// FilterAuditByDate keeps entries whose point-in-time value falls inside
// the inclusive [from, to] day range.
func FilterAuditByDate(entries []model.AuditEntry, from, to time.Time) []model.AuditEntry {
	if from.IsZero() && to.IsZero() {
		return entries
	}
	if !to.IsZero() {
		to = endOfDay(to)
	}
	var out []model.AuditEntry
	for _, e := range entries {
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

// escape double-quotes a field, doubling embedded quotes. Every field is
// quoted unconditionally; existing consumers depend on that.
func escape(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

// writeCSV renders a header row followed by one row per record.
func writeCSV(headers []string, rows [][]string) string {
	var b strings.Builder
	for i, h := range headers {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(escape(h))
	}
	for _, row := range rows {
		b.WriteByte('\n')
		for i, v := range row {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(escape(v))
		}
	}
	return b.String()
}

// PostsCSV filters by date range and serializes to CSV. The second return
// is the number of exported rows.
func PostsCSV(posts []model.Post, from, to time.Time) (string, int) {
	filtered := FilterPostsByDate(posts, from, to)
	rows := make([][]string, 0, len(filtered))
	for _, p := range filtered {
		rows = append(rows, []string{
			fmt.Sprintf("%d", p.ID),
			p.Title,
			p.Category,
			p.Link,
			p.Date,
			fmt.Sprintf("%d", p.Views),
			strings.Join(p.Tags, ";"),
		})
	}
	return writeCSV(PostHeaders, rows), len(rows)
}

// AuditCSV filters by date range and serializes to CSV. The second return
// is the number of exported rows.
func AuditCSV(entries []model.AuditEntry, from, to time.Time) (string, int) {
	filtered := FilterAuditByDate(entries, from, to)
	rows := make([][]string, 0, len(filtered))
	for _, e := range filtered {
		rows = append(rows, []string{e.Action, e.Details, e.Timestamp})
	}
	return writeCSV(AuditHeaders, rows), len(rows)
}

// PostsJSON serializes the full catalog snapshot.
func PostsJSON(posts []model.Post) ([]byte, error) {
	return json.MarshalIndent(posts, "", "  ")
}

// AuditJSON serializes the full audit trail snapshot.
func AuditJSON(entries []model.AuditEntry) ([]byte, error) {
	return json.MarshalIndent(entries, "", "  ")
}

// ParsePosts decodes an import payload. Malformed text reports
// errs.ErrBadPayload; a payload that parses but is not a sequence reports
// errs.ErrBadFormat. Either way the caller's catalog is left untouched.
func ParsePosts(data []byte) ([]model.Post, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrBadPayload, err)
	}
	if _, ok := raw.([]any); !ok {
		return nil, errs.ErrBadFormat
	}
	var posts []model.Post
	if err := json.Unmarshal(data, &posts); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrBadPayload, err)
	}
	return posts, nil
}
