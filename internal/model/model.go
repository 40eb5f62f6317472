// Package model defines domain entities used by services and the store.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// DateLayout is the day-granularity display format used for Post.Date.
const DateLayout = "02/01/2006"

// TimestampLayout is the display format used for AuditEntry.Timestamp.
const TimestampLayout = "02/01/2006 15:04:05"

// DefaultEmoji is used when a post is created without an explicit glyph.
const DefaultEmoji = "📝"

// Post is a single knowledge-base article entry.
//
// ID is unique across the catalog and strictly increasing over a process
// lifetime. An edit replaces the post wholesale, so the ID is not stable
// across edits.
type Post struct {
	ID        int64       `json:"id"`
	Category  string      `json:"category"`
	Title     string      `json:"title"`
	Link      string      `json:"link"`
	Emoji     string      `json:"emoji"`
	Date      string      `json:"date"` // display date, DateLayout
	Views     int         `json:"views"`
	Tags      []string    `json:"tags"` // normalized lowercase, no duplicates
	CreatedBy string      `json:"createdBy"`
	CreatedAt time.Time   `json:"createdAt"`
	EditedBy  []string    `json:"editedBy"`
	EditedAt  []time.Time `json:"editedAt"` // parallel to EditedBy
}

// Draft carries the authoring fields for a post before it gets an identity.
// Edit history is only set when a draft is produced by an edit.
type Draft struct {
	Category string
	Title    string
	Link     string
	Emoji    string
	Tags     []string
	EditedBy []string
	EditedAt []time.Time
}

// User roles.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// User is a directory account. Password is opaque: depending on the
// configured comparer it is either the historic cleartext value or an
// encoded Argon2id hash.
type User struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Password string    `json:"password"`
	Role     string    `json:"role"`
}

// AuditEntry is an immutable record of one user-triggered action.
// Timestamp is the display string; Date is the point in time used for
// range filtering.
type AuditEntry struct {
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	Timestamp string    `json:"timestamp"`
	Date      time.Time `json:"date"`
}

// SharedLink grants access, optionally time-boxed. Expired links are
// checked lazily and never pruned.
type SharedLink struct {
	ID         string     `json:"id"`
	ExpiryDate *time.Time `json:"expiryDate"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// Expired reports whether the link is past its expiry at the given instant.
// Links without an expiry never expire.
func (l SharedLink) Expired(now time.Time) bool {
	return l.ExpiryDate != nil && now.After(*l.ExpiryDate)
}

// Subscriptions maps category name to opt-in flag for new-post notifications.
type Subscriptions map[string]bool
