// Package store defines the durable key-value contract backing every
// service, with file and sqlite implementations. One logical record lives
// under one key; values are serialized to JSON text on write and parsed on
// read. A missing or corrupt entry surfaces as errs.ErrNotFound so callers
// can fall back to an empty default instead of failing.
package store

import (
	"context"
	"regexp"
)

// Canonical keys for persisted state.
const (
	KeyPosts         = "posts"
	KeyUsers         = "users"
	KeyAuditLog      = "auditLog"
	KeySharedLinks   = "sharedLinks"
	KeySubscriptions = "userSubscriptions"
	KeyCurrentUser   = "currentUser"
	KeyDarkMode      = "darkMode"
)

// Store provides get/set/remove access to durable key-value state.
// It is the sole source of truth across process restarts; in-memory
// service state is a cache written back after every mutation.
type Store interface {
	// Load reads the value under key into dest. Missing or unparseable
	// entries return errs.ErrNotFound and leave dest untouched.
	Load(ctx context.Context, key string, dest any) error

	// Save serializes value and durably replaces the record under key.
	Save(ctx context.Context, key string, value any) error

	// Remove deletes the record under key. Removing an absent key is a no-op.
	Remove(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// keyPattern guards against keys that would escape the data directory or
// break as identifiers.
var keyPattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

// ValidKey reports whether key is safe to use with any backend.
func ValidKey(key string) bool {
	return keyPattern.MatchString(key)
}
