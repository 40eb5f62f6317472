// Package config resolves application configuration from a YAML file,
// falling back to built-in defaults field by field.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
)

// Credential comparers.
const (
	HashingPlain    = "plain"
	HashingArgon2id = "argon2id"
)

// Config holds all kbase settings.
type Config struct {
	// DataDir is where durable state lives.
	DataDir string `yaml:"data_dir"`

	// Store selects the persistence backend: "file" or "sqlite".
	Store string `yaml:"store"`

	// PasswordHashing selects the credential comparer: "plain" keeps the
	// historic cleartext records, "argon2id" stores encoded hashes.
	PasswordHashing string `yaml:"password_hashing"`

	// SessionKey signs session tokens. Local trust boundary only.
	SessionKey string `yaml:"session_key"`

	// SessionTTL bounds how long a stored session survives, e.g. "12h".
	SessionTTL string `yaml:"session_ttl"`

	// AuditCap bounds the audit trail length.
	AuditCap int `yaml:"audit_cap"`

	// Categories is the fixed category set offered when authoring.
	Categories []string `yaml:"categories"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Store:           StoreFile,
		PasswordHashing: HashingPlain,
		SessionKey:      "kbase-local-session",
		SessionTTL:      "12h",
		AuditCap:        500,
		Categories: []string{
			"Acessos e Permissões",
			"Gestão de Identidades",
			"Auditoria e Compliance",
		},
	}
}

// DefaultDir returns the per-user kbase directory.
func DefaultDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "kbase")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "kbase")
}

// Load reads the configuration at path. An empty path tries the default
// location; a missing file yields defaults. Set fields override defaults
// field by field.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = filepath.Join(DefaultDir(), "config.yaml")
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg.applyFallbacks()
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyFallbacks()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyFallbacks() {
	d := Default()
	if c.DataDir == "" {
		c.DataDir = filepath.Join(DefaultDir(), "data")
	}
	if c.Store == "" {
		c.Store = d.Store
	}
	if c.PasswordHashing == "" {
		c.PasswordHashing = d.PasswordHashing
	}
	if c.SessionKey == "" {
		c.SessionKey = d.SessionKey
	}
	if c.SessionTTL == "" {
		c.SessionTTL = d.SessionTTL
	}
	if c.AuditCap <= 0 {
		c.AuditCap = d.AuditCap
	}
	if len(c.Categories) == 0 {
		c.Categories = d.Categories
	}
}

func (c *Config) validate() error {
	switch c.Store {
	case StoreFile, StoreSQLite:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store)
	}
	switch c.PasswordHashing {
	case HashingPlain, HashingArgon2id:
	default:
		return fmt.Errorf("unknown password hashing %q", c.PasswordHashing)
	}
	if _, err := time.ParseDuration(c.SessionTTL); err != nil {
		return fmt.Errorf("bad session_ttl: %w", err)
	}
	return nil
}

// TTL returns the parsed session TTL.
func (c *Config) TTL() time.Duration {
	d, err := time.ParseDuration(c.SessionTTL)
	if err != nil {
		return 12 * time.Hour
	}
	return d
}
