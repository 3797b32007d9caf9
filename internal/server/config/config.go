// Package config handles configuration for the server component,
// including defaults, .env and environment variables, JSON overlay, and
// command-line flags.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/soldbd/internal/common"
)

// Config holds runtime settings for the sold.bd API server.
//
// Fields:
//   - Address: HTTP bind address.
//   - DatabaseDSN: PostgreSQL DSN (pgx).
//   - JWTSecret: HMAC secret for signing access tokens (HS256).
//   - AdminBootstrapToken: shared secret for the first-admin ceremony.
//   - AccessTokenTTL / RefreshTokenTTL: token lifetimes.
//   - BcryptCost / PasswordHasher: hashing settings.
//   - RefreshCandidateLimit: how many unexpired refresh records are compared
//     when a refresh token is presented.
//   - RateLimitAuth: ulule limiter rate for auth endpoints, "" disables.
type Config struct {
	Address               string
	CORSOrigin            string
	LogLevel              string
	DatabaseDSN           string
	DBMaxOpenConns        int
	JWTSecret             string
	AdminBootstrapToken   string
	AccessTokenTTL        time.Duration
	RefreshTokenTTL       time.Duration
	BcryptCost            int
	PasswordHasher        string
	RefreshCandidateLimit int
	RateLimitAuth         string
	ShutdownTimeout       time.Duration
}

// LoadDefaults populates Config with development defaults. Secrets and the
// DSN have no defaults and must be supplied.
func (c *Config) LoadDefaults() {
	c.Address = ":3001"
	c.CORSOrigin = "*"
	c.LogLevel = "info"
	c.DBMaxOpenConns = 10
	c.AccessTokenTTL = 15 * time.Minute
	c.RefreshTokenTTL = 30 * 24 * time.Hour
	c.BcryptCost = 10
	c.PasswordHasher = "bcrypt"
	c.RefreshCandidateLimit = 200
	c.RateLimitAuth = "20-M"
	c.ShutdownTimeout = 10 * time.Second
}

// Validate reports every missing required setting at once.
func (c *Config) Validate() error {
	var missing []string
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.AdminBootstrapToken == "" {
		missing = append(missing, "ADMIN_BOOTSTRAP_TOKEN")
	}
	if c.DatabaseDSN == "" {
		missing = append(missing, "DATABASE_DSN")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", common.ErrConfiguration, strings.Join(missing, ", "))
	}
	return nil
}

// LoadConfig builds a Config by applying defaults, then .env and the process
// environment, then an optional JSON file and finally command-line flags.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseJson(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
