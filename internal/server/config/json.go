package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/soldbd/internal/flagx"
	"github.com/dmitrijs2005/soldbd/internal/timex"
)

// JsonConfig is the on-disk shape of the optional config file. Durations
// accept either "15m" strings or integer nanoseconds. Zero values leave the
// current setting in place.
type JsonConfig struct {
	Address               string         `json:"address"`
	CORSOrigin            string         `json:"cors_origin"`
	LogLevel              string         `json:"log_level"`
	DatabaseDSN           string         `json:"database_dsn"`
	DBMaxOpenConns        int            `json:"db_max_open_conns"`
	JWTSecret             string         `json:"jwt_secret"`
	AdminBootstrapToken   string         `json:"admin_bootstrap_token"`
	AccessTokenTTL        timex.Duration `json:"access_token_ttl"`
	RefreshTokenTTL       timex.Duration `json:"refresh_token_ttl"`
	BcryptCost            int            `json:"bcrypt_cost"`
	PasswordHasher        string         `json:"password_hasher"`
	RefreshCandidateLimit int            `json:"refresh_candidate_limit"`
	RateLimitAuth         *string        `json:"rate_limit_auth"`
	ShutdownTimeout       timex.Duration `json:"shutdown_timeout"`
}

// parseJson overlays values from the file named by -c/-config (or
// SOLDBD_CONFIG). No path means nothing to do.
func parseJson(config *Config) error {
	path := flagx.JsonConfigFlags()
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	c.apply(config)
	return nil
}

func (c *JsonConfig) apply(config *Config) {
	overlay(&config.Address, c.Address)
	overlay(&config.CORSOrigin, c.CORSOrigin)
	overlay(&config.LogLevel, c.LogLevel)
	overlay(&config.DatabaseDSN, c.DatabaseDSN)
	overlay(&config.JWTSecret, c.JWTSecret)
	overlay(&config.AdminBootstrapToken, c.AdminBootstrapToken)
	overlay(&config.PasswordHasher, c.PasswordHasher)
	overlay(&config.DBMaxOpenConns, c.DBMaxOpenConns)
	overlay(&config.BcryptCost, c.BcryptCost)
	overlay(&config.RefreshCandidateLimit, c.RefreshCandidateLimit)
	overlay(&config.AccessTokenTTL, c.AccessTokenTTL.Duration)
	overlay(&config.RefreshTokenTTL, c.RefreshTokenTTL.Duration)
	overlay(&config.ShutdownTimeout, c.ShutdownTimeout.Duration)
	if c.RateLimitAuth != nil {
		config.RateLimitAuth = *c.RateLimitAuth
	}
}

func overlay[T comparable](dst *T, v T) {
	var zero T
	if v != zero {
		*dst = v
	}
}
