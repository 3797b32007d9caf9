package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// dotenvFile is loaded before reading the environment. Variables already
// set in the process environment win.
var dotenvFile = ".env"

func parseEnv(cfg *Config) error {
	if err := godotenv.Load(dotenvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", dotenvFile, err)
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Address = ":" + v
	}
	if v := os.Getenv("ADDRESS"); v != "" {
		cfg.Address = v
	}
	setString(&cfg.CORSOrigin, "CORS_ORIGIN")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.DatabaseDSN, "DATABASE_DSN")
	setString(&cfg.JWTSecret, "JWT_SECRET")
	setString(&cfg.AdminBootstrapToken, "ADMIN_BOOTSTRAP_TOKEN")
	setString(&cfg.PasswordHasher, "PASSWORD_HASHER")

	if v, ok := os.LookupEnv("RATE_LIMIT_AUTH"); ok {
		cfg.RateLimitAuth = v
	}

	for name, dst := range map[string]*time.Duration{
		"ACCESS_TOKEN_TTL":  &cfg.AccessTokenTTL,
		"REFRESH_TOKEN_TTL": &cfg.RefreshTokenTTL,
		"SHUTDOWN_TIMEOUT":  &cfg.ShutdownTimeout,
	} {
		if err := setDuration(dst, name); err != nil {
			return err
		}
	}
	for name, dst := range map[string]*int{
		"BCRYPT_COST":             &cfg.BcryptCost,
		"DB_MAX_OPEN_CONNS":       &cfg.DBMaxOpenConns,
		"REFRESH_CANDIDATE_LIMIT": &cfg.RefreshCandidateLimit,
	} {
		if err := setInt(dst, name); err != nil {
			return err
		}
	}
	return nil
}

func setString(dst *string, name string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, name string) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = d
	return nil
}

func setInt(dst *int, name string) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = n
	return nil
}
