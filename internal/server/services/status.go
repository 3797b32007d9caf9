package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/jackc/pgx/v5"
)

const pingTimeout = 3 * time.Second

// Check is one line of the admin diagnostics report.
type Check struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

// StatusService reports database configuration and connectivity.
type StatusService struct {
	db  *sql.DB
	dsn string
}

func NewStatusService(db *sql.DB, dsn string) *StatusService {
	return &StatusService{db: db, dsn: dsn}
}

// Ping reports whether the database answers within a short timeout.
func (s *StatusService) Ping(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return s.db.PingContext(ctx) == nil
}

// Checks never fails; problems are reported as failed checks.
func (s *StatusService) Checks(ctx context.Context) []Check {
	checks := []Check{{Key: "DATABASE_DSN", Label: "Connection string", OK: s.dsn != ""}}
	if s.dsn == "" {
		checks[0].Message = "Missing"
		return checks
	}

	cfg, err := pgx.ParseConfig(s.dsn)
	if err != nil {
		checks = append(checks, Check{Key: "DSN_PARSE", Label: "Connection string format", Message: "Unparsable"})
	} else {
		checks = append(checks,
			present("HOST", "Host", cfg.Host),
			present("USER", "User", cfg.User),
			present("DATABASE", "Database", cfg.Database),
		)
	}

	ping := Check{Key: "CONNECTION", Label: "Connection", OK: s.Ping(ctx)}
	if !ping.OK {
		ping.Message = "Unreachable"
	}
	return append(checks, ping)
}

func present(key, label, v string) Check {
	c := Check{Key: key, Label: label, OK: v != ""}
	if !c.OK {
		c.Message = "Missing"
	}
	return c
}
