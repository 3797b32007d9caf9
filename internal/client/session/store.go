// Package session persists the CLI's API tokens in a local SQLite database
// so a login survives process restarts.
package session

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/soldbd/internal/client/api"
	"github.com/dmitrijs2005/soldbd/internal/client/migrations"
	"github.com/dmitrijs2005/soldbd/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/soldbd/internal/dbx"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

const (
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
)

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return gooseUpContext(ctx, db, ".")
}

// SQLiteStore implements api.Session.
type SQLiteStore struct {
	db *sql.DB
}

var _ api.Session = (*SQLiteStore)(nil)

// Open opens (creating if needed) the database at dsn and migrates it.
func Open(ctx context.Context, dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("session db migrations: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) Tokens(ctx context.Context) (api.Tokens, error) {
	repo := metadata.NewSQLiteRepository(s.db)

	access, err := repo.Get(ctx, keyAccessToken)
	if err != nil {
		return api.Tokens{}, err
	}
	refresh, err := repo.Get(ctx, keyRefreshToken)
	if err != nil {
		return api.Tokens{}, err
	}
	return api.Tokens{AccessToken: string(access), RefreshToken: string(refresh)}, nil
}

// Save replaces both tokens atomically.
func (s *SQLiteStore) Save(ctx context.Context, t api.Tokens) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, keyAccessToken, []byte(t.AccessToken)); err != nil {
			return err
		}
		return repo.Set(ctx, keyRefreshToken, []byte(t.RefreshToken))
	})
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Delete(ctx, keyAccessToken); err != nil {
			return err
		}
		return repo.Delete(ctx, keyRefreshToken)
	})
}
