// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/soldbd/internal/dbx"
	"github.com/dmitrijs2005/soldbd/internal/server/migrations"
	"github.com/dmitrijs2005/soldbd/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/soldbd/internal/server/repositories/deals"
	"github.com/dmitrijs2005/soldbd/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/soldbd/internal/server/repositories/signups"
	"github.com/dmitrijs2005/soldbd/internal/server/repositories/sitesettings"
	"github.com/dmitrijs2005/soldbd/internal/server/repositories/storagesettings"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repositories bound to
// either the pool or a transaction.
type PostgresRepositoryManager struct{}

func (m *PostgresRepositoryManager) Accounts(db dbx.DBTX) accounts.Repository {
	return accounts.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return refreshtokens.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Deals(db dbx.DBTX) deals.Repository {
	return deals.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) SiteSettings(db dbx.DBTX) sitesettings.Repository {
	return sitesettings.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Signups(db dbx.DBTX) signups.Repository {
	return signups.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) StorageSettings(db dbx.DBTX) storagesettings.Repository {
	return storagesettings.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded schema migrations.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}
