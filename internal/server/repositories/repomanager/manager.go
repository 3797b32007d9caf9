package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/soldbd/internal/dbx"
	"github.com/dmitrijs2005/soldbd/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/soldbd/internal/server/repositories/deals"
	"github.com/dmitrijs2005/soldbd/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/soldbd/internal/server/repositories/signups"
	"github.com/dmitrijs2005/soldbd/internal/server/repositories/sitesettings"
	"github.com/dmitrijs2005/soldbd/internal/server/repositories/storagesettings"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Deals(db dbx.DBTX) deals.Repository
	SiteSettings(db dbx.DBTX) sitesettings.Repository
	Signups(db dbx.DBTX) signups.Repository
	StorageSettings(db dbx.DBTX) storagesettings.Repository
}
