package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/soldbd/internal/common"
	"github.com/dmitrijs2005/soldbd/internal/cryptox"
	"github.com/dmitrijs2005/soldbd/internal/dbx"
	"github.com/dmitrijs2005/soldbd/internal/logging"
	"github.com/dmitrijs2005/soldbd/internal/server/models"
	"github.com/dmitrijs2005/soldbd/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxIdentifierLength = 254
	maxPasswordBytes    = 72
)

// BootstrapService creates the first admin account, once, given the
// operator-held shared secret.
type BootstrapService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	secret      string
	hasher      cryptox.Hasher
	logger      logging.Logger
}

func NewBootstrapService(db *sql.DB, m repomanager.RepositoryManager, secret string, hasher cryptox.Hasher, logger logging.Logger) *BootstrapService {
	return &BootstrapService{
		db:          db,
		repomanager: m,
		secret:      secret,
		hasher:      hasher,
		logger:      logger.With("module", "bootstrap"),
	}
}

// Bootstrap returns common.ErrInvalidToken for a wrong secret and
// common.ErrConflict once any admin exists. Of any number of concurrent
// callers at most one succeeds.
func (s *BootstrapService) Bootstrap(ctx context.Context, token, identifier, password string) error {
	if token == "" {
		return common.NewInputError("token", "Missing token")
	}
	if !cryptox.EqualSecrets(token, s.secret) {
		s.logger.Warn(ctx, "bootstrap rejected", "reason", "wrong secret")
		return common.ErrInvalidToken
	}

	exists, err := s.repomanager.Accounts(s.db).ExistsAny(ctx)
	if err != nil {
		return fmt.Errorf("check accounts: %w", err)
	}
	if exists {
		return common.ErrConflict
	}

	email := common.NormalizeIdentifier(identifier)
	if !common.LooksLikeEmail(email) || len(email) > maxIdentifierLength {
		return common.NewInputError("email", "Invalid email")
	}
	if len(password) < common.AdminPasswordMinLength {
		return common.NewInputError("password", fmt.Sprintf("Password must be at least %d characters", common.AdminPasswordMinLength))
	}
	if len(password) > maxPasswordBytes {
		return common.NewInputError("password", fmt.Sprintf("Password must be at most %d bytes", maxPasswordBytes))
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return common.NewInputError("password", err.Error())
		}
		return fmt.Errorf("hash password: %w", err)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Accounts(tx)

		claimed, err := repo.ClaimBootstrap(ctx)
		if err != nil {
			return fmt.Errorf("claim bootstrap: %w", err)
		}
		if !claimed {
			return common.ErrConflict
		}

		exists, err := repo.ExistsAny(ctx)
		if err != nil {
			return fmt.Errorf("check accounts: %w", err)
		}
		if exists {
			return common.ErrConflict
		}

		account, err := repo.Create(ctx, &models.AdminAccount{Email: email, PasswordHash: hash, Role: models.RoleAdmin})
		if err != nil {
			return err
		}
		s.logger.Info(ctx, "first admin created", "account", account.ID)
		return nil
	})
	return err
}
