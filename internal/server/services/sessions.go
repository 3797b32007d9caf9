// Package services contains server-side business logic. SessionService
// implements login, refresh-token rotation and logout on top of the
// credential store.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/soldbd/internal/common"
	"github.com/dmitrijs2005/soldbd/internal/cryptox"
	"github.com/dmitrijs2005/soldbd/internal/dbx"
	"github.com/dmitrijs2005/soldbd/internal/logging"
	"github.com/dmitrijs2005/soldbd/internal/server/auth"
	"github.com/dmitrijs2005/soldbd/internal/server/config"
	"github.com/dmitrijs2005/soldbd/internal/server/models"
	"github.com/dmitrijs2005/soldbd/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/soldbd/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type SessionService struct {
	db             *sql.DB
	repomanager    repomanager.RepositoryManager
	tokens         *auth.TokenIssuer
	refreshHasher  cryptox.Hasher
	refreshTTL     time.Duration
	candidateLimit int
	dummyHash      string
	logger         logging.Logger
	now            func() time.Time
}

// NewSessionService wires the session authority. The dummy hash used to
// equalise timing for unknown identifiers is computed here, once.
func NewSessionService(db *sql.DB, m repomanager.RepositoryManager, tokens *auth.TokenIssuer, cfg *config.Config, logger logging.Logger) (*SessionService, error) {
	hasher := cryptox.NewBcryptHasher(cfg.BcryptCost)

	dummy, err := hasher.Hash(string(common.GenerateRandByteArray(16)))
	if err != nil {
		return nil, fmt.Errorf("dummy hash: %w", err)
	}

	limit := cfg.RefreshCandidateLimit
	if limit <= 0 {
		limit = 200
	}

	return &SessionService{
		db:             db,
		repomanager:    m,
		tokens:         tokens,
		refreshHasher:  hasher,
		refreshTTL:     cfg.RefreshTokenTTL,
		candidateLimit: limit,
		dummyHash:      dummy,
		logger:         logger.With("module", "sessions"),
		now:            time.Now,
	}, nil
}

// Login verifies credentials and issues a new token pair. Unknown
// identifiers and wrong passwords both yield common.ErrInvalidCredentials.
func (s *SessionService) Login(ctx context.Context, identifier, password string) (*TokenPair, error) {
	identifier = common.NormalizeIdentifier(identifier)
	if identifier == "" || password == "" {
		return nil, common.NewInputError("", "Missing email or password")
	}

	account, err := s.repomanager.Accounts(s.db).FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			cryptox.Verify(s.dummyHash, password)
			s.logger.Info(ctx, "login rejected", "reason", "unknown identifier")
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find account: %w", err)
	}

	if !cryptox.Verify(account.PasswordHash, password) {
		s.logger.Info(ctx, "login rejected", "reason", "wrong password", "account", account.ID)
		return nil, common.ErrInvalidCredentials
	}

	rt := s.repomanager.RefreshTokens(s.db)
	if n, err := rt.PurgeExpired(ctx, s.now()); err != nil {
		s.logger.Warn(ctx, "purge expired refresh tokens failed", "error", err)
	} else if n > 0 {
		s.logger.Debug(ctx, "purged expired refresh tokens", "count", n)
	}

	return s.issuePair(ctx, rt, account)
}

// Refresh redeems a refresh token exactly once and returns a rotated pair.
// The old record is removed and the new one inserted in one transaction, so a
// failed insert leaves the presented token valid.
func (s *SessionService) Refresh(ctx context.Context, presented string) (*TokenPair, error) {
	if presented == "" {
		return nil, common.NewInputError("refreshToken", "Missing refreshToken")
	}

	now := s.now()
	match, err := s.findRecord(ctx, presented, now)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, common.ErrInvalidRefreshToken
	}

	return dbx.InTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*TokenPair, error) {
		rt := s.repomanager.RefreshTokens(tx)

		deleted, err := rt.Delete(ctx, match.ID, now)
		if err != nil {
			return nil, fmt.Errorf("delete refresh token: %w", err)
		}
		if !deleted {
			s.logger.Info(ctx, "refresh rejected", "reason", "already redeemed", "record", match.ID)
			return nil, common.ErrInvalidRefreshToken
		}

		account, err := s.repomanager.Accounts(tx).FindByID(ctx, match.AccountID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return nil, common.ErrInvalidRefreshToken
			}
			return nil, fmt.Errorf("find account: %w", err)
		}

		return s.issuePair(ctx, rt, account)
	})
}

// Logout revokes the presented refresh token if it is still live. Unknown or
// expired tokens are not an error.
func (s *SessionService) Logout(ctx context.Context, presented string) error {
	if presented == "" {
		return common.NewInputError("refreshToken", "Missing refreshToken")
	}

	now := s.now()
	match, err := s.findRecord(ctx, presented, now)
	if err != nil || match == nil {
		return err
	}

	if _, err := s.repomanager.RefreshTokens(s.db).Delete(ctx, match.ID, now); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	return nil
}

// findRecord returns nil without error when nothing matches.
func (s *SessionService) findRecord(ctx context.Context, presented string, now time.Time) (*models.RefreshTokenRecord, error) {
	candidates, err := s.repomanager.RefreshTokens(s.db).FindUnexpired(ctx, now, s.candidateLimit)
	if err != nil {
		return nil, fmt.Errorf("find refresh tokens: %w", err)
	}
	for _, rec := range candidates {
		if rec.Expired(now) {
			continue
		}
		if s.refreshHasher.Compare(rec.TokenHash, presented) {
			return rec, nil
		}
	}
	return nil, nil
}

func (s *SessionService) issuePair(ctx context.Context, rt refreshtokens.Repository, account *models.AdminAccount) (*TokenPair, error) {
	access, err := s.tokens.Issue(auth.Identity{Subject: account.ID, Email: account.Email, Role: account.Role})
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	refresh, err := cryptox.NewOpaqueToken(cryptox.RefreshTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}
	hash, err := s.refreshHasher.Hash(refresh)
	if err != nil {
		return nil, fmt.Errorf("hash refresh token: %w", err)
	}

	rec := &models.RefreshTokenRecord{
		AccountID: account.ID,
		TokenHash: hash,
		ExpiresAt: s.now().Add(s.refreshTTL),
	}
	if err := rt.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
