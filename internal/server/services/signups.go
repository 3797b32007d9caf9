package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/soldbd/internal/common"
	"github.com/dmitrijs2005/soldbd/internal/server/models"
	"github.com/dmitrijs2005/soldbd/internal/server/repositories/repomanager"
)

const adminSignupsLimit = 200

type SignupService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewSignupService(db *sql.DB, m repomanager.RepositoryManager) *SignupService {
	return &SignupService{db: db, repomanager: m}
}

// Add records an early-access email. Repeats are accepted silently.
func (s *SignupService) Add(ctx context.Context, email string) error {
	email = common.NormalizeIdentifier(email)
	if !common.LooksLikeEmail(email) || len(email) > maxIdentifierLength {
		return common.NewInputError("email", "Invalid email")
	}
	_, err := s.repomanager.Signups(s.db).Add(ctx, email)
	return err
}

func (s *SignupService) List(ctx context.Context) ([]*models.EarlyAccessSignup, error) {
	return s.repomanager.Signups(s.db).ListRecent(ctx, adminSignupsLimit)
}
