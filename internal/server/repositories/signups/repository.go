// Package signups stores early-access email captures.
package signups

import (
	"context"

	"github.com/dmitrijs2005/soldbd/internal/server/models"
)

type Repository interface {
	// Add ignores duplicates and reports whether a row was inserted.
	Add(ctx context.Context, email string) (bool, error)
	ListRecent(ctx context.Context, limit int) ([]*models.EarlyAccessSignup, error)
}
