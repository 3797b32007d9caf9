// Package accounts declares and implements storage for admin accounts and
// the one-time bootstrap guard.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/soldbd/internal/server/models"
)

// Repository is the account half of the credential store.
type Repository interface {
	// Create inserts a new account. A duplicate identifier yields common.ErrConflict.
	Create(ctx context.Context, account *models.AdminAccount) (*models.AdminAccount, error)

	// FindByIdentifier looks up an account case-insensitively.
	// Returns common.ErrorNotFound when absent.
	FindByIdentifier(ctx context.Context, identifier string) (*models.AdminAccount, error)

	// FindByID returns common.ErrorNotFound when absent.
	FindByID(ctx context.Context, id string) (*models.AdminAccount, error)

	// ExistsAny reports whether at least one account exists.
	ExistsAny(ctx context.Context) (bool, error)

	// ClaimBootstrap atomically claims the single bootstrap slot. It returns
	// false when the slot was already claimed.
	ClaimBootstrap(ctx context.Context) (bool, error)
}
