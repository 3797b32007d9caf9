// Package refreshtokens declares the server-side repository contract for
// refresh token records. Only hashes of tokens are ever stored.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/soldbd/internal/server/models"
)

// Repository defines operations for issuing, looking up and revoking refresh
// token records.
type Repository interface {
	// Create stores a new record. An empty ID is filled in.
	Create(ctx context.Context, rec *models.RefreshTokenRecord) error

	// FindUnexpired returns up to limit records whose expiry is after now,
	// newest first.
	FindUnexpired(ctx context.Context, now time.Time, limit int) ([]*models.RefreshTokenRecord, error)

	// Delete removes the record with id if it is still unexpired at now and
	// reports whether this call removed it. Of two concurrent deletes of the
	// same record exactly one observes true.
	Delete(ctx context.Context, id string, now time.Time) (bool, error)

	// PurgeExpired removes records that expired at or before now.
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}
