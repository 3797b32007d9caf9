package models

import "time"

// RefreshTokenRecord stores only the hash of an issued refresh token.
type RefreshTokenRecord struct {
	ID        string
	AccountID string
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the record is no longer redeemable at now.
func (r *RefreshTokenRecord) Expired(now time.Time) bool {
	return !r.ExpiresAt.After(now)
}
