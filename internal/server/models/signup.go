package models

import "time"

type EarlyAccessSignup struct {
	ID        int64
	Email     string
	CreatedAt time.Time
}
