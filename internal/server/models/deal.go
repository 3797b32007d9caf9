package models

import "time"

type Deal struct {
	ID          string
	Title       string
	Description string
	Category    string
	PriceBDT    *int64
	ImageURL    string
	Stock       int64
	EndsAt      time.Time
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
