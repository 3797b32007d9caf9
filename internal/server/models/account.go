package models

import "time"

// AdminAccount is a back-office operator. Email is stored lower-cased.
type AdminAccount struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}
