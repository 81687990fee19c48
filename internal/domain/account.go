package domain

import "time"

// Account is a login identity. Only staff accounts may obtain tokens.
type Account struct {
	ID           string
	Username     string
	PasswordHash string
	IsStaff      bool
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
