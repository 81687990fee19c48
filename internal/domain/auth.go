package domain

import "time"

// TokenType separates short-lived access tokens from refresh tokens.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Token represents issued authentication token metadata.
type Token struct {
	ID        string
	Value     string
	Type      TokenType
	SubjectID string
	IsStaff   bool
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// TokenPair is returned by a successful login.
type TokenPair struct {
	Access  Token
	Refresh Token
}
