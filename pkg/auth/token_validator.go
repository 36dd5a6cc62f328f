package auth

import (
	"context"
)

// TokenValidator abstracts bearer token validation for the HTTP layer.
type TokenValidator interface {
	// ValidateToken returns claims, or an error if the token is invalid, expired, or malformed.
	ValidateToken(ctx context.Context, token string) (*Claims, error)

	// Name returns the validator name for logging/debugging
	Name() string
}
