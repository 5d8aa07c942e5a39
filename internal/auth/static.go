package auth

import (
	"docvault/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
)

// StaticVerifier accepts any token and answers with a fixed owner id.
// Development only; the server refuses to start with it outside dev.
type StaticVerifier struct {
	OwnerID string
}

// VerifyToken ignores the token and returns the configured owner.
func (v *StaticVerifier) VerifyToken(string) (*models.Claims, error) {
	return &models.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: v.OwnerID},
		Role:             "authenticated",
	}, nil
}

// Close is a no-op.
func (v *StaticVerifier) Close() error {
	return nil
}
