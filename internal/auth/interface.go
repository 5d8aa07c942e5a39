package auth

import "docvault/internal/domain/models"

// Verifier validates bearer tokens and extracts the claims the server
// consumes. The middleware only ever uses the subject as the owner id;
// authentication itself lives with the token issuer.
type Verifier interface {
	// VerifyToken validates a JWT token string and returns the parsed claims.
	// Returns an error if the token is invalid, expired, or has an invalid signature.
	VerifyToken(tokenString string) (*models.Claims, error)

	// Close releases any resources held by the verifier (e.g., HTTP connections for JWKS).
	Close() error
}
