package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims are the JWT claims the server consumes. Only the subject (the
// owner id) and the role are inspected; everything else is the issuer's
// business.
type Claims struct {
	jwt.RegisteredClaims
	Role  string `json:"role,omitempty"`
	Email string `json:"email,omitempty"`
}
