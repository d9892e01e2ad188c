package models

import "github.com/golang-jwt/jwt/v5"

// TokenClaims are the claims carried by externally issued access tokens.
// This service only verifies tokens; it never mints them.
type TokenClaims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}
