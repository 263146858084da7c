package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CustomerTokenPayload captures the data available when minting a JWT.
// Tokens are issued by the identity provider; minting here exists for
// test fixtures and local tooling.
type CustomerTokenPayload struct {
	UserID uuid.UUID
	Email  string
	Name   string
	JTI    string
}

// CustomerClaims represents the typed JWT presented by storefront customers.
type CustomerClaims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Name   string    `json:"name,omitempty"`
	jwt.RegisteredClaims
}
