package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// Identity is the authenticated-user view the cart subsystem needs. The
// identity provider is external; we only verify its bearer tokens.
type Identity struct {
	UserID string
	Email  string
	Name   string
}

// AccessTokenClaims represents the typed JWT issued by the identity provider.
type AccessTokenClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	Name   string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Identity converts the claims to the internal identity shape.
func (c *AccessTokenClaims) Identity() Identity {
	return Identity{
		UserID: c.UserID,
		Email:  c.Email,
		Name:   c.Name,
	}
}
