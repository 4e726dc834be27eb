package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AuthClaims represents the structured claims carried by an issued token
type AuthClaims interface {
	Subject() string
	Username() string
	TokenID() string
	RoleNames() []string
	HasRole(role string) bool
	Expires() time.Time
	IssuedAt() time.Time
}

// JWTClaims is the concrete implementation of AuthClaims. Every login mints
// exactly one subject, one name, and one jti claim, followed by one role
// entry per role the store reports, in store order.
type JWTClaims struct {
	jwt.RegisteredClaims
	Name  string   `json:"name,omitempty"`
	Roles []string `json:"roles,omitempty"`
}

// Verify interface compliance
var _ AuthClaims = (*JWTClaims)(nil)

// Subject returns the subject claim, the principal id
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// Username returns the name claim
func (c *JWTClaims) Username() string {
	return c.Name
}

// TokenID returns the jti claim, unique per issued token
func (c *JWTClaims) TokenID() string {
	return c.RegisteredClaims.ID
}

// RoleNames returns the role claims in the order they were minted
func (c *JWTClaims) RoleNames() []string {
	return c.Roles
}

// HasRole checks if the token carries a specific role claim
func (c *JWTClaims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

// ensureTokenID backfills a random jti so two tokens minted for the same
// principal at the same instant stay distinguishable.
func ensureTokenID(claims *jwt.RegisteredClaims) {
	if claims.ID == "" {
		claims.ID = uuid.NewString()
	}
}
