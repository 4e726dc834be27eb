package auth

import (
	"context"
	"fmt"
)

// Logger is the minimal logging surface the package needs. glog satisfies it.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the attributes of an authenticated principal
type Identity interface {
	ID() string
	Username() string
	Email() string
	Roles() []string
}

// Authenticator holds methods to deal with authentication
type Authenticator interface {
	Login(ctx context.Context, req LoginRequest) (string, error)
	Register(ctx context.Context, req RegisterRequest) (string, error)
	RegisterAdmin(ctx context.Context, req RegisterRequest) (string, error)
}

// TokenService handles JWT minting and validation
type TokenService interface {
	Generate(identity Identity) (string, error)
	SignClaims(claims *JWTClaims) (string, error)
	Validate(tokenString string) (AuthClaims, error)
}

// CredentialStore is the contract the orchestrator consumes. It owns
// principal persistence, password verification, and role membership; each
// call is transactional on its own and the store enforces username
// uniqueness.
type CredentialStore interface {
	// FindByUsername returns ErrIdentityNotFound when no principal matches.
	FindByUsername(ctx context.Context, username string) (*User, error)
	// CheckPassword reports whether password matches the principal's hash.
	// The error channel carries store-level failures such as the login
	// cool-down guard, never the mismatch itself.
	CheckPassword(ctx context.Context, user *User, password string) (bool, error)
	// RolesOf returns the principal's role names in store-reported order.
	RolesOf(ctx context.Context, user *User) ([]string, error)
	// CreatePrincipal persists user with a hash of password. The store owns
	// hashing; a uniqueness violation or any other failure is returned as a
	// categorized error.
	CreatePrincipal(ctx context.Context, user *User, password string) (*User, error)
	// EnsureRole creates the role if missing. Idempotent.
	EnsureRole(ctx context.Context, name string) error
	// AddToRole appends the principal to the role's membership.
	AddToRole(ctx context.Context, user *User, role string) error
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetSigningMethod() string
	GetTokenExpiration() int
	GetIssuer() string
	GetAudience() []string
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
