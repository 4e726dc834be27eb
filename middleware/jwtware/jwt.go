// Package jwtware provides bearer-token middleware for fiber. It validates
// tokens through a TokenValidator and can gate routes on a required role,
// which is how the admin registration endpoint stays admin-only.
package jwtware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
)

var (
	defaultTokenLookup       = "header:" + fiber.HeaderAuthorization
	ErrJWTMissingOrMalformed = errors.New("missing or malformed JWT")
	ErrInsufficientRole      = errors.New("token lacks required role")
)

// TokenValidator interface for validating tokens without import cycles.
// This mirrors the TokenService.Validate method from the auth package.
type TokenValidator interface {
	Validate(tokenString string) (AuthClaims, error)
}

// AuthClaims interface for structured claims without import cycles.
// This mirrors the AuthClaims interface from the auth package.
type AuthClaims interface {
	Subject() string
	Username() string
	TokenID() string
	RoleNames() []string
	HasRole(role string) bool
}

type Config struct {
	// Filter defines a function to skip the middleware.
	Filter func(*fiber.Ctx) bool
	// SuccessHandler runs after a token has been validated.
	SuccessHandler fiber.Handler
	// ErrorHandler receives validation and authorization failures. Defaults
	// to 401/403 JSON responses.
	ErrorHandler fiber.ErrorHandler
	// ContextKey stores the validated claims in the request locals.
	ContextKey string
	// TokenLookup is a comma-separated list of "<source>:<name>" entries,
	// e.g. "header:Authorization,query:token,cookie:jwt".
	TokenLookup string
	// AuthScheme is stripped from the header value. Defaults to "Bearer".
	AuthScheme string
	// TokenValidator is required for token validation.
	TokenValidator TokenValidator
	// RequiredRole rejects tokens that do not carry this role claim.
	RequiredRole string
	// RoleChecker overrides how RequiredRole is matched against claims.
	RoleChecker func(AuthClaims, string) bool
}

func makeCfg(config []Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.TokenValidator == nil {
		panic("jwtware: TokenValidator is required")
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "user"
	}

	if cfg.TokenLookup == "" {
		cfg.TokenLookup = defaultTokenLookup
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}

	if cfg.RoleChecker == nil {
		cfg.RoleChecker = func(claims AuthClaims, role string) bool {
			return claims.HasRole(role)
		}
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(c *fiber.Ctx, err error) error {
			if errors.Is(err, ErrInsufficientRole) {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
					"error":   "FORBIDDEN",
					"message": err.Error(),
				})
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":   "UNAUTHORIZED",
				"message": err.Error(),
			})
		}
	}

	return cfg
}

// New returns a fiber middleware that validates bearer tokens.
func New(config ...Config) fiber.Handler {
	cfg := makeCfg(config)

	extractors := buildExtractors(cfg)

	return func(c *fiber.Ctx) error {
		if cfg.Filter != nil && cfg.Filter(c) {
			return c.Next()
		}

		raw := ""
		for _, extract := range extractors {
			if raw = extract(c); raw != "" {
				break
			}
		}

		if raw == "" {
			return cfg.ErrorHandler(c, ErrJWTMissingOrMalformed)
		}

		claims, err := cfg.TokenValidator.Validate(raw)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		if cfg.RequiredRole != "" && !cfg.RoleChecker(claims, cfg.RequiredRole) {
			return cfg.ErrorHandler(c, ErrInsufficientRole)
		}

		c.Locals(cfg.ContextKey, claims)

		if cfg.SuccessHandler != nil {
			return cfg.SuccessHandler(c)
		}

		return c.Next()
	}
}

// ClaimsFromContext returns the validated claims stored by the middleware.
func ClaimsFromContext(c *fiber.Ctx, contextKey string) (AuthClaims, bool) {
	if contextKey == "" {
		contextKey = "user"
	}
	claims, ok := c.Locals(contextKey).(AuthClaims)
	return claims, ok
}

type extractor func(*fiber.Ctx) string

func buildExtractors(cfg Config) []extractor {
	var out []extractor

	for _, entry := range strings.Split(cfg.TokenLookup, ",") {
		parts := strings.SplitN(strings.TrimSpace(entry), ":", 2)
		if len(parts) != 2 {
			continue
		}

		source, name := parts[0], parts[1]
		switch source {
		case "header":
			out = append(out, func(c *fiber.Ctx) string {
				return tokenFromHeader(c.Get(name), cfg.AuthScheme)
			})
		case "query":
			out = append(out, func(c *fiber.Ctx) string {
				return c.Query(name)
			})
		case "cookie":
			out = append(out, func(c *fiber.Ctx) string {
				return c.Cookies(name)
			})
		}
	}

	if len(out) == 0 {
		out = append(out, func(c *fiber.Ctx) string {
			return tokenFromHeader(c.Get(fiber.HeaderAuthorization), cfg.AuthScheme)
		})
	}

	return out
}

func tokenFromHeader(header, scheme string) string {
	if header == "" {
		return ""
	}

	if scheme == "" {
		return header
	}

	prefix := scheme + " "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return header[len(prefix):]
	}

	return ""
}
