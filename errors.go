package auth

import (
	"github.com/goliatone/go-errors"
)

// Login failures deliberately share one message so the response does not
// reveal whether the username exists.
var ErrWrongCredentials = errors.New("Wrong username or password", errors.CategoryAuth).
	WithTextCode("WRONG_CREDENTIALS").
	WithCode(errors.CodeUnauthorized)

// ErrUserExists is returned when registration targets a taken username.
var ErrUserExists = errors.New("User already exists", errors.CategoryConflict).
	WithTextCode("USER_EXISTS").
	WithCode(errors.CodeConflict)

// ErrAdminExists mirrors ErrUserExists for the admin registration entry point.
var ErrAdminExists = errors.New("Admin already exists", errors.CategoryConflict).
	WithTextCode("ADMIN_EXISTS").
	WithCode(errors.CodeConflict)

// ErrCreateUser wraps a store rejection during principal creation.
var ErrCreateUser = errors.New("Error creating user", errors.CategoryConflict).
	WithTextCode("CREATE_USER_FAILED").
	WithCode(errors.CodeConflict)

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound).
	WithTextCode("IDENTITY_NOT_FOUND").
	WithCode(errors.CodeNotFound)

// ErrMissingSigningKey must surface at startup, never per request.
var ErrMissingSigningKey = errors.New("JWT signing key must not be empty", errors.CategoryInternal).
	WithTextCode("SIGNING_CONFIG").
	WithCode(errors.CodeInternal)

// ErrTokenExpired is returned when validating a token past its expiry.
var ErrTokenExpired = errors.New("Authentication token expired", errors.CategoryAuth).
	WithTextCode("TOKEN_EXPIRED").
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed covers undecodable or badly signed tokens.
var ErrTokenMalformed = errors.New("Invalid authentication token", errors.CategoryAuth).
	WithTextCode("TOKEN_MALFORMED").
	WithCode(errors.CodeUnauthorized)

// ErrMismatchedHashAndPassword is the bcrypt comparison failure.
var ErrMismatchedHashAndPassword = errors.New("mismatched hash and password", errors.CategoryAuth).
	WithTextCode("PASSWORD_MISMATCH").
	WithCode(errors.CodeUnauthorized)

// ErrNoEmptyString rejects empty passwords before hashing.
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryBadInput).
	WithTextCode("EMPTY_PASSWORD").
	WithCode(errors.CodeBadRequest)

// ErrTooManyLoginAttempts enforces the login cool-down window.
var ErrTooManyLoginAttempts = errors.New("too many login attempts", errors.CategoryRateLimit).
	WithTextCode("TOO_MANY_ATTEMPTS")
