package auth

import (
	"context"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
)

// MaxLoginAttempts is the maximum number of failed attempts a user gets
// before the cool-down kicks in. Zero disables the guard.
var MaxLoginAttempts = 5

// CoolDownPeriod is the window in which failed attempts accumulate.
var CoolDownPeriod = 24 * time.Hour

// UserProvider implements CredentialStore over the bun repositories.
// Password hashing is owned here; the orchestrator never sees a hash.
type UserProvider struct {
	repo   RepositoryManager
	logger Logger
}

var _ CredentialStore = (*UserProvider)(nil)

// NewUserProvider will create a new UserProvider
func NewUserProvider(repo RepositoryManager) *UserProvider {
	return &UserProvider{
		repo:   repo,
		logger: defLogger{},
	}
}

func (u *UserProvider) WithLogger(l Logger) *UserProvider {
	if l != nil {
		u.logger = l
	}
	return u
}

// FindByUsername returns ErrIdentityNotFound for unknown usernames.
func (u *UserProvider) FindByUsername(ctx context.Context, username string) (*User, error) {
	user, err := u.repo.Users().GetByUsername(ctx, username)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user")
	}
	return user, nil
}

// CheckPassword compares the cleartext against the stored hash, tracking
// attempts so repeated failures trip the cool-down guard.
func (u *UserProvider) CheckPassword(ctx context.Context, user *User, password string) (bool, error) {
	if user == nil {
		return false, ErrIdentityNotFound
	}

	attempts := user.LoginAttempts
	if user.LoginAttemptAt != nil && IsOutsideThreshold(*user.LoginAttemptAt, CoolDownPeriod) {
		attempts = 0
	}

	if MaxLoginAttempts > 0 && attempts > MaxLoginAttempts {
		return false, ErrTooManyLoginAttempts
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		if err2 := u.repo.Users().TrackAttemptedLogin(ctx, user); err2 != nil {
			return false, errors.Wrap(err2, errors.CategoryInternal, "failed to track login attempt")
		}
		return false, nil
	}

	if err := u.repo.Users().TrackSuccessfulLogin(ctx, user); err != nil {
		u.logger.Error("failed to track successful login", "error", err)
	}

	return true, nil
}

// RolesOf returns role names in assignment order.
func (u *UserProvider) RolesOf(ctx context.Context, user *User) ([]string, error) {
	if user == nil {
		return nil, ErrIdentityNotFound
	}
	return u.repo.Roles().NamesForUser(ctx, user.ID)
}

// CreatePrincipal hashes the password and persists the user. Unique
// constraint violations on username/email surface as the store's error; the
// orchestrator maps them to its duplicate failure.
func (u *UserProvider) CreatePrincipal(ctx context.Context, user *User, password string) (*User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryValidation, "invalid password provided")
	}

	user.PasswordHash = hash

	created, err := u.repo.Users().Register(ctx, user)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryConflict, "could not create user")
	}

	return created, nil
}

// EnsureRole creates the role when missing. Idempotent; the existence check
// keeps the common path read-only.
func (u *UserProvider) EnsureRole(ctx context.Context, name string) error {
	exists, err := u.repo.Roles().Exists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	_, err = u.repo.Roles().GetOrCreate(ctx, name)
	return err
}

// AddToRole appends the user to the role's membership.
func (u *UserProvider) AddToRole(ctx context.Context, user *User, role string) error {
	record, err := u.repo.Roles().GetByName(ctx, role)
	if err != nil {
		return err
	}
	return u.repo.Roles().Assign(ctx, user, record)
}
