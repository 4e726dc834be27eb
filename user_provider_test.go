package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	auth "github.com/tokengate/auth-service"
)

func TestUserProvider_FindByUsername(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the user", func(t *testing.T) {
		repo := NewMockRepositoryManager()
		provider := auth.NewUserProvider(repo)

		user := &auth.User{ID: uuid.New(), Username: "gandalf"}
		repo.users.On("GetByUsername", ctx, "gandalf").Return(user, nil).Once()

		found, err := provider.FindByUsername(ctx, "gandalf")

		assert.NoError(t, err)
		assert.Equal(t, user, found)

		repo.users.AssertExpectations(t)
	})

	t.Run("maps missing records to identity not found", func(t *testing.T) {
		repo := NewMockRepositoryManager()
		provider := auth.NewUserProvider(repo)

		repo.users.On("GetByUsername", ctx, "nobody").
			Return(nil, repository.NewRecordNotFound()).Once()

		found, err := provider.FindByUsername(ctx, "nobody")

		assert.Error(t, err)
		assert.Nil(t, found)
		assert.ErrorIs(t, err, auth.ErrIdentityNotFound)

		repo.users.AssertExpectations(t)
	})

	t.Run("wraps other store failures", func(t *testing.T) {
		repo := NewMockRepositoryManager()
		provider := auth.NewUserProvider(repo)

		repo.users.On("GetByUsername", ctx, "gandalf").
			Return(nil, errors.New("connection refused")).Once()

		found, err := provider.FindByUsername(ctx, "gandalf")

		assert.Error(t, err)
		assert.Nil(t, found)
		assert.NotErrorIs(t, err, auth.ErrIdentityNotFound)

		repo.users.AssertExpectations(t)
	})
}

func TestUserProvider_CheckPassword(t *testing.T) {
	ctx := context.Background()

	passwordHash, err := auth.HashPassword("Mellon#1pass")
	assert.NoError(t, err)

	t.Run("successful check tracks the login", func(t *testing.T) {
		repo := NewMockRepositoryManager()
		provider := auth.NewUserProvider(repo)

		user := &auth.User{
			ID:           uuid.New(),
			Username:     "gandalf",
			PasswordHash: passwordHash,
		}

		repo.users.On("TrackSuccessfulLogin", ctx, user).Return(nil).Once()

		ok, err := provider.CheckPassword(ctx, user, "Mellon#1pass")

		assert.NoError(t, err)
		assert.True(t, ok)

		repo.users.AssertExpectations(t)
	})

	t.Run("mismatch tracks the attempt", func(t *testing.T) {
		repo := NewMockRepositoryManager()
		provider := auth.NewUserProvider(repo)

		user := &auth.User{
			ID:           uuid.New(),
			Username:     "gandalf",
			PasswordHash: passwordHash,
		}

		repo.users.On("TrackAttemptedLogin", ctx, user).Return(nil).Once()

		ok, err := provider.CheckPassword(ctx, user, "Wrong#1pass")

		assert.NoError(t, err)
		assert.False(t, ok)

		repo.users.AssertExpectations(t)
	})

	t.Run("too many recent attempts trips the guard", func(t *testing.T) {
		repo := NewMockRepositoryManager()
		provider := auth.NewUserProvider(repo)

		now := time.Now()
		user := &auth.User{
			ID:             uuid.New(),
			Username:       "gandalf",
			PasswordHash:   passwordHash,
			LoginAttempts:  auth.MaxLoginAttempts + 1,
			LoginAttemptAt: &now,
		}

		ok, err := provider.CheckPassword(ctx, user, "Mellon#1pass")

		assert.Error(t, err)
		assert.False(t, ok)
		assert.ErrorIs(t, err, auth.ErrTooManyLoginAttempts)

		repo.users.AssertNumberOfCalls(t, "TrackSuccessfulLogin", 0)
		repo.users.AssertNumberOfCalls(t, "TrackAttemptedLogin", 0)
	})

	t.Run("attempts reset after the cool-down window", func(t *testing.T) {
		repo := NewMockRepositoryManager()
		provider := auth.NewUserProvider(repo)

		oldAttempt := time.Now().Add(-48 * time.Hour)
		user := &auth.User{
			ID:             uuid.New(),
			Username:       "gandalf",
			PasswordHash:   passwordHash,
			LoginAttempts:  auth.MaxLoginAttempts + 1,
			LoginAttemptAt: &oldAttempt,
		}

		repo.users.On("TrackSuccessfulLogin", ctx, user).Return(nil).Once()

		ok, err := provider.CheckPassword(ctx, user, "Mellon#1pass")

		assert.NoError(t, err)
		assert.True(t, ok)

		repo.users.AssertExpectations(t)
	})

	t.Run("nil user fails", func(t *testing.T) {
		repo := NewMockRepositoryManager()
		provider := auth.NewUserProvider(repo)

		ok, err := provider.CheckPassword(ctx, nil, "Mellon#1pass")

		assert.Error(t, err)
		assert.False(t, ok)
	})
}

func TestUserProvider_CreatePrincipal(t *testing.T) {
	ctx := context.Background()

	t.Run("hashes the password before persisting", func(t *testing.T) {
		repo := NewMockRepositoryManager()
		provider := auth.NewUserProvider(repo)

		user := &auth.User{
			Username:      "gandalf",
			Email:         "gandalf@example.com",
			SecurityStamp: auth.NewSecurityStamp(),
		}

		repo.users.On("Register", ctx, mock.MatchedBy(func(u *auth.User) bool {
			if u.PasswordHash == "" || u.PasswordHash == "Mellon#1pass" {
				return false
			}
			return auth.ComparePasswordAndHash("Mellon#1pass", u.PasswordHash) == nil
		})).Return(user, nil).Once()

		created, err := provider.CreatePrincipal(ctx, user, "Mellon#1pass")

		assert.NoError(t, err)
		assert.NotNil(t, created)

		repo.users.AssertExpectations(t)
	})

	t.Run("rejects empty password", func(t *testing.T) {
		repo := NewMockRepositoryManager()
		provider := auth.NewUserProvider(repo)

		created, err := provider.CreatePrincipal(ctx, &auth.User{Username: "gandalf"}, "")

		assert.Error(t, err)
		assert.Nil(t, created)
		repo.users.AssertNumberOfCalls(t, "Register", 0)
	})

	t.Run("store rejection surfaces as conflict", func(t *testing.T) {
		repo := NewMockRepositoryManager()
		provider := auth.NewUserProvider(repo)

		repo.users.On("Register", ctx, mock.Anything).
			Return(nil, errors.New("UNIQUE constraint failed: users.username")).Once()

		created, err := provider.CreatePrincipal(ctx, &auth.User{Username: "gandalf"}, "Mellon#1pass")

		assert.Error(t, err)
		assert.Nil(t, created)
		assert.Contains(t, err.Error(), "could not create user")

		repo.users.AssertExpectations(t)
	})
}

func TestUserProvider_Roles(t *testing.T) {
	ctx := context.Background()

	t.Run("RolesOf returns names in assignment order", func(t *testing.T) {
		repo := NewMockRepositoryManager()
		provider := auth.NewUserProvider(repo)

		userID := uuid.New()
		user := &auth.User{ID: userID, Username: "gandalf"}

		repo.roles.On("NamesForUser", ctx, userID).
			Return([]string{auth.RoleAdmin, auth.RoleUser}, nil).Once()

		names, err := provider.RolesOf(ctx, user)

		assert.NoError(t, err)
		assert.Equal(t, []string{auth.RoleAdmin, auth.RoleUser}, names)

		repo.roles.AssertExpectations(t)
	})

	t.Run("EnsureRole creates a missing role", func(t *testing.T) {
		repo := NewMockRepositoryManager()
		provider := auth.NewUserProvider(repo)

		repo.roles.On("Exists", ctx, auth.RoleUser).Return(false, nil).Once()
		repo.roles.On("GetOrCreate", ctx, auth.RoleUser).
			Return(&auth.Role{ID: uuid.New(), Name: auth.RoleUser}, nil).Once()

		assert.NoError(t, provider.EnsureRole(ctx, auth.RoleUser))

		repo.roles.AssertExpectations(t)
	})

	t.Run("EnsureRole skips the upsert for an existing role", func(t *testing.T) {
		repo := NewMockRepositoryManager()
		provider := auth.NewUserProvider(repo)

		repo.roles.On("Exists", ctx, auth.RoleUser).Return(true, nil).Once()

		assert.NoError(t, provider.EnsureRole(ctx, auth.RoleUser))

		repo.roles.AssertNumberOfCalls(t, "GetOrCreate", 0)
		repo.roles.AssertExpectations(t)
	})

	t.Run("AddToRole assigns the membership", func(t *testing.T) {
		repo := NewMockRepositoryManager()
		provider := auth.NewUserProvider(repo)

		user := &auth.User{ID: uuid.New(), Username: "gandalf"}
		role := &auth.Role{ID: uuid.New(), Name: auth.RoleUser}

		repo.roles.On("GetByName", ctx, auth.RoleUser).Return(role, nil).Once()
		repo.roles.On("Assign", ctx, user, role).Return(nil).Once()

		assert.NoError(t, provider.AddToRole(ctx, user, auth.RoleUser))

		repo.roles.AssertExpectations(t)
	})

	t.Run("AddToRole fails when the role is missing", func(t *testing.T) {
		repo := NewMockRepositoryManager()
		provider := auth.NewUserProvider(repo)

		repo.roles.On("GetByName", ctx, "Auditor").
			Return(nil, repository.NewRecordNotFound()).Once()

		err := provider.AddToRole(ctx, &auth.User{ID: uuid.New()}, "Auditor")

		assert.Error(t, err)
		repo.roles.AssertNumberOfCalls(t, "Assign", 0)
	})
}
