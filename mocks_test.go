package auth_test

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	auth "github.com/tokengate/auth-service"
	"github.com/uptrace/bun"
)

// MockIdentity implements auth.Identity for testing
type MockIdentity struct {
	mock.Mock
}

func (m *MockIdentity) ID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Username() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Email() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Roles() []string {
	args := m.Called()
	if roles, ok := args.Get(0).([]string); ok {
		return roles
	}
	return nil
}

// MockLogger implements auth.Logger for testing
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...any) {
	m.Called(format, args)
}

// MockCredentialStore implements auth.CredentialStore
type MockCredentialStore struct {
	mock.Mock
}

func (m *MockCredentialStore) FindByUsername(ctx context.Context, username string) (*auth.User, error) {
	args := m.Called(ctx, username)
	if user, ok := args.Get(0).(*auth.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCredentialStore) CheckPassword(ctx context.Context, user *auth.User, password string) (bool, error) {
	args := m.Called(ctx, user, password)
	return args.Bool(0), args.Error(1)
}

func (m *MockCredentialStore) RolesOf(ctx context.Context, user *auth.User) ([]string, error) {
	args := m.Called(ctx, user)
	if roles, ok := args.Get(0).([]string); ok {
		return roles, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCredentialStore) CreatePrincipal(ctx context.Context, user *auth.User, password string) (*auth.User, error) {
	args := m.Called(ctx, user, password)
	if created, ok := args.Get(0).(*auth.User); ok {
		return created, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCredentialStore) EnsureRole(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockCredentialStore) AddToRole(ctx context.Context, user *auth.User, role string) error {
	args := m.Called(ctx, user, role)
	return args.Error(0)
}

// MockAuthenticator implements auth.Authenticator
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Login(ctx context.Context, req auth.LoginRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockAuthenticator) Register(ctx context.Context, req auth.RegisterRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockAuthenticator) RegisterAdmin(ctx context.Context, req auth.RegisterRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

// MockUsers mocks the Users repository. Only the methods the provider
// touches are implemented; the embedded interface panics on anything else.
type MockUsers struct {
	mock.Mock
	auth.Users
}

func (m *MockUsers) GetByUsername(ctx context.Context, username string) (*auth.User, error) {
	args := m.Called(ctx, username)
	if user, ok := args.Get(0).(*auth.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUsers) Register(ctx context.Context, user *auth.User) (*auth.User, error) {
	args := m.Called(ctx, user)
	if created, ok := args.Get(0).(*auth.User); ok {
		return created, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUsers) TrackAttemptedLogin(ctx context.Context, user *auth.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUsers) TrackSuccessfulLogin(ctx context.Context, user *auth.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockRoles mocks the Roles repository.
type MockRoles struct {
	mock.Mock
	auth.Roles
}

func (m *MockRoles) GetByName(ctx context.Context, name string) (*auth.Role, error) {
	args := m.Called(ctx, name)
	if role, ok := args.Get(0).(*auth.Role); ok {
		return role, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRoles) Exists(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockRoles) GetOrCreate(ctx context.Context, name string) (*auth.Role, error) {
	args := m.Called(ctx, name)
	if role, ok := args.Get(0).(*auth.Role); ok {
		return role, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRoles) Assign(ctx context.Context, user *auth.User, role *auth.Role) error {
	args := m.Called(ctx, user, role)
	return args.Error(0)
}

func (m *MockRoles) NamesForUser(ctx context.Context, userID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, userID)
	if names, ok := args.Get(0).([]string); ok {
		return names, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockRepositoryManager wires the mocked repositories together.
type MockRepositoryManager struct {
	users *MockUsers
	roles *MockRoles
}

func NewMockRepositoryManager() *MockRepositoryManager {
	return &MockRepositoryManager{
		users: new(MockUsers),
		roles: new(MockRoles),
	}
}

func (m *MockRepositoryManager) Users() auth.Users {
	return m.users
}

func (m *MockRepositoryManager) Roles() auth.Roles {
	return m.roles
}

func (m *MockRepositoryManager) Validate() error {
	return nil
}

func (m *MockRepositoryManager) MustValidate() {}

func (m *MockRepositoryManager) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	return f(ctx, bun.Tx{})
}

var _ auth.RepositoryManager = (*MockRepositoryManager)(nil)
