package auth

import (
	"context"

	"github.com/goliatone/go-errors"
)

// Registration success messages. The wording is fixed here once; the
// controller and tests treat these as the single source of truth.
const (
	MsgUserCreated  = "User created successfully!"
	MsgAdminCreated = "Admin created successfully!"
)

// Auther drives the login and registration flows against a CredentialStore
// and a TokenService. It holds no per-request state; concurrent calls are
// independent.
type Auther struct {
	store        CredentialStore
	tokenService TokenService
	logger       Logger
}

// NewAuthenticator returns a new Authenticator. It fails when the signing
// configuration is unusable so a misconfigured service never accepts
// traffic.
func NewAuthenticator(store CredentialStore, opts Config) (*Auther, error) {
	tokenService, err := NewTokenService(
		[]byte(opts.GetSigningKey()),
		opts.GetTokenExpiration(),
		opts.GetIssuer(),
		opts.GetAudience(),
		defLogger{},
	)
	if err != nil {
		return nil, err
	}

	return &Auther{
		store:        store,
		tokenService: tokenService,
		logger:       defLogger{},
	}, nil
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithTokenService overrides the token service built from configuration.
func (s *Auther) WithTokenService(ts TokenService) *Auther {
	if ts != nil {
		s.tokenService = ts
	}
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Login verifies credentials and mints a signed token. Unknown usernames
// and wrong passwords are indistinguishable to the caller: same message,
// and the unknown-user path still burns a bcrypt comparison.
func (s *Auther) Login(ctx context.Context, req LoginRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", errors.Wrap(err, errors.CategoryValidation, "invalid login request").
			WithCode(errors.CodeBadRequest)
	}

	user, err := s.store.FindByUsername(ctx, req.UserName)
	if err != nil {
		if errors.IsNotFound(err) {
			CompareDummyHash(req.Password)
			return "", ErrWrongCredentials
		}
		s.logger.Error("Login user lookup error", "error", err)
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during login")
	}

	ok, err := s.store.CheckPassword(ctx, user, req.Password)
	if err != nil {
		if errors.Is(err, ErrTooManyLoginAttempts) {
			return "", err
		}
		s.logger.Error("Login password check error", "error", err)
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to verify password")
	}
	if !ok {
		return "", ErrWrongCredentials
	}

	roles, err := s.store.RolesOf(ctx, user)
	if err != nil {
		s.logger.Error("Login failed to fetch roles", "error", err)
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to fetch roles during login")
	}

	token, err := s.tokenService.Generate(NewIdentityFromUser(user, roles))
	if err != nil {
		s.logger.Error("Login token generation error", "error", err)
		return "", err
	}

	return token, nil
}

// Register creates a principal and adds it to the User role.
func (s *Auther) Register(ctx context.Context, req RegisterRequest) (string, error) {
	return s.register(ctx, req, RoleUser, ErrUserExists, MsgUserCreated)
}

// RegisterAdmin creates a principal and adds it to the Admin role. Access
// control for this entry point lives at the transport layer.
func (s *Auther) RegisterAdmin(ctx context.Context, req RegisterRequest) (string, error) {
	return s.register(ctx, req, RoleAdmin, ErrAdminExists, MsgAdminCreated)
}

func (s *Auther) register(ctx context.Context, req RegisterRequest, role string, existsErr *errors.Error, successMsg string) (string, error) {
	if err := req.Validate(); err != nil {
		return "", errors.Wrap(err, errors.CategoryValidation, "invalid registration request").
			WithCode(errors.CodeBadRequest)
	}

	if _, err := s.store.FindByUsername(ctx, req.UserName); err == nil {
		return "", existsErr
	} else if !errors.IsNotFound(err) {
		s.logger.Error("Register duplicate check error", "error", err)
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to check for existing user")
	}

	user := &User{
		Username:      req.UserName,
		Email:         req.Email,
		SecurityStamp: NewSecurityStamp(),
	}

	created, err := s.store.CreatePrincipal(ctx, user, req.Password)
	if err != nil {
		s.logger.Error("Register create principal error", "error", err)
		return "", errors.Wrap(err, ErrCreateUser.Category, ErrCreateUser.Message).
			WithTextCode(ErrCreateUser.TextCode).
			WithCode(errors.CodeConflict)
	}

	if err := s.store.EnsureRole(ctx, role); err != nil {
		s.logger.Error("Register ensure role error", "role", role, "error", err)
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to ensure role")
	}

	if err := s.store.AddToRole(ctx, created, role); err != nil {
		s.logger.Error("Register add to role error", "role", role, "error", err)
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to add user to role")
	}

	return successMsg, nil
}
