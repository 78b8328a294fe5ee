// Package accounts registers users, checks their passwords and issues tokens.
package accounts

import (
	"context"
	"errors"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"jobportal/internal/auth"
	"jobportal/internal/database"
	"jobportal/internal/errcode"
	"jobportal/internal/store"
)

// Repository is the account persistence the service needs.
type Repository interface {
	Create(ctx context.Context, user *database.User) error
	FindByUsername(ctx context.Context, username string) (database.User, error)
	FindByID(ctx context.Context, id uint) (database.User, error)
	Delete(ctx context.Context, userID uint) error
}

// TokenIssuer issues bearer tokens for a username.
type TokenIssuer interface {
	Issue(username string) (auth.Token, error)
}

// RegisterInput is a sign up request.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

func (in RegisterInput) validate() error {
	return errcode.FromValidation(validation.Errors{
		"username": validation.Validate(in.Username, validation.Required, validation.Length(3, 64)),
		"email":    validation.Validate(in.Email, validation.Required, validation.Length(3, 255), is.Email),
		"password": validation.Validate(in.Password, validation.Required, validation.Length(8, 72)),
		"role":     validation.Validate(in.Role, validation.Required, validation.In(roleNames()...)),
	}.Filter())
}

// Service manages accounts.
type Service struct {
	users  Repository
	hasher auth.PasswordHasher
	tokens TokenIssuer
	logger *slog.Logger
}

// NewService builds a Service. A nil logger falls back to slog.Default.
func NewService(users Repository, hasher auth.PasswordHasher, tokens TokenIssuer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{users: users, hasher: hasher, tokens: tokens, logger: logger}
}

// Register creates an account and returns it with a fresh token.
func (s *Service) Register(ctx context.Context, in RegisterInput) (database.User, auth.Token, error) {
	if err := in.validate(); err != nil {
		return database.User{}, auth.Token{}, err
	}
	logger := s.logger.With(slog.String("username", in.Username))

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		logger.Error("hash password failed", slog.Any("error", err))
		return database.User{}, auth.Token{}, errcode.Dependency("hash password", err)
	}
	user := database.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hashed,
		Role:         in.Role,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			logger.Info("register conflict: user already exists")
			return database.User{}, auth.Token{}, errcode.Taken("username")
		}
		logger.Error("create user failed", slog.Any("error", err))
		return database.User{}, auth.Token{}, errcode.Dependency("create user", err)
	}

	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		logger.Error("issue token failed", slog.Any("error", err))
		return database.User{}, auth.Token{}, errcode.Dependency("issue token", err)
	}
	logger.Info("user registered", slog.Uint64("user_id", uint64(user.ID)), slog.String("role", user.Role))
	return user, token, nil
}

// Login checks the password of username and issues a token. Unknown users and
// wrong passwords fail identically.
func (s *Service) Login(ctx context.Context, username, password string) (auth.Token, error) {
	logger := s.logger.With(slog.String("username", username))

	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		logger.Info("login failed: user not found")
		return auth.Token{}, errcode.ErrInvalidCredentials
	}
	if err != nil {
		logger.Error("login query failed", slog.Any("error", err))
		return auth.Token{}, errcode.Dependency("load user", err)
	}
	if !s.hasher.Compare(user.PasswordHash, password) {
		logger.Info("login failed: password mismatch", slog.Uint64("user_id", uint64(user.ID)))
		return auth.Token{}, errcode.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		logger.Error("issue token failed", slog.Any("error", err))
		return auth.Token{}, errcode.Dependency("issue token", err)
	}
	return token, nil
}

// Profile returns the stored account of principal.
func (s *Service) Profile(ctx context.Context, principal auth.Principal) (database.User, error) {
	if !principal.Authenticated() {
		return database.User{}, errcode.ErrAuthRequired
	}
	user, err := s.users.FindByID(ctx, principal.ID)
	if errors.Is(err, store.ErrNotFound) {
		return database.User{}, errcode.ErrPrincipalNotFound
	}
	if err != nil {
		return database.User{}, errcode.Dependency("load user", err)
	}
	return user, nil
}

// Remove deletes username and everything it owns.
func (s *Service) Remove(ctx context.Context, username string) error {
	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return errcode.NotFound("user")
	}
	if err != nil {
		return errcode.Dependency("load user", err)
	}
	if err := s.users.Delete(ctx, user.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errcode.NotFound("user")
		}
		return errcode.Dependency("delete user", err)
	}
	s.logger.Info("user removed", slog.String("username", username), slog.Uint64("user_id", uint64(user.ID)))
	return nil
}

func roleNames() []any {
	roles := auth.Roles()
	names := make([]any, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.String())
	}
	return names
}
