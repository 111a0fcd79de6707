// Package service contains the business logic layer.
//
// Handlers parse HTTP and write responses; services enforce the rules and
// orchestrate repositories; repositories talk to the database. Services
// accept primitives and return domain models plus apperror-classified
// errors — they never see an *http.Request or a status code.
//
// The dependency chain is assembled in internal/server:
//
//	DB → repository → service → handler
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/summaize/summaize/internal/apperror"
	"github.com/summaize/summaize/internal/auth"
	"github.com/summaize/summaize/internal/model"
	"github.com/summaize/summaize/internal/repository"
)

// AuthService implements registration and login.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult bundles the authenticated user with the issued token so the
// handler can set the cookie and build the response body in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// Register creates a new account.
//
// Field checks run in a fixed order (login, password, email) so a request
// missing several fields always reports the same one — the frontend shows a
// single error at a time. The existence pre-check gives the friendly
// user_exists answer; the unique constraints in the users table remain the
// real guarantee under concurrent registration.
func (s *AuthService) Register(ctx context.Context, login, email, password string) (*model.User, error) {
	login = strings.TrimSpace(login)
	email = strings.TrimSpace(email)

	if login == "" {
		return nil, apperror.MissingField("login")
	}
	if password == "" {
		return nil, apperror.MissingField("password")
	}
	if email == "" {
		return nil, apperror.MissingField("email")
	}

	taken, err := s.users.UserExists(ctx, login, email)
	if err != nil {
		return nil, fmt.Errorf("service/auth: checking user existence: %w", err)
	}
	if taken {
		return nil, apperror.Conflict("user_exists", "username or email is already registered")
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		Username:     login,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		// The duplicate may have appeared between the pre-check and the
		// insert; the constraint violation carries the same API code.
		return nil, err
	}

	s.logger.Info("user registered",
		slog.Int64("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// Login verifies credentials and issues a session token.
//
// login matches either the username or the email. The two failure modes keep
// distinct API codes (login_failed_user_not_found, login_failed_wrong_pass);
// both map to 401.
func (s *AuthService) Login(ctx context.Context, login, password string) (*AuthResult, error) {
	login = strings.TrimSpace(login)

	if login == "" {
		return nil, apperror.MissingField("login")
	}
	if password == "" {
		return nil, apperror.MissingField("password")
	}

	user, err := s.users.GetUserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized("login_failed_user_not_found", "no account matches that login")
		}
		return nil, fmt.Errorf("service/auth: looking up user %q: %w", login, err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		s.logger.Info("failed login attempt", slog.Int64("user_id", user.ID))
		return nil, apperror.Unauthorized("login_failed_wrong_pass", "password does not match")
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: issuing token for user %d: %w", user.ID, err)
	}

	s.logger.Info("user logged in", slog.Int64("user_id", user.ID))

	return &AuthResult{User: user, Token: token}, nil
}
