package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/users-api/internal/core/domain"
	"github.com/99minutos/users-api/internal/core/ports"
)

// UserCache abstracts the identity cache used on bearer lookups (Redis).
type UserCache interface {
	Get(ctx context.Context, id int64) (*domain.User, error)
	Set(ctx context.Context, user *domain.User) error
}

// AuthService implements signup, login, logout, token refresh and bearer
// authentication.
type AuthService struct {
	users  ports.UserRepository
	tokens ports.TokenIssuer
	cache  UserCache
	log    zerolog.Logger
}

// NewAuthService wires the service. cache may be nil.
func NewAuthService(users ports.UserRepository, tokens ports.TokenIssuer, cache UserCache, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, cache: cache, log: log}
}

// Signup checks uniqueness of username and email, then password equality,
// and stores the account with a bcrypt hash.
func (s *AuthService) Signup(ctx context.Context, in domain.SignupInput) (*domain.User, error) {
	verr := domain.NewValidationError()

	taken, err := s.users.UsernameExists(ctx, in.Username)
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}
	if taken {
		verr.Add("username", domain.MsgNotUnique)
	}

	taken, err = s.users.EmailExists(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}
	if taken {
		verr.Add("email", domain.MsgNotUnique)
	}

	if !verr.Empty() {
		return nil, verr
	}

	if in.Password != in.PasswordConfirmation {
		verr.Add(domain.NonFieldErrors, domain.MsgPasswordMismatch)
		return nil, verr
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     in.Username,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: string(hash),
		DateJoined:   time.Now().UTC(),
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		// lost a race with a concurrent signup
		switch {
		case errors.Is(err, domain.ErrDuplicateUsername):
			verr.Add("username", domain.MsgNotUnique)
			return nil, verr
		case errors.Is(err, domain.ErrDuplicateEmail):
			verr.Add("email", domain.MsgNotUnique)
			return nil, verr
		}
		return nil, fmt.Errorf("signup: %w", err)
	}

	s.log.Info().Int64("user_id", created.ID).Str("username", created.Username).Msg("user signed up")
	return created, nil
}

// Login verifies credentials and issues a fresh token pair. Unknown users and
// wrong passwords are both reported as domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.LoginResult, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	pair, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	return &domain.LoginResult{User: user, Tokens: pair}, nil
}

// Logout mints a refresh token for the user and discards it. Tokens issued
// earlier stay valid until they expire.
func (s *AuthService) Logout(_ context.Context, user *domain.User) error {
	if user == nil {
		return domain.ErrNotAuthenticated
	}
	if _, err := s.tokens.IssueRefresh(user.ID); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.log.Debug().Int64("user_id", user.ID).Msg("session closed")
	return nil
}

// Refresh exchanges a valid refresh token for a new access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	userID, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return "", err
	}

	if _, err := s.lookup(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrRefreshTokenInvalid
		}
		return "", fmt.Errorf("refresh: %w", err)
	}

	return s.tokens.IssueAccess(userID)
}

// Authenticate resolves an access token to its user.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*domain.User, error) {
	userID, err := s.tokens.ParseAccess(accessToken)
	if err != nil {
		return nil, err
	}

	user, err := s.lookup(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	return user, nil
}

// lookup reads through the cache when one is configured. Cache failures are
// logged and fall back to the repository.
func (s *AuthService) lookup(ctx context.Context, id int64) (*domain.User, error) {
	if s.cache != nil {
		user, err := s.cache.Get(ctx, id)
		if err != nil {
			s.log.Warn().Err(err).Int64("user_id", id).Msg("user cache read failed")
		} else if user != nil {
			return user, nil
		}
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, user); err != nil {
			s.log.Warn().Err(err).Int64("user_id", id).Msg("user cache write failed")
		}
	}
	return user, nil
}
