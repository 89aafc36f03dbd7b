package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/99minutos/users-api/internal/core/domain"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// tokenClaims is the JWT payload: token_type, user_id, jti, iat and exp.
type tokenClaims struct {
	TokenType string `json:"token_type"`
	UserID    int64  `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 access and refresh tokens.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenService(secret string, accessTTL, refreshTTL time.Duration) *TokenService {
	if accessTTL <= 0 {
		accessTTL = 5 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 24 * time.Hour
	}
	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (s *TokenService) Issue(user *domain.User) (domain.TokenPair, error) {
	refresh, err := s.IssueRefresh(user.ID)
	if err != nil {
		return domain.TokenPair{}, err
	}
	access, err := s.IssueAccess(user.ID)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return domain.TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *TokenService) IssueAccess(userID int64) (string, error) {
	return s.sign(tokenTypeAccess, userID, s.accessTTL)
}

func (s *TokenService) IssueRefresh(userID int64) (string, error) {
	return s.sign(tokenTypeRefresh, userID, s.refreshTTL)
}

// ParseAccess returns the user id of a valid access token, or
// domain.ErrTokenInvalid.
func (s *TokenService) ParseAccess(token string) (int64, error) {
	id, err := s.parse(token, tokenTypeAccess)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrTokenInvalid, err)
	}
	return id, nil
}

// ParseRefresh returns the user id of a valid refresh token, or
// domain.ErrRefreshTokenInvalid.
func (s *TokenService) ParseRefresh(token string) (int64, error) {
	id, err := s.parse(token, tokenTypeRefresh)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrRefreshTokenInvalid, err)
	}
	return id, nil
}

func (s *TokenService) sign(tokenType string, userID int64, ttl time.Duration) (string, error) {
	now := s.now()
	claims := tokenClaims{
		TokenType: tokenType,
		UserID:    userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

func (s *TokenService) parse(token, wantType string) (int64, error) {
	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return 0, err
	}
	if !parsed.Valid {
		return 0, errors.New("token not valid")
	}
	if claims.TokenType != wantType {
		return 0, fmt.Errorf("token has wrong type %q", claims.TokenType)
	}
	if claims.UserID == 0 {
		return 0, errors.New("token contained no recognizable user identification")
	}
	return claims.UserID, nil
}
