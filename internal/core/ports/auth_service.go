package ports

import (
	"context"

	"github.com/99minutos/users-api/internal/core/domain"
)

type AuthService interface {
	Signup(ctx context.Context, in domain.SignupInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*domain.LoginResult, error)
	Logout(ctx context.Context, user *domain.User) error
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Authenticate(ctx context.Context, accessToken string) (*domain.User, error)
}

// TokenIssuer signs and verifies access/refresh JWTs.
type TokenIssuer interface {
	Issue(user *domain.User) (domain.TokenPair, error)
	IssueAccess(userID int64) (string, error)
	IssueRefresh(userID int64) (string, error)
	ParseAccess(token string) (int64, error)
	ParseRefresh(token string) (int64, error)
}
