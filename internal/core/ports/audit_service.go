package ports

import (
	"context"

	"github.com/99minutos/users-api/internal/core/domain"
)

type AuditService interface {
	Record(ctx context.Context, entry *domain.RequestLog) error
	ListByUsername(ctx context.Context, username string) ([]domain.RequestLog, error)
}
