package ports

import (
	"context"

	"github.com/99minutos/users-api/internal/core/domain"
)

// RequestLogRepository persists audit rows.
type RequestLogRepository interface {
	// Insert stores entry, assigning ID and RequestedAt.
	Insert(ctx context.Context, entry *domain.RequestLog) error
	// ListByUsername returns rows with an exact username match in insertion order.
	ListByUsername(ctx context.Context, username string) ([]domain.RequestLog, error)
}
