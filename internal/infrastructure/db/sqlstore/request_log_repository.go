package sqlstore

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/99minutos/users-api/internal/core/domain"
	"github.com/99minutos/users-api/internal/core/ports"
)

type RequestLogRepository struct {
	db *gorm.DB
}

func NewRequestLogRepository(db *gorm.DB) ports.RequestLogRepository {
	return &RequestLogRepository{db: db}
}

// Insert stores entry; requested_at is stamped by gorm at insert time.
func (r *RequestLogRepository) Insert(ctx context.Context, entry *domain.RequestLog) error {
	m := requestLogFromDomain(entry)
	if err := r.db.WithContext(ctx).Omit("User").Create(m).Error; err != nil {
		return fmt.Errorf("insert request log: %w", err)
	}
	entry.ID = m.ID
	entry.RequestedAt = m.RequestedAt.UTC()
	return nil
}

func (r *RequestLogRepository) ListByUsername(ctx context.Context, username string) ([]domain.RequestLog, error) {
	var rows []requestLogModel
	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list request logs: %w", err)
	}

	out := make([]domain.RequestLog, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}
