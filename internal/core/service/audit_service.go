package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/99minutos/users-api/internal/core/domain"
	"github.com/99minutos/users-api/internal/core/ports"
)

type auditService struct {
	repo     ports.RequestLogRepository
	validate *validator.Validate
	log      zerolog.Logger
}

// NewAuditService returns an AuditService implementation.
func NewAuditService(repo ports.RequestLogRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{
		repo:     repo,
		validate: validator.New(),
		log:      log,
	}
}

// Record validates entry and stores it. Rows that fail validation are
// rejected without touching the repository.
func (s *auditService) Record(ctx context.Context, entry *domain.RequestLog) error {
	if entry.Username == "" && entry.UserID == nil {
		entry.Username = domain.AnonymousUsername
	}

	if err := s.validate.Struct(entry); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidRequestLog, err)
	}

	if err := s.repo.Insert(ctx, entry); err != nil {
		return fmt.Errorf("insert request log: %w", err)
	}

	s.log.Debug().
		Int64("id", entry.ID).
		Str("username", entry.Username).
		Str("path", entry.URLPath).
		Int("status", entry.StatusCode).
		Msg("request logged")
	return nil
}

func (s *auditService) ListByUsername(ctx context.Context, username string) ([]domain.RequestLog, error) {
	logs, err := s.repo.ListByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("list request logs: %w", err)
	}
	if logs == nil {
		logs = []domain.RequestLog{}
	}
	return logs, nil
}
