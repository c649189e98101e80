// Package brief implements the owner-scoped brief operations of the web app.
package brief

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/exegesis-backend/internal/domain"
)

type briefRepo interface {
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Brief, error)
	List(ctx context.Context, f domain.BriefFilter) ([]*domain.Brief, int, error)
	Create(ctx context.Context, b *domain.Brief) (*domain.Brief, error)
	Update(ctx context.Context, userID, id uuid.UUID, p domain.BriefUpdateParams) (*domain.Brief, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// Service provides brief management operations.
type Service struct {
	briefs briefRepo
	now    func() time.Time
	log    *slog.Logger
}

// NewService creates a new Brief service.
func NewService(log *slog.Logger, briefs briefRepo) *Service {
	return &Service{
		briefs: briefs,
		now:    time.Now,
		log:    log.With("service", "brief"),
	}
}

// ListResult is one page of briefs plus the total matching count.
type ListResult struct {
	Items []*domain.Brief
	Total int
}

// trimOrNil trims whitespace. Returns nil if result is empty.
func trimOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
