package brief

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/heartmarshall/exegesis-backend/internal/domain"
	"github.com/heartmarshall/exegesis-backend/pkg/ctxutil"
)

// GetBrief returns one of the authenticated user's briefs. Briefs of other
// accounts are reported as not found.
func (s *Service) GetBrief(ctx context.Context, briefID uuid.UUID) (*domain.Brief, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if briefID == uuid.Nil {
		return nil, domain.NewValidationError("brief_id", "required")
	}

	b, err := s.briefs.GetByID(ctx, userID, briefID)
	if err != nil {
		return nil, fmt.Errorf("get brief: %w", err)
	}
	return b, nil
}
