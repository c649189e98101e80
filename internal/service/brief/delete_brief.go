package brief

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/exegesis-backend/internal/domain"
	"github.com/heartmarshall/exegesis-backend/pkg/ctxutil"
)

// DeleteBrief deletes one of the user's briefs.
func (s *Service) DeleteBrief(ctx context.Context, briefID uuid.UUID) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	if briefID == uuid.Nil {
		return domain.NewValidationError("brief_id", "required")
	}

	if err := s.briefs.Delete(ctx, userID, briefID); err != nil {
		return fmt.Errorf("delete brief: %w", err)
	}

	s.log.InfoContext(ctx, "brief deleted",
		slog.String("user_id", userID.String()),
		slog.String("brief_id", briefID.String()),
	)
	return nil
}
