package brief

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/heartmarshall/exegesis-backend/internal/domain"
	"github.com/heartmarshall/exegesis-backend/pkg/ctxutil"
)

// UpdateBrief applies the provided fields to one of the user's briefs.
func (s *Service) UpdateBrief(ctx context.Context, input UpdateBriefInput) (*domain.Brief, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	params := domain.BriefUpdateParams{Bookmarked: input.Bookmarked}
	if input.Title != nil {
		trimmed := strings.TrimSpace(*input.Title)
		params.Title = &trimmed
	}
	if input.Description != nil {
		trimmed := strings.TrimSpace(*input.Description)
		params.Description = &trimmed // "" clears it
	}
	if input.Status != nil {
		st := domain.BriefStatus(*input.Status)
		params.Status = &st
	}

	updated, err := s.briefs.Update(ctx, userID, input.BriefID, params)
	if err != nil {
		return nil, fmt.Errorf("update brief: %w", err)
	}

	s.log.InfoContext(ctx, "brief updated",
		slog.String("user_id", userID.String()),
		slog.String("brief_id", input.BriefID.String()),
	)

	return updated, nil
}
