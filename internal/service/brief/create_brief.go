package brief

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/exegesis-backend/internal/domain"
	"github.com/heartmarshall/exegesis-backend/pkg/ctxutil"
)

// CreateBrief stores a brief written in the web app. Without an explicit
// status it starts in progress; unknown categories become topical.
func (s *Service) CreateBrief(ctx context.Context, input CreateBriefInput) (*domain.Brief, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	b := &domain.Brief{
		ID:                 uuid.New(),
		UserID:             userID,
		Title:              strings.TrimSpace(input.Title),
		Description:        trimOrNil(input.Description),
		Category:           domain.CoerceCategory(input.Category),
		Transcript:         strings.TrimSpace(input.Transcript),
		LinguisticInsights: input.LinguisticInsights,
		HistoricalContext:  strings.TrimSpace(input.HistoricalContext),
		OutlinePoints:      input.OutlinePoints,
		Status:             domain.BriefStatusInProgress,
		Bookmarked:         input.Bookmarked,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if input.Status != nil {
		b.Status = domain.BriefStatus(*input.Status)
	}
	if b.LinguisticInsights == nil {
		b.LinguisticInsights = []domain.LinguisticInsight{}
	}
	if b.OutlinePoints == nil {
		b.OutlinePoints = []domain.OutlinePoint{}
	}

	created, err := s.briefs.Create(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("create brief: %w", err)
	}

	s.log.InfoContext(ctx, "brief created",
		slog.String("user_id", userID.String()),
		slog.String("brief_id", created.ID.String()),
		slog.String("category", created.Category.String()),
	)

	return created, nil
}
