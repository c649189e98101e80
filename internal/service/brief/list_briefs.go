package brief

import (
	"context"
	"fmt"

	"github.com/heartmarshall/exegesis-backend/internal/domain"
	"github.com/heartmarshall/exegesis-backend/pkg/ctxutil"
)

// ListBriefs returns a page of the authenticated user's briefs, newest first.
func (s *Service) ListBriefs(ctx context.Context, input ListBriefsInput) (*ListResult, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	f := domain.BriefFilter{
		UserID:     &userID,
		Bookmarked: input.Bookmarked,
		Search:     trimOrNil(input.Search),
		Limit:      input.Limit,
		Offset:     input.Offset,
	}
	if input.Category != nil {
		c, _ := domain.ParseCategory(*input.Category)
		f.Category = &c
	}
	if input.Status != nil {
		st := domain.BriefStatus(*input.Status)
		f.Status = &st
	}

	items, total, err := s.briefs.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list briefs: %w", err)
	}

	return &ListResult{Items: items, Total: total}, nil
}
