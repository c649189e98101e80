package brief

import (
	"context"
	"fmt"

	"github.com/heartmarshall/exegesis-backend/internal/domain"
	"github.com/heartmarshall/exegesis-backend/internal/render"
	"github.com/heartmarshall/exegesis-backend/pkg/ctxutil"
)

// Export is a rendered brief.
type Export struct {
	Brief  *domain.Brief
	Format render.Format
	Body   []byte
}

// ExportBrief renders one of the user's briefs as Markdown or HTML.
func (s *Service) ExportBrief(ctx context.Context, input ExportBriefInput) (*Export, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}
	format, _ := render.ParseFormat(input.Format)

	b, err := s.briefs.GetByID(ctx, userID, input.BriefID)
	if err != nil {
		return nil, fmt.Errorf("get brief: %w", err)
	}

	body, err := render.Render(b, format)
	if err != nil {
		return nil, err
	}
	return &Export{Brief: b, Format: format, Body: body}, nil
}
