package account

import (
	"context"
	"fmt"

	"github.com/heartmarshall/exegesis-backend/internal/domain"
	"github.com/heartmarshall/exegesis-backend/pkg/ctxutil"
)

// GetAccount returns the authenticated account.
func (s *Service) GetAccount(ctx context.Context) (*domain.Account, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	acc, err := s.accounts.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	return acc, nil
}
