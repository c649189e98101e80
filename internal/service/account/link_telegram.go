package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/exegesis-backend/internal/domain"
	"github.com/heartmarshall/exegesis-backend/pkg/ctxutil"
)

// LinkResult reports what LinkTelegram changed.
type LinkResult struct {
	Account *domain.Account
	// MergedAccountID is the placeholder that was absorbed, if any.
	MergedAccountID *uuid.UUID
	MovedBriefs     int64
}

// LinkTelegram attaches a Telegram chat id to the authenticated account.
//
// If the chat id belongs to a placeholder account, its briefs move to the
// caller and the placeholder is deleted. If it belongs to another claimed
// account the call fails with domain.ErrConflict. Everything, including the
// audit record, runs in one transaction with the current owner row locked.
func (s *Service) LinkTelegram(ctx context.Context, input LinkTelegramInput) (*LinkResult, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}
	chatID := strings.TrimSpace(input.TelegramChatID)

	res := &LinkResult{}
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		owner, err := s.accounts.LockByTelegramChatID(txCtx, chatID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			owner = nil
		case err != nil:
			return fmt.Errorf("lock chat owner: %w", err)
		}

		if owner != nil && owner.ID != userID {
			if !owner.IsPlaceholder() {
				return fmt.Errorf("telegram chat %s is linked to another account: %w", chatID, domain.ErrConflict)
			}

			moved, err := s.briefs.ReassignOwner(txCtx, owner.ID, userID)
			if err != nil {
				return fmt.Errorf("reassign briefs: %w", err)
			}
			if err := s.accounts.Delete(txCtx, owner.ID); err != nil {
				return fmt.Errorf("delete placeholder: %w", err)
			}
			res.MovedBriefs = moved
			res.MergedAccountID = &owner.ID
		}

		acc, err := s.accounts.SetTelegramChatID(txCtx, userID, &chatID)
		if err != nil {
			return fmt.Errorf("set telegram chat id: %w", err)
		}
		res.Account = acc

		if err := s.audit.Log(txCtx, linkRecord(userID, chatID, res, s.now())); err != nil {
			return fmt.Errorf("audit: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	attrs := []any{
		slog.String("user_id", userID.String()),
		slog.Int64("moved_briefs", res.MovedBriefs),
	}
	if res.MergedAccountID != nil {
		attrs = append(attrs, slog.String("placeholder_id", res.MergedAccountID.String()))
	}
	s.log.InfoContext(ctx, "telegram linked", attrs...)

	return res, nil
}

func linkRecord(userID uuid.UUID, chatID string, res *LinkResult, now time.Time) domain.AuditRecord {
	changes := map[string]any{"telegram_chat_id": chatID}
	if res.MergedAccountID != nil {
		changes["moved_briefs"] = res.MovedBriefs
	}
	return domain.AuditRecord{
		ID:        uuid.New(),
		UserID:    userID,
		Action:    domain.AuditActionTelegramLinked,
		EntityID:  res.MergedAccountID,
		Changes:   changes,
		CreatedAt: now.UTC(),
	}
}
