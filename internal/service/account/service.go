// Package account implements account lookup and the reconciliation of
// bot-created placeholder accounts with web accounts.
package account

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/exegesis-backend/internal/domain"
)

type accountRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	LockByTelegramChatID(ctx context.Context, chatID string) (*domain.Account, error)
	SetTelegramChatID(ctx context.Context, id uuid.UUID, chatID *string) (*domain.Account, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type briefRepo interface {
	ReassignOwner(ctx context.Context, from, to uuid.UUID) (int64, error)
}

type auditLogger interface {
	Log(ctx context.Context, record domain.AuditRecord) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service provides account operations.
type Service struct {
	accounts accountRepo
	briefs   briefRepo
	audit    auditLogger
	tx       txManager
	now      func() time.Time
	log      *slog.Logger
}

// NewService creates a new Account service.
func NewService(log *slog.Logger, accounts accountRepo, briefs briefRepo, audit auditLogger, tx txManager) *Service {
	return &Service{
		accounts: accounts,
		briefs:   briefs,
		audit:    audit,
		tx:       tx,
		now:      time.Now,
		log:      log.With("service", "account"),
	}
}
