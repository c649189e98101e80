// Package user implements account persistence using PostgreSQL.
package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/exegesis-backend/internal/adapter/postgres"
	"github.com/heartmarshall/exegesis-backend/internal/domain"
)

const table = "users"

var (
	columns   = []string{"id", "name", "email", "telegram_chat_id", "created_at", "updated_at"}
	returning = strings.Join(columns, ", ")
)

// Repo provides account persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new account repository. db is used whenever the context
// carries no transaction.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type accountRow struct {
	ID             uuid.UUID `db:"id"`
	Name           *string   `db:"name"`
	Email          *string   `db:"email"`
	TelegramChatID *string   `db:"telegram_chat_id"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (r accountRow) toDomain() *domain.Account {
	return &domain.Account{
		ID:             r.ID,
		Name:           r.Name,
		Email:          r.Email,
		TelegramChatID: r.TelegramChatID,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func (r *Repo) selectOne(ctx context.Context, query sq.Sqlizer, key any) (*domain.Account, error) {
	var row accountRow
	if err := postgres.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query); err != nil {
		return nil, postgres.MapError(err, "account", key)
	}
	return row.toDomain(), nil
}

// GetByID returns an account by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	query := postgres.Builder().Select(columns...).From(table).Where(sq.Eq{"id": id})
	return r.selectOne(ctx, query, id)
}

// GetByTelegramChatID returns the account owning chatID.
func (r *Repo) GetByTelegramChatID(ctx context.Context, chatID string) (*domain.Account, error) {
	query := postgres.Builder().Select(columns...).From(table).Where(sq.Eq{"telegram_chat_id": chatID})
	return r.selectOne(ctx, query, chatID)
}

// LockByTelegramChatID is GetByTelegramChatID with a row lock held until the
// surrounding transaction ends. It must run inside RunInTx.
func (r *Repo) LockByTelegramChatID(ctx context.Context, chatID string) (*domain.Account, error) {
	if !postgres.InTx(ctx) {
		return nil, fmt.Errorf("lock account %s: no transaction in context", chatID)
	}
	query := postgres.Builder().Select(columns...).From(table).
		Where(sq.Eq{"telegram_chat_id": chatID}).
		Suffix("FOR UPDATE")
	return r.selectOne(ctx, query, chatID)
}

// UpsertByTelegramChatID inserts acc or, when an account already owns the
// same chat id, returns that account unchanged. Concurrent first messages
// from one chat therefore resolve to a single row.
func (r *Repo) UpsertByTelegramChatID(ctx context.Context, acc *domain.Account) (*domain.Account, error) {
	if acc.TelegramChatID == nil || *acc.TelegramChatID == "" {
		return nil, fmt.Errorf("upsert account: telegram chat id: %w", domain.ErrValidation)
	}

	query := postgres.Builder().
		Insert(table).
		Columns(columns...).
		Values(acc.ID, acc.Name, acc.Email, acc.TelegramChatID, acc.CreatedAt, acc.UpdatedAt).
		Suffix("ON CONFLICT (telegram_chat_id) DO UPDATE SET telegram_chat_id = EXCLUDED.telegram_chat_id RETURNING " + returning)

	return r.selectOne(ctx, query, *acc.TelegramChatID)
}

// SetTelegramChatID assigns (or clears, with nil) the chat id of account id.
func (r *Repo) SetTelegramChatID(ctx context.Context, id uuid.UUID, chatID *string) (*domain.Account, error) {
	query := postgres.Builder().
		Update(table).
		Set("telegram_chat_id", chatID).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + returning)
	return r.selectOne(ctx, query, id)
}

// Delete removes an account. Accounts that still own briefs cannot be deleted.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.db),
		postgres.Builder().Delete(table).Where(sq.Eq{"id": id}))
	if err != nil {
		return postgres.MapError(err, "account", id)
	}
	if n == 0 {
		return fmt.Errorf("account %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// DeleteStalePlaceholders removes placeholder accounts created before
// olderThan that own no briefs. Returns the number of deleted accounts.
func (r *Repo) DeleteStalePlaceholders(ctx context.Context, olderThan time.Time) (int64, error) {
	query := postgres.Builder().
		Delete(table + " u").
		Where(sq.Or{sq.Eq{"u.email": nil}, sq.Eq{"u.email": ""}}).
		Where(sq.Lt{"u.created_at": olderThan}).
		Where("NOT EXISTS (SELECT 1 FROM briefs b WHERE b.user_id = u.id)")

	n, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.db), query)
	if err != nil {
		return 0, fmt.Errorf("delete stale placeholders: %w", err)
	}
	return n, nil
}
