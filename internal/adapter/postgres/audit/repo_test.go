package audit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/exegesis-backend/internal/adapter/postgres"
	"github.com/heartmarshall/exegesis-backend/internal/adapter/postgres/audit"
	"github.com/heartmarshall/exegesis-backend/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/exegesis-backend/internal/domain"
)

func newRepo(t *testing.T) (*audit.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return audit.New(pool), pool
}

func buildRecord(userID uuid.UUID, entityID *uuid.UUID, changes map[string]any, at time.Time) domain.AuditRecord {
	return domain.AuditRecord{
		ID:        uuid.New(),
		UserID:    userID,
		Action:    domain.AuditActionTelegramLinked,
		EntityID:  entityID,
		Changes:   changes,
		CreatedAt: at.UTC().Truncate(time.Microsecond),
	}
}

func TestRepo_LogAndList(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	acc := testhelper.SeedAccount(t, pool)

	placeholder := uuid.New()
	now := time.Now()
	older := buildRecord(acc.ID, nil, map[string]any{"telegram_chat_id": "111"}, now.Add(-time.Hour))
	newer := buildRecord(acc.ID, &placeholder, map[string]any{"telegram_chat_id": "222", "moved_briefs": 3}, now)

	for _, rec := range []domain.AuditRecord{older, newer} {
		if err := repo.Log(ctx, rec); err != nil {
			t.Fatalf("Log: %v", err)
		}
	}

	got, err := repo.ListByUser(ctx, acc.ID, 10, 0)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != newer.ID || got[1].ID != older.ID {
		t.Errorf("order = [%s %s], want newest first", got[0].ID, got[1].ID)
	}
	if got[0].EntityID == nil || *got[0].EntityID != placeholder {
		t.Errorf("EntityID = %v, want %s", got[0].EntityID, placeholder)
	}
	if got[1].EntityID != nil {
		t.Errorf("EntityID = %v, want nil", got[1].EntityID)
	}
	// JSON numbers decode as float64.
	if got[0].Changes["moved_briefs"] != float64(3) || got[0].Changes["telegram_chat_id"] != "222" {
		t.Errorf("Changes = %v", got[0].Changes)
	}
	if got[0].Action != domain.AuditActionTelegramLinked {
		t.Errorf("Action = %q", got[0].Action)
	}
	if !got[0].CreatedAt.Equal(newer.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got[0].CreatedAt, newer.CreatedAt)
	}

	page, err := repo.ListByUser(ctx, acc.ID, 1, 1)
	if err != nil {
		t.Fatalf("ListByUser page: %v", err)
	}
	if len(page) != 1 || page[0].ID != older.ID {
		t.Errorf("second page = %+v, want the older record", page)
	}
}

func TestRepo_Log_NilChangesStoredAsEmptyObject(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	acc := testhelper.SeedAccount(t, pool)

	if err := repo.Log(ctx, buildRecord(acc.ID, nil, nil, time.Now())); err != nil {
		t.Fatalf("Log: %v", err)
	}

	var raw string
	if err := pool.QueryRow(ctx, `SELECT changes::text FROM audit_log WHERE user_id = $1`, acc.ID).Scan(&raw); err != nil {
		t.Fatalf("select changes: %v", err)
	}
	if raw != "{}" {
		t.Errorf("changes = %s, want {}", raw)
	}
}

func TestRepo_Log_UnknownUser(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	err := repo.Log(context.Background(), buildRecord(uuid.New(), nil, nil, time.Now()))
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for a missing account, got %v", err)
	}
}

func TestRepo_Log_RolledBackWithTransaction(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	acc := testhelper.SeedAccount(t, pool)

	sentinel := errors.New("abort")
	err := postgres.NewTxManager(pool).RunInTx(ctx, func(txCtx context.Context) error {
		if err := repo.Log(txCtx, buildRecord(acc.ID, nil, nil, time.Now())); err != nil {
			t.Fatalf("Log: %v", err)
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("RunInTx = %v", err)
	}

	got, err := repo.ListByUser(ctx, acc.ID, 0, 0)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no records after rollback, got %d", len(got))
	}
}

func TestRepo_DeletedWithAccount(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	acc := testhelper.SeedAccount(t, pool)

	if err := repo.Log(ctx, buildRecord(acc.ID, nil, nil, time.Now())); err != nil {
		t.Fatalf("Log: %v", err)
	}
	if _, err := pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, acc.ID); err != nil {
		t.Fatalf("delete account: %v", err)
	}

	got, err := repo.ListByUser(ctx, acc.ID, 0, 0)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected cascade delete, got %d records", len(got))
	}
}
