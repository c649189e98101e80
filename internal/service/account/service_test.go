package account

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	"github.com/heartmarshall/exegesis-backend/internal/domain"
	"github.com/heartmarshall/exegesis-backend/pkg/ctxutil"
)

func newTestService(accounts *accountRepoMock, briefs *briefRepoMock, tx *txManagerMock) *Service {
	return NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), accounts, briefs, &auditLoggerMock{}, tx)
}

func ptr[T any](v T) *T { return &v }

// setEchoes returns a SetTelegramChatIDFunc that reports the stored value.
func setEchoes() func(ctx context.Context, id uuid.UUID, chatID *string) (*domain.Account, error) {
	return func(ctx context.Context, id uuid.UUID, chatID *string) (*domain.Account, error) {
		return &domain.Account{ID: id, Email: ptr("a@example.org"), TelegramChatID: chatID}, nil
	}
}

func TestLinkTelegram_NoExistingOwner(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	accounts := &accountRepoMock{
		LockByTelegramChatIDFunc: func(ctx context.Context, chatID string) (*domain.Account, error) {
			return nil, domain.ErrNotFound
		},
		SetTelegramChatIDFunc: setEchoes(),
	}
	briefs := &briefRepoMock{}
	tx := &txManagerMock{}

	res, err := newTestService(accounts, briefs, tx).LinkTelegram(
		ctxutil.WithUserID(context.Background(), userID),
		LinkTelegramInput{TelegramChatID: " 777 "},
	)
	if err != nil {
		t.Fatalf("LinkTelegram: %v", err)
	}
	if res.Account.TelegramChatID == nil || *res.Account.TelegramChatID != "777" {
		t.Errorf("chat id = %v", res.Account.TelegramChatID)
	}
	if res.MergedAccountID != nil || res.MovedBriefs != 0 {
		t.Errorf("nothing should be merged: %+v", res)
	}
	if len(briefs.calls) != 0 || len(accounts.calls.Delete) != 0 {
		t.Error("no transfer expected")
	}
	if accounts.calls.Lock[0] != "777" || !tx.Committed {
		t.Errorf("lock=%v committed=%v", accounts.calls.Lock, tx.Committed)
	}
}

func TestLinkTelegram_MergesPlaceholder(t *testing.T) {
	t.Parallel()

	userID, placeholderID := uuid.New(), uuid.New()
	accounts := &accountRepoMock{
		LockByTelegramChatIDFunc: func(ctx context.Context, chatID string) (*domain.Account, error) {
			return &domain.Account{ID: placeholderID, TelegramChatID: &chatID}, nil
		},
		DeleteFunc:            func(ctx context.Context, id uuid.UUID) error { return nil },
		SetTelegramChatIDFunc: setEchoes(),
	}
	briefs := &briefRepoMock{
		ReassignOwnerFunc: func(ctx context.Context, from, to uuid.UUID) (int64, error) { return 3, nil },
	}
	tx := &txManagerMock{}

	res, err := newTestService(accounts, briefs, tx).LinkTelegram(
		ctxutil.WithUserID(context.Background(), userID),
		LinkTelegramInput{TelegramChatID: "777"},
	)
	if err != nil {
		t.Fatalf("LinkTelegram: %v", err)
	}

	if len(briefs.calls) != 1 || briefs.calls[0].From != placeholderID || briefs.calls[0].To != userID {
		t.Errorf("reassign calls = %+v", briefs.calls)
	}
	if len(accounts.calls.Delete) != 1 || accounts.calls.Delete[0] != placeholderID {
		t.Errorf("delete calls = %v", accounts.calls.Delete)
	}
	if accounts.calls.Set[0] != userID {
		t.Error("chat id must be set on the caller")
	}
	if res.MovedBriefs != 3 || res.MergedAccountID == nil || *res.MergedAccountID != placeholderID {
		t.Errorf("result = %+v", res)
	}
	if !tx.Committed {
		t.Error("expected commit")
	}
}

func TestLinkTelegram_AlreadyLinkedToCaller(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	accounts := &accountRepoMock{
		LockByTelegramChatIDFunc: func(ctx context.Context, chatID string) (*domain.Account, error) {
			return &domain.Account{ID: userID, Email: ptr("a@example.org"), TelegramChatID: &chatID}, nil
		},
		SetTelegramChatIDFunc: setEchoes(),
	}
	briefs := &briefRepoMock{}

	res, err := newTestService(accounts, briefs, &txManagerMock{}).LinkTelegram(
		ctxutil.WithUserID(context.Background(), userID),
		LinkTelegramInput{TelegramChatID: "777"},
	)
	if err != nil {
		t.Fatalf("LinkTelegram: %v", err)
	}
	if len(briefs.calls) != 0 || len(accounts.calls.Delete) != 0 || res.MergedAccountID != nil {
		t.Error("linking an owned chat must not transfer anything")
	}
}

func TestLinkTelegram_ClaimedByAnotherAccount(t *testing.T) {
	t.Parallel()

	accounts := &accountRepoMock{
		LockByTelegramChatIDFunc: func(ctx context.Context, chatID string) (*domain.Account, error) {
			return &domain.Account{ID: uuid.New(), Email: ptr("b@example.org"), TelegramChatID: &chatID}, nil
		},
	}
	briefs := &briefRepoMock{}
	tx := &txManagerMock{}

	_, err := newTestService(accounts, briefs, tx).LinkTelegram(
		ctxutil.WithUserID(context.Background(), uuid.New()),
		LinkTelegramInput{TelegramChatID: "777"},
	)
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
	if tx.Committed || len(briefs.calls) != 0 || len(accounts.calls.Set) != 0 {
		t.Error("conflict must change nothing")
	}
}

func TestLinkTelegram_FailureRollsBack(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	tests := []struct {
		name     string
		reassign error
		del      error
		set      error
	}{
		{name: "reassign", reassign: boom},
		{name: "delete", del: boom},
		{name: "set", set: boom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			accounts := &accountRepoMock{
				LockByTelegramChatIDFunc: func(ctx context.Context, chatID string) (*domain.Account, error) {
					return &domain.Account{ID: uuid.New(), TelegramChatID: &chatID}, nil
				},
				DeleteFunc: func(ctx context.Context, id uuid.UUID) error { return tt.del },
				SetTelegramChatIDFunc: func(ctx context.Context, id uuid.UUID, chatID *string) (*domain.Account, error) {
					if tt.set != nil {
						return nil, tt.set
					}
					return &domain.Account{ID: id}, nil
				},
			}
			briefs := &briefRepoMock{
				ReassignOwnerFunc: func(ctx context.Context, from, to uuid.UUID) (int64, error) { return 1, tt.reassign },
			}
			tx := &txManagerMock{}

			_, err := newTestService(accounts, briefs, tx).LinkTelegram(
				ctxutil.WithUserID(context.Background(), uuid.New()),
				LinkTelegramInput{TelegramChatID: "777"},
			)
			if !errors.Is(err, boom) {
				t.Fatalf("err = %v, want boom", err)
			}
			if tx.Committed {
				t.Error("transaction must roll back")
			}
		})
	}
}

func TestLinkTelegram_LockError(t *testing.T) {
	t.Parallel()

	boom := errors.New("db down")
	accounts := &accountRepoMock{
		LockByTelegramChatIDFunc: func(ctx context.Context, chatID string) (*domain.Account, error) {
			return nil, boom
		},
	}
	_, err := newTestService(accounts, &briefRepoMock{}, &txManagerMock{}).LinkTelegram(
		ctxutil.WithUserID(context.Background(), uuid.New()),
		LinkTelegramInput{TelegramChatID: "777"},
	)
	if !errors.Is(err, boom) {
		t.Errorf("err = %v", err)
	}
}

func TestLinkTelegram_Unauthorized(t *testing.T) {
	t.Parallel()

	_, err := newTestService(&accountRepoMock{}, &briefRepoMock{}, &txManagerMock{}).LinkTelegram(
		context.Background(), LinkTelegramInput{TelegramChatID: "777"},
	)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("err = %v", err)
	}
}

func TestLinkTelegramInput_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id    string
		valid bool
	}{
		{"777", true},
		{"-1001234567890", true},
		{" 42 ", true},
		{"", false},
		{"-", false},
		{"0", false},
		{"12a", false},
		{"+777", false},
		{"123456789012345678901", false},
	}
	for _, tt := range tests {
		err := LinkTelegramInput{TelegramChatID: tt.id}.Validate()
		if (err == nil) != tt.valid {
			t.Errorf("Validate(%q) = %v, want valid=%v", tt.id, err, tt.valid)
		}
		if err != nil && !errors.Is(err, domain.ErrValidation) {
			t.Errorf("Validate(%q) should wrap ErrValidation", tt.id)
		}
	}
}

func TestGetAccount(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	accounts := &accountRepoMock{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
			return &domain.Account{ID: id}, nil
		},
	}
	svc := newTestService(accounts, &briefRepoMock{}, &txManagerMock{})

	acc, err := svc.GetAccount(ctxutil.WithUserID(context.Background(), userID))
	if err != nil || acc.ID != userID {
		t.Fatalf("GetAccount = %v, %v", acc, err)
	}
	if _, err := svc.GetAccount(context.Background()); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("anonymous err = %v", err)
	}
}

func TestLinkTelegram_WritesAuditRecord(t *testing.T) {
	t.Parallel()

	userID, placeholderID := uuid.New(), uuid.New()
	accounts := &accountRepoMock{
		LockByTelegramChatIDFunc: func(ctx context.Context, chatID string) (*domain.Account, error) {
			return &domain.Account{ID: placeholderID, TelegramChatID: &chatID}, nil
		},
		DeleteFunc:            func(ctx context.Context, id uuid.UUID) error { return nil },
		SetTelegramChatIDFunc: setEchoes(),
	}
	briefs := &briefRepoMock{
		ReassignOwnerFunc: func(ctx context.Context, from, to uuid.UUID) (int64, error) { return 2, nil },
	}
	audit := &auditLoggerMock{}
	svc := NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), accounts, briefs, audit, &txManagerMock{})

	if _, err := svc.LinkTelegram(ctxutil.WithUserID(context.Background(), userID), LinkTelegramInput{TelegramChatID: "777"}); err != nil {
		t.Fatalf("LinkTelegram: %v", err)
	}

	if len(audit.records) != 1 {
		t.Fatalf("audit records = %d, want 1", len(audit.records))
	}
	rec := audit.records[0]
	if rec.UserID != userID || rec.Action != domain.AuditActionTelegramLinked {
		t.Errorf("record = %+v", rec)
	}
	if rec.EntityID == nil || *rec.EntityID != placeholderID {
		t.Errorf("EntityID = %v, want placeholder %s", rec.EntityID, placeholderID)
	}
	if rec.Changes["telegram_chat_id"] != "777" || rec.Changes["moved_briefs"] != int64(2) {
		t.Errorf("Changes = %v", rec.Changes)
	}
}

func TestLinkTelegram_AuditFailureRollsBack(t *testing.T) {
	t.Parallel()

	boom := errors.New("audit insert failed")
	accounts := &accountRepoMock{
		LockByTelegramChatIDFunc: func(ctx context.Context, chatID string) (*domain.Account, error) {
			return nil, domain.ErrNotFound
		},
		SetTelegramChatIDFunc: setEchoes(),
	}
	audit := &auditLoggerMock{
		LogFunc: func(ctx context.Context, record domain.AuditRecord) error { return boom },
	}
	tx := &txManagerMock{}
	svc := NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), accounts, &briefRepoMock{}, audit, tx)

	_, err := svc.LinkTelegram(ctxutil.WithUserID(context.Background(), uuid.New()), LinkTelegramInput{TelegramChatID: "777"})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want audit error", err)
	}
	if tx.Committed {
		t.Error("transaction must roll back")
	}
	if _, ok := audit.records[0].Changes["moved_briefs"]; ok {
		t.Error("moved_briefs is only recorded for merges")
	}
}
