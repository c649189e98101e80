package account

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/exegesis-backend/internal/domain"
)

type accountRepoMock struct {
	GetByIDFunc              func(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	LockByTelegramChatIDFunc func(ctx context.Context, chatID string) (*domain.Account, error)
	SetTelegramChatIDFunc    func(ctx context.Context, id uuid.UUID, chatID *string) (*domain.Account, error)
	DeleteFunc               func(ctx context.Context, id uuid.UUID) error

	mu    sync.Mutex
	calls struct {
		Lock   []string
		Set    []uuid.UUID
		Delete []uuid.UUID
	}
}

func (m *accountRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	if m.GetByIDFunc == nil {
		panic("accountRepoMock.GetByIDFunc: method is nil but accountRepo.GetByID was just called")
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *accountRepoMock) LockByTelegramChatID(ctx context.Context, chatID string) (*domain.Account, error) {
	if m.LockByTelegramChatIDFunc == nil {
		panic("accountRepoMock.LockByTelegramChatIDFunc: method is nil but accountRepo.LockByTelegramChatID was just called")
	}
	m.mu.Lock()
	m.calls.Lock = append(m.calls.Lock, chatID)
	m.mu.Unlock()
	return m.LockByTelegramChatIDFunc(ctx, chatID)
}

func (m *accountRepoMock) SetTelegramChatID(ctx context.Context, id uuid.UUID, chatID *string) (*domain.Account, error) {
	if m.SetTelegramChatIDFunc == nil {
		panic("accountRepoMock.SetTelegramChatIDFunc: method is nil but accountRepo.SetTelegramChatID was just called")
	}
	m.mu.Lock()
	m.calls.Set = append(m.calls.Set, id)
	m.mu.Unlock()
	return m.SetTelegramChatIDFunc(ctx, id, chatID)
}

func (m *accountRepoMock) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc == nil {
		panic("accountRepoMock.DeleteFunc: method is nil but accountRepo.Delete was just called")
	}
	m.mu.Lock()
	m.calls.Delete = append(m.calls.Delete, id)
	m.mu.Unlock()
	return m.DeleteFunc(ctx, id)
}

type briefRepoMock struct {
	ReassignOwnerFunc func(ctx context.Context, from, to uuid.UUID) (int64, error)

	mu    sync.Mutex
	calls []struct{ From, To uuid.UUID }
}

func (m *briefRepoMock) ReassignOwner(ctx context.Context, from, to uuid.UUID) (int64, error) {
	if m.ReassignOwnerFunc == nil {
		panic("briefRepoMock.ReassignOwnerFunc: method is nil but briefRepo.ReassignOwner was just called")
	}
	m.mu.Lock()
	m.calls = append(m.calls, struct{ From, To uuid.UUID }{from, to})
	m.mu.Unlock()
	return m.ReassignOwnerFunc(ctx, from, to)
}

type auditLoggerMock struct {
	LogFunc func(ctx context.Context, record domain.AuditRecord) error

	mu      sync.Mutex
	records []domain.AuditRecord
}

func (m *auditLoggerMock) Log(ctx context.Context, record domain.AuditRecord) error {
	m.mu.Lock()
	m.records = append(m.records, record)
	m.mu.Unlock()
	if m.LogFunc == nil {
		return nil
	}
	return m.LogFunc(ctx, record)
}

// txManagerMock runs fn inline and records whether it committed.
type txManagerMock struct {
	Committed bool
}

func (m *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	err := fn(ctx)
	m.Committed = err == nil
	return err
}
