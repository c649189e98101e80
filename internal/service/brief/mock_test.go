package brief

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/exegesis-backend/internal/domain"
)

// briefRepoMock is a moq-style mock of briefRepo.
type briefRepoMock struct {
	GetByIDFunc func(ctx context.Context, userID, id uuid.UUID) (*domain.Brief, error)
	ListFunc    func(ctx context.Context, f domain.BriefFilter) ([]*domain.Brief, int, error)
	CreateFunc  func(ctx context.Context, b *domain.Brief) (*domain.Brief, error)
	UpdateFunc  func(ctx context.Context, userID, id uuid.UUID, p domain.BriefUpdateParams) (*domain.Brief, error)
	DeleteFunc  func(ctx context.Context, userID, id uuid.UUID) error

	mu    sync.Mutex
	calls struct {
		GetByID []struct{ UserID, ID uuid.UUID }
		List    []domain.BriefFilter
		Create  []*domain.Brief
		Update  []struct {
			UserID, ID uuid.UUID
			Params     domain.BriefUpdateParams
		}
		Delete []struct{ UserID, ID uuid.UUID }
	}
}

func (m *briefRepoMock) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Brief, error) {
	if m.GetByIDFunc == nil {
		panic("briefRepoMock.GetByIDFunc: method is nil but briefRepo.GetByID was just called")
	}
	m.mu.Lock()
	m.calls.GetByID = append(m.calls.GetByID, struct{ UserID, ID uuid.UUID }{userID, id})
	m.mu.Unlock()
	return m.GetByIDFunc(ctx, userID, id)
}

func (m *briefRepoMock) List(ctx context.Context, f domain.BriefFilter) ([]*domain.Brief, int, error) {
	if m.ListFunc == nil {
		panic("briefRepoMock.ListFunc: method is nil but briefRepo.List was just called")
	}
	m.mu.Lock()
	m.calls.List = append(m.calls.List, f)
	m.mu.Unlock()
	return m.ListFunc(ctx, f)
}

func (m *briefRepoMock) Create(ctx context.Context, b *domain.Brief) (*domain.Brief, error) {
	if m.CreateFunc == nil {
		panic("briefRepoMock.CreateFunc: method is nil but briefRepo.Create was just called")
	}
	m.mu.Lock()
	m.calls.Create = append(m.calls.Create, b)
	m.mu.Unlock()
	return m.CreateFunc(ctx, b)
}

func (m *briefRepoMock) Update(ctx context.Context, userID, id uuid.UUID, p domain.BriefUpdateParams) (*domain.Brief, error) {
	if m.UpdateFunc == nil {
		panic("briefRepoMock.UpdateFunc: method is nil but briefRepo.Update was just called")
	}
	m.mu.Lock()
	m.calls.Update = append(m.calls.Update, struct {
		UserID, ID uuid.UUID
		Params     domain.BriefUpdateParams
	}{userID, id, p})
	m.mu.Unlock()
	return m.UpdateFunc(ctx, userID, id, p)
}

func (m *briefRepoMock) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if m.DeleteFunc == nil {
		panic("briefRepoMock.DeleteFunc: method is nil but briefRepo.Delete was just called")
	}
	m.mu.Lock()
	m.calls.Delete = append(m.calls.Delete, struct{ UserID, ID uuid.UUID }{userID, id})
	m.mu.Unlock()
	return m.DeleteFunc(ctx, userID, id)
}
