// Package brief implements brief persistence using PostgreSQL.
package brief

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/exegesis-backend/internal/adapter/postgres"
	"github.com/heartmarshall/exegesis-backend/internal/domain"
)

const table = "briefs"

var columns = []string{
	"id", "user_id", "title", "description", "category", "transcript",
	"linguistic_insights", "historical_context", "outline_points",
	"telegram_message_id", "telegram_chat_id", "status", "bookmarked",
	"created_at", "updated_at",
}

var (
	returning        = strings.Join(columns, ", ")
	qualifiedColumns = qualify("b", columns)
)

// Repo provides brief persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new brief repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type briefRow struct {
	ID                 uuid.UUID `db:"id"`
	UserID             uuid.UUID `db:"user_id"`
	Title              string    `db:"title"`
	Description        *string   `db:"description"`
	Category           string    `db:"category"`
	Transcript         string    `db:"transcript"`
	LinguisticInsights []byte    `db:"linguistic_insights"`
	HistoricalContext  string    `db:"historical_context"`
	OutlinePoints      []byte    `db:"outline_points"`
	TelegramMessageID  *int64    `db:"telegram_message_id"`
	TelegramChatID     *string   `db:"telegram_chat_id"`
	Status             string    `db:"status"`
	Bookmarked         bool      `db:"bookmarked"`
	CreatedAt          time.Time `db:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"`
}

func (r briefRow) toDomain() (*domain.Brief, error) {
	b := &domain.Brief{
		ID:                 r.ID,
		UserID:             r.UserID,
		Title:              r.Title,
		Description:        r.Description,
		Category:           domain.Category(r.Category),
		Transcript:         r.Transcript,
		LinguisticInsights: []domain.LinguisticInsight{},
		HistoricalContext:  r.HistoricalContext,
		OutlinePoints:      []domain.OutlinePoint{},
		TelegramMessageID:  r.TelegramMessageID,
		TelegramChatID:     r.TelegramChatID,
		Status:             domain.BriefStatus(r.Status),
		Bookmarked:         r.Bookmarked,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
	if len(r.LinguisticInsights) > 0 {
		if err := json.Unmarshal(r.LinguisticInsights, &b.LinguisticInsights); err != nil {
			return nil, fmt.Errorf("decode linguistic_insights of brief %s: %w", r.ID, err)
		}
	}
	if len(r.OutlinePoints) > 0 {
		if err := json.Unmarshal(r.OutlinePoints, &b.OutlinePoints); err != nil {
			return nil, fmt.Errorf("decode outline_points of brief %s: %w", r.ID, err)
		}
	}
	return b, nil
}

func (r *Repo) selectOne(ctx context.Context, query sq.Sqlizer, id uuid.UUID) (*domain.Brief, error) {
	var row briefRow
	if err := postgres.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query); err != nil {
		return nil, postgres.MapError(err, "brief", id)
	}
	return row.toDomain()
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a brief owned by userID.
// Returns domain.ErrNotFound if the brief does not exist or belongs to another account.
func (r *Repo) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Brief, error) {
	query := postgres.Builder().Select(columns...).From(table).
		Where(sq.Eq{"id": id, "user_id": userID})
	return r.selectOne(ctx, query, id)
}

// List returns one page of briefs matching f, newest first, and the total
// number of matches.
func (r *Repo) List(ctx context.Context, f domain.BriefFilter) ([]*domain.Brief, int, error) {
	page, count, err := buildListQuery(f)
	if err != nil {
		return nil, 0, err
	}

	q := postgres.QuerierFromCtx(ctx, r.db)

	var total int
	if err := postgres.Get(ctx, q, &total, count); err != nil {
		return nil, 0, fmt.Errorf("count briefs: %w", err)
	}
	if total == 0 {
		return []*domain.Brief{}, 0, nil
	}

	var rows []briefRow
	if err := postgres.Select(ctx, q, &rows, page); err != nil {
		return nil, 0, fmt.Errorf("list briefs: %w", err)
	}

	out := make([]*domain.Brief, 0, len(rows))
	for _, row := range rows {
		b, err := row.toDomain()
		if err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	return out, total, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts b and returns the stored brief.
func (r *Repo) Create(ctx context.Context, b *domain.Brief) (*domain.Brief, error) {
	insights, err := marshalList(b.LinguisticInsights)
	if err != nil {
		return nil, fmt.Errorf("encode linguistic_insights: %w", err)
	}
	outline, err := marshalList(b.OutlinePoints)
	if err != nil {
		return nil, fmt.Errorf("encode outline_points: %w", err)
	}

	query := postgres.Builder().
		Insert(table).
		Columns(columns...).
		Values(
			b.ID, b.UserID, b.Title, b.Description, string(b.Category), b.Transcript,
			insights, b.HistoricalContext, outline,
			b.TelegramMessageID, b.TelegramChatID, string(b.Status), b.Bookmarked,
			b.CreatedAt, b.UpdatedAt,
		).
		Suffix("RETURNING " + returning)

	return r.selectOne(ctx, query, b.ID)
}

// Update applies the non-nil fields of p to a brief owned by userID.
func (r *Repo) Update(ctx context.Context, userID, id uuid.UUID, p domain.BriefUpdateParams) (*domain.Brief, error) {
	if p.IsEmpty() {
		return r.GetByID(ctx, userID, id)
	}

	query := postgres.Builder().Update(table).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id, "user_id": userID}).
		Suffix("RETURNING " + returning)

	if p.Title != nil {
		query = query.Set("title", *p.Title)
	}
	if p.Description != nil {
		if *p.Description == "" {
			query = query.Set("description", nil)
		} else {
			query = query.Set("description", *p.Description)
		}
	}
	if p.Bookmarked != nil {
		query = query.Set("bookmarked", *p.Bookmarked)
	}
	if p.Status != nil {
		query = query.Set("status", string(*p.Status))
	}

	return r.selectOne(ctx, query, id)
}

// Delete removes a brief owned by userID.
func (r *Repo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	n, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.db),
		postgres.Builder().Delete(table).Where(sq.Eq{"id": id, "user_id": userID}))
	if err != nil {
		return postgres.MapError(err, "brief", id)
	}
	if n == 0 {
		return fmt.Errorf("brief %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ReassignOwner moves every brief of account from to account to and returns
// how many were moved.
func (r *Repo) ReassignOwner(ctx context.Context, from, to uuid.UUID) (int64, error) {
	query := postgres.Builder().Update(table).
		Set("user_id", to).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"user_id": from})

	n, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.db), query)
	if err != nil {
		return 0, postgres.MapError(err, "account", to)
	}
	return n, nil
}

// CountByOwner returns the number of briefs owned by userID.
func (r *Repo) CountByOwner(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	query := postgres.Builder().Select("count(*)").From(table).Where(sq.Eq{"user_id": userID})
	if err := postgres.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &n, query); err != nil {
		return 0, fmt.Errorf("count briefs of %s: %w", userID, err)
	}
	return n, nil
}

func marshalList[T any](items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	return json.Marshal(items)
}

func qualify(alias string, cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = alias + "." + c
	}
	return out
}
