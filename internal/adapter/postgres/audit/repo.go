// Package audit implements the append-only audit log using PostgreSQL.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/exegesis-backend/internal/adapter/postgres"
	"github.com/heartmarshall/exegesis-backend/internal/domain"
)

const (
	table    = "audit_log"
	maxLimit = 200
)

var columns = []string{"id", "user_id", "action", "entity_id", "changes", "created_at"}

// Repo provides audit log persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new audit repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type recordRow struct {
	ID        uuid.UUID  `db:"id"`
	UserID    uuid.UUID  `db:"user_id"`
	Action    string     `db:"action"`
	EntityID  *uuid.UUID `db:"entity_id"`
	Changes   []byte     `db:"changes"`
	CreatedAt time.Time  `db:"created_at"`
}

func (r recordRow) toDomain() (domain.AuditRecord, error) {
	rec := domain.AuditRecord{
		ID:        r.ID,
		UserID:    r.UserID,
		Action:    domain.AuditAction(r.Action),
		EntityID:  r.EntityID,
		CreatedAt: r.CreatedAt,
	}
	if len(r.Changes) > 0 {
		if err := json.Unmarshal(r.Changes, &rec.Changes); err != nil {
			return domain.AuditRecord{}, fmt.Errorf("audit_record %s unmarshal changes: %w", r.ID, err)
		}
	}
	return rec, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Log appends record. It joins the transaction carried by ctx, if any.
func (r *Repo) Log(ctx context.Context, record domain.AuditRecord) error {
	changes := record.Changes
	if changes == nil {
		changes = map[string]any{}
	}
	changesJSON, err := json.Marshal(changes)
	if err != nil {
		return fmt.Errorf("audit_record marshal changes: %w", err)
	}

	query := postgres.Builder().
		Insert(table).
		Columns(columns...).
		Values(record.ID, record.UserID, string(record.Action), record.EntityID, changesJSON, record.CreatedAt)

	if _, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.db), query); err != nil {
		return postgres.MapError(err, "audit_record", record.ID)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// ListByUser returns records for userID, newest first.
func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.AuditRecord, error) {
	if limit <= 0 || limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}

	query := postgres.Builder().
		Select(columns...).
		From(table).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "id").
		Limit(uint64(limit)).
		Offset(uint64(offset))

	var rows []recordRow
	if err := postgres.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query); err != nil {
		return nil, fmt.Errorf("list audit_records by user: %w", err)
	}

	out := make([]domain.AuditRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}
