package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
)

// Builder returns a squirrel statement builder using $n placeholders.
func Builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

// Get runs query and scans exactly one row into dst. A missing row is
// reported as pgx.ErrNoRows so MapError can translate it.
func Get(ctx context.Context, q Querier, dst any, query sq.Sqlizer) error {
	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Get(ctx, q, dst, sql, args...); err != nil {
		if pgxscan.NotFound(err) && !errors.Is(err, pgx.ErrNoRows) {
			return pgx.ErrNoRows
		}
		return err
	}
	return nil
}

// Select runs query and scans all rows into dst, which must point to a slice.
func Select(ctx context.Context, q Querier, dst any, query sq.Sqlizer) error {
	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	return pgxscan.Select(ctx, q, dst, sql, args...)
}

// Exec runs query and returns the number of affected rows.
func Exec(ctx context.Context, q Querier, query sq.Sqlizer) (int64, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
