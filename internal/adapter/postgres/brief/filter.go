package brief

import (
	"errors"
	"strings"

	sq "github.com/Masterminds/squirrel"

	postgres "github.com/heartmarshall/exegesis-backend/internal/adapter/postgres"
	"github.com/heartmarshall/exegesis-backend/internal/domain"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

var errNoOwner = errors.New("brief filter: owner (user id or telegram chat id) is required")

// normalizeFilter applies defaults and clamps values.
func normalizeFilter(f domain.BriefFilter) domain.BriefFilter {
	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

// filterConditions translates f into WHERE predicates on alias b.
func filterConditions(f domain.BriefFilter) (sq.And, error) {
	var where sq.And

	switch {
	case f.UserID != nil:
		where = append(where, sq.Eq{"b.user_id": *f.UserID})
	case f.TelegramChatID != nil && *f.TelegramChatID != "":
		// Briefs are looked up through the owning account so that briefs
		// moved by reconciliation are still found by chat.
		where = append(where, sq.Expr("b.user_id IN (SELECT id FROM users WHERE telegram_chat_id = ?)", *f.TelegramChatID))
	default:
		return nil, errNoOwner
	}

	if f.Category != nil {
		where = append(where, sq.Eq{"b.category": string(*f.Category)})
	}
	if f.Status != nil {
		where = append(where, sq.Eq{"b.status": string(*f.Status)})
	}
	if f.Bookmarked != nil {
		where = append(where, sq.Eq{"b.bookmarked": *f.Bookmarked})
	}
	if f.Search != nil {
		if s := strings.TrimSpace(*f.Search); s != "" {
			pattern := "%" + escapeLike(s) + "%"
			where = append(where, sq.Or{
				sq.ILike{"b.title": pattern},
				sq.ILike{"b.transcript": pattern},
			})
		}
	}

	return where, nil
}

// buildListQuery returns the page query and the matching count query.
func buildListQuery(f domain.BriefFilter) (sq.SelectBuilder, sq.SelectBuilder, error) {
	f = normalizeFilter(f)

	where, err := filterConditions(f)
	if err != nil {
		return sq.SelectBuilder{}, sq.SelectBuilder{}, err
	}

	page := postgres.Builder().
		Select(qualifiedColumns...).
		From(table+" b").
		Where(where).
		OrderBy("b.created_at DESC", "b.id DESC").
		Limit(uint64(f.Limit)).
		Offset(uint64(f.Offset))

	count := postgres.Builder().
		Select("count(*)").
		From(table+" b").
		Where(where)

	return page, count, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
