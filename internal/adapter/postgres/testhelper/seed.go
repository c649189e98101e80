package testhelper

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/exegesis-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// UniqueChatID returns a numeric chat id string that does not collide with
// other tests sharing the container.
func UniqueChatID() string {
	return strconv.FormatInt(time.Now().UnixNano()%1_000_000_000_000+int64(uuid.New().ID()), 10)
}

// SeedAccount creates a registered web account with an email and no chat id.
func SeedAccount(t *testing.T, pool *pgxpool.Pool) domain.Account {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	name := "Test User " + suffix
	email := "testuser-" + suffix + "@example.com"
	acc := domain.Account{
		ID:        uuid.New(),
		Name:      &name,
		Email:     &email,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO users (id, name, email, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		acc.ID, acc.Name, acc.Email, acc.CreatedAt, acc.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedAccount: %v", err)
	}

	return acc
}

// SeedPlaceholder creates an email-less account owning chatID.
func SeedPlaceholder(t *testing.T, pool *pgxpool.Pool, chatID string) domain.Account {
	t.Helper()

	acc := domain.NewPlaceholderAccount(chatID, "Listener "+uniqueSuffix(), time.Now().UTC().Truncate(time.Microsecond))

	_, err := pool.Exec(context.Background(),
		`INSERT INTO users (id, name, telegram_chat_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		acc.ID, acc.Name, acc.TelegramChatID, acc.CreatedAt, acc.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedPlaceholder: %v", err)
	}

	return *acc
}

// SeedBrief creates a completed brief owned by userID.
func SeedBrief(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, title string) domain.Brief {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	b := domain.Brief{
		ID:                 uuid.New(),
		UserID:             userID,
		Title:              title,
		Category:           domain.CategoryTopical,
		Transcript:         "In the beginning was the Word",
		LinguisticInsights: []domain.LinguisticInsight{},
		OutlinePoints:      []domain.OutlinePoint{},
		Status:             domain.BriefStatusCompleted,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO briefs (id, user_id, title, category, transcript, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		b.ID, b.UserID, b.Title, string(b.Category), b.Transcript, string(b.Status), b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedBrief: %v", err)
	}

	return b
}
