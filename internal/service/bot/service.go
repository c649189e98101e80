// Package bot turns inbound messenger events into exegesis briefs: it
// classifies each event, runs the voice note pipeline and replies.
package bot

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/exegesis-backend/internal/domain"
	"github.com/heartmarshall/exegesis-backend/internal/generation"
)

type mediaFetcher interface {
	FetchFile(ctx context.Context, fileID string) ([]byte, string, error)
}

type replier interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

type transcriber interface {
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
}

type generator interface {
	Generate(ctx context.Context, transcript string) (*generation.Result, error)
}

type accountRepo interface {
	UpsertByTelegramChatID(ctx context.Context, acc *domain.Account) (*domain.Account, error)
}

type briefRepo interface {
	Create(ctx context.Context, b *domain.Brief) (*domain.Brief, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Options tunes the pipeline.
type Options struct {
	// MinTranscriptLength is the minimum number of runes a trimmed
	// transcript needs to be worth generating from.
	MinTranscriptLength int
	// StageTimeout bounds transcription and generation each.
	StageTimeout time.Duration
	// MessengerTimeout bounds each messenger call (download, reply).
	MessengerTimeout time.Duration
	// PersistTimeout bounds the database transaction.
	PersistTimeout time.Duration
	// BriefURL builds the web app link for a stored brief.
	BriefURL func(id uuid.UUID) string
}

// Service handles bot events.
type Service struct {
	media       mediaFetcher
	replies     replier
	transcriber transcriber
	generator   generator
	accounts    accountRepo
	briefs      briefRepo
	tx          txManager
	opts        Options
	now         func() time.Time
	log         *slog.Logger
}

// NewService creates a new bot Service.
func NewService(
	log *slog.Logger,
	media mediaFetcher,
	replies replier,
	transcriber transcriber,
	generator generator,
	accounts accountRepo,
	briefs briefRepo,
	tx txManager,
	opts Options,
) *Service {
	if opts.MinTranscriptLength < 1 {
		opts.MinTranscriptLength = 1
	}
	return &Service{
		media:       media,
		replies:     replies,
		transcriber: transcriber,
		generator:   generator,
		accounts:    accounts,
		briefs:      briefs,
		tx:          tx,
		opts:        opts,
		now:         time.Now,
		log:         log.With("service", "bot"),
	}
}
