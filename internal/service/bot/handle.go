package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/heartmarshall/exegesis-backend/internal/domain"
	"github.com/heartmarshall/exegesis-backend/internal/generation"
)

// Outcome is what HandleUpdate did with an event.
type Outcome string

const (
	OutcomeCommand      Outcome = "command"
	OutcomePrompted     Outcome = "prompted"
	OutcomeBriefCreated Outcome = "brief_created"
	OutcomeUnusable     Outcome = "unusable"
	OutcomeFailed       Outcome = "failed"
	OutcomeTimedOut     Outcome = "timed_out"
)

// Result reports the outcome of one event. Err holds the pipeline error for
// unusable, failed and timed out events.
type Result struct {
	Outcome Outcome
	BriefID uuid.UUID
	Err     error
}

// HandleUpdate processes one inbound event to completion, including the
// reply. Pipeline failures are answered and logged, not returned.
func (s *Service) HandleUpdate(ctx context.Context, ev domain.InboundEvent) Result {
	log := s.log.With(
		slog.Int64("update_id", ev.UpdateID),
		slog.Int64("chat_id", ev.ChatID),
		slog.Int64("message_id", ev.MessageID),
	)

	c := Classify(ev)
	log.DebugContext(ctx, "event classified", slog.String("kind", c.Kind.String()))

	switch c.Kind {
	case KindCommand:
		s.reply(ctx, log, ev.ChatID, CommandReply(c.Command, ev.ExternalID()))
		return Result{Outcome: OutcomeCommand}
	case KindVoice:
		return s.handleVoice(ctx, log, ev, c.Media)
	default:
		s.reply(ctx, log, ev.ChatID, replyPrompt)
		return Result{Outcome: OutcomePrompted}
	}
}

func (s *Service) handleVoice(ctx context.Context, log *slog.Logger, ev domain.InboundEvent, media *domain.MediaRef) Result {
	brief, err := s.runPipeline(ctx, log, ev, media)
	if err != nil {
		res := s.classifyFailure(ctx, log, err)
		s.reply(ctx, log, ev.ChatID, failureReply(res.Outcome))
		return res
	}

	log.InfoContext(ctx, "brief created",
		slog.String("brief_id", brief.ID.String()),
		slog.String("user_id", brief.UserID.String()),
		slog.String("category", brief.Category.String()),
	)

	url := ""
	if s.opts.BriefURL != nil {
		url = s.opts.BriefURL(brief.ID)
	}
	s.reply(ctx, log, ev.ChatID, successReply(brief.Title, url))

	return Result{Outcome: OutcomeBriefCreated, BriefID: brief.ID}
}

type download struct {
	data     []byte
	filename string
}

func (s *Service) runPipeline(ctx context.Context, log *slog.Logger, ev domain.InboundEvent, media *domain.MediaRef) (*domain.Brief, error) {
	audio, err := runStage(ctx, domain.StageDownload, s.opts.MessengerTimeout, func(ctx context.Context) (download, error) {
		data, filePath, err := s.media.FetchFile(ctx, media.FileID)
		if err != nil {
			return download{}, err
		}
		name := media.FileName
		if name == "" {
			name = path.Base(filePath)
		}
		return download{data: data, filename: name}, nil
	})
	if err != nil {
		return nil, err
	}
	log.DebugContext(ctx, "audio downloaded", slog.Int("bytes", len(audio.data)), slog.String("filename", audio.filename))

	transcript, err := runStage(ctx, domain.StageTranscribe, s.opts.StageTimeout, func(ctx context.Context) (string, error) {
		text, err := s.transcriber.Transcribe(ctx, audio.data, audio.filename)
		if err != nil {
			return "", err
		}
		text = strings.TrimSpace(text)
		if n := utf8.RuneCountInString(text); n < s.opts.MinTranscriptLength {
			return "", fmt.Errorf("%w: %d runes, need %d", domain.ErrUnusableTranscript, n, s.opts.MinTranscriptLength)
		}
		return text, nil
	})
	if err != nil {
		return nil, err
	}
	log.DebugContext(ctx, "audio transcribed", slog.Int("runes", utf8.RuneCountInString(transcript)))

	generated, err := runStage(ctx, domain.StageGenerate, s.opts.StageTimeout, func(ctx context.Context) (*generation.Result, error) {
		return s.generator.Generate(ctx, transcript)
	})
	if err != nil {
		return nil, err
	}

	return runStage(ctx, domain.StagePersist, s.opts.PersistTimeout, func(ctx context.Context) (*domain.Brief, error) {
		return s.persist(ctx, ev, transcript, generated)
	})
}

// persist finds or creates the sender's account and stores the brief in one
// transaction.
func (s *Service) persist(ctx context.Context, ev domain.InboundEvent, transcript string, g *generation.Result) (*domain.Brief, error) {
	now := s.now().UTC()
	var created *domain.Brief

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		acc, err := s.accounts.UpsertByTelegramChatID(ctx, domain.NewPlaceholderAccount(ev.ExternalID(), ev.SenderName, now))
		if err != nil {
			return fmt.Errorf("upsert account: %w", err)
		}

		msgID := ev.MessageID
		chatID := ev.ChatIDString()
		b := &domain.Brief{
			ID:                 uuid.New(),
			UserID:             acc.ID,
			Title:              g.Title,
			Category:           domain.CoerceCategory(string(g.Category)),
			Transcript:         transcript,
			LinguisticInsights: g.LinguisticInsights,
			HistoricalContext:  g.HistoricalContext,
			OutlinePoints:      g.OutlinePoints,
			TelegramMessageID:  &msgID,
			TelegramChatID:     &chatID,
			Status:             domain.BriefStatusCompleted,
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		if g.Description != "" {
			desc := g.Description
			b.Description = &desc
		}

		created, err = s.briefs.Create(ctx, b)
		if err != nil {
			return fmt.Errorf("create brief: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Service) classifyFailure(ctx context.Context, log *slog.Logger, err error) Result {
	stage, _ := domain.StageOf(err)
	attrs := []any{slog.String("stage", stage.String()), slog.String("error", err.Error())}

	switch {
	case errors.Is(err, domain.ErrUnusableTranscript):
		log.InfoContext(ctx, "transcript unusable", attrs...)
		return Result{Outcome: OutcomeUnusable, Err: err}
	case errors.Is(err, domain.ErrStageTimeout):
		log.WarnContext(ctx, "pipeline stage timed out", attrs...)
		return Result{Outcome: OutcomeTimedOut, Err: err}
	default:
		log.ErrorContext(ctx, "pipeline stage failed", attrs...)
		return Result{Outcome: OutcomeFailed, Err: err}
	}
}

func failureReply(o Outcome) string {
	switch o {
	case OutcomeUnusable:
		return replyUnusable
	case OutcomeTimedOut:
		return replyTimeout
	default:
		return replyFailure
	}
}

// reply sends text to chatID. Failures are logged only: by the time a reply
// is sent any brief is already committed.
func (s *Service) reply(ctx context.Context, log *slog.Logger, chatID int64, text string) {
	_, err := runStage(ctx, domain.StageReply, s.opts.MessengerTimeout, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.replies.SendMessage(ctx, chatID, text)
	})
	if err != nil {
		log.ErrorContext(ctx, "reply failed", slog.String("error", err.Error()))
	}
}
