// Package openai adapts the OpenAI API for voice note transcription and
// brief generation.
package openai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/heartmarshall/exegesis-backend/internal/config"
	"github.com/heartmarshall/exegesis-backend/internal/generation"
)

const defaultAudioName = "voice.ogg"

// NewClient builds a go-openai client from config. An empty BaseURL keeps
// the library default.
func NewClient(cfg config.OpenAIConfig) *goopenai.Client {
	c := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		c.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	return goopenai.NewClientWithConfig(c)
}

// ---------------------------------------------------------------------------
// Transcriber
// ---------------------------------------------------------------------------

// Transcriber turns audio into text with a Whisper model.
type Transcriber struct {
	client *goopenai.Client
	model  string
	log    *slog.Logger
}

// NewTranscriber creates a Transcriber.
func NewTranscriber(client *goopenai.Client, model string, logger *slog.Logger) *Transcriber {
	return &Transcriber{
		client: client,
		model:  model,
		log:    logger.With("adapter", "openai", "op", "transcribe"),
	}
}

// Transcribe sends audio for transcription. filename is a hint for the
// audio container format (its extension matters to the API).
func (t *Transcriber) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	if len(audio) == 0 {
		return "", errors.New("openai: transcribe: empty audio")
	}

	resp, err := t.client.CreateTranscription(ctx, goopenai.AudioRequest{
		Model:    t.model,
		Reader:   bytes.NewReader(audio),
		FilePath: audioName(filename),
		Format:   goopenai.AudioResponseFormatJSON,
	})
	if err != nil {
		return "", fmt.Errorf("openai: transcribe: %w", err)
	}

	t.log.DebugContext(ctx, "transcription done",
		slog.Int("audio_bytes", len(audio)),
		slog.Int("text_len", len(resp.Text)),
	)
	return resp.Text, nil
}

// audioName normalises a filename hint. Telegram stores voice notes as
// .oga, which the API only accepts as .ogg.
func audioName(filename string) string {
	name := path.Base(strings.TrimSpace(filename))
	if name == "" || name == "." || name == "/" {
		return defaultAudioName
	}
	if strings.HasSuffix(strings.ToLower(name), ".oga") {
		return strings.TrimSuffix(name, name[len(name)-4:]) + ".ogg"
	}
	if path.Ext(name) == "" {
		return name + ".ogg"
	}
	return name
}

// ---------------------------------------------------------------------------
// Generator
// ---------------------------------------------------------------------------

// Generator produces briefs with a chat model in JSON mode.
type Generator struct {
	client *goopenai.Client
	model  string
	log    *slog.Logger
}

// NewGenerator creates a Generator.
func NewGenerator(client *goopenai.Client, model string, logger *slog.Logger) *Generator {
	return &Generator{
		client: client,
		model:  model,
		log:    logger.With("adapter", "openai", "op", "generate"),
	}
}

// Generate asks the model for a brief and parses the reply.
func (g *Generator) Generate(ctx context.Context, transcript string) (*generation.Result, error) {
	resp, err := g.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: g.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: generation.SystemPrompt},
			{Role: goopenai.ChatMessageRoleUser, Content: generation.UserPrompt(transcript)},
		},
		ResponseFormat: &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.4,
	})
	if err != nil {
		return nil, fmt.Errorf("openai: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai: chat completion: no choices")
	}

	g.log.DebugContext(ctx, "generation done",
		slog.String("model", resp.Model),
		slog.Int("completion_tokens", resp.Usage.CompletionTokens),
		slog.String("finish_reason", string(resp.Choices[0].FinishReason)),
	)

	return generation.ParseBrief(resp.Choices[0].Message.Content)
}
