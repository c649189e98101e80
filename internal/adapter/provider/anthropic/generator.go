// Package anthropic adapts the Anthropic Messages API for brief generation.
package anthropic

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/heartmarshall/exegesis-backend/internal/config"
	"github.com/heartmarshall/exegesis-backend/internal/generation"
)

// Generator produces briefs with a Claude model.
type Generator struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	log       *slog.Logger
}

// NewGenerator creates a Generator. SDK retries are disabled: the bot runs
// each stage once under its own deadline.
func NewGenerator(cfg config.AnthropicConfig, logger *slog.Logger) *Generator {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Generator{
		client:    anthropic.NewClient(opts...),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		log:       logger.With("adapter", "anthropic"),
	}
}

// Generate asks the model for a brief and parses the reply.
func (g *Generator) Generate(ctx context.Context, transcript string) (*generation.Result, error) {
	msg, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: g.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: generation.SystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(generation.UserPrompt(transcript))),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic: messages: %w", err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return nil, fmt.Errorf("anthropic: messages: empty response")
	}

	g.log.DebugContext(ctx, "generation done",
		slog.String("model", string(msg.Model)),
		slog.Int64("output_tokens", msg.Usage.OutputTokens),
		slog.String("stop_reason", string(msg.StopReason)),
	)

	return generation.ParseBrief(text.String())
}
