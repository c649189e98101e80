package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if strings.TrimSpace(c.Telegram.BotToken) == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.Timeout <= 0 {
		return fmt.Errorf("telegram.timeout must be > 0 (got %v)", c.Telegram.Timeout)
	}

	// Transcription always goes through OpenAI.
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("openai.api_key is required for transcription")
	}

	if err := c.validateGenerator(); err != nil {
		return fmt.Errorf("generator: %w", err)
	}

	if err := c.Bot.validate(); err != nil {
		return fmt.Errorf("bot: %w", err)
	}

	u, err := url.Parse(c.App.PublicURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("app.public_url must be an absolute URL (got %q)", c.App.PublicURL)
	}

	return nil
}

func (c *Config) validateGenerator() error {
	switch strings.ToLower(c.Generator.Provider) {
	case ProviderOpenAI:
		return nil
	case ProviderAnthropic:
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("anthropic.api_key is required when provider is %q", ProviderAnthropic)
		}
		if c.Anthropic.MaxTokens <= 0 {
			return fmt.Errorf("anthropic.max_tokens must be > 0 (got %d)", c.Anthropic.MaxTokens)
		}
		return nil
	default:
		return fmt.Errorf("unknown provider %q (want %q or %q)", c.Generator.Provider, ProviderOpenAI, ProviderAnthropic)
	}
}

func (b *BotConfig) validate() error {
	if b.MinTranscriptLength < 1 {
		return fmt.Errorf("min_transcript_length must be >= 1 (got %d)", b.MinTranscriptLength)
	}
	if b.StageTimeout <= 0 {
		return fmt.Errorf("stage_timeout must be > 0 (got %v)", b.StageTimeout)
	}
	if b.PersistTimeout <= 0 {
		return fmt.Errorf("persist_timeout must be > 0 (got %v)", b.PersistTimeout)
	}
	return nil
}

// PublicBriefURL builds the web app link for a brief.
func (a AppConfig) PublicBriefURL(id string) string {
	return strings.TrimRight(a.PublicURL, "/") + "/briefs/" + id
}
