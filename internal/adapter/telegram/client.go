// Package telegram adapts the Telegram Bot API to the bot: file lookup and
// download, replies and webhook management. Updates arrive through the
// webhook handler, so the library's polling loop is never started.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/heartmarshall/exegesis-backend/internal/config"
	"github.com/heartmarshall/exegesis-backend/pkg/ctxutil"
)

// ErrFileTooLarge is returned when a download exceeds the configured limit.
var ErrFileTooLarge = errors.New("telegram: file too large")

// AllowedUpdates are the update types registered with setWebhook.
var AllowedUpdates = []string{"message"}

const defaultMaxFileBytes = 20 << 20

// Client calls the Telegram Bot API.
type Client struct {
	api          *bot.Bot
	httpClient   *http.Client
	maxFileBytes int64
	log          *slog.Logger
}

// NewClient creates a Client from config. cfg.Timeout bounds every call.
func NewClient(cfg config.TelegramConfig, logger *slog.Logger) (*Client, error) {
	httpClient := &http.Client{Timeout: cfg.Timeout}

	opts := []bot.Option{
		bot.WithSkipGetMe(),
		bot.WithHTTPClient(cfg.Timeout, httpClient),
	}
	if base := strings.TrimRight(cfg.APIBaseURL, "/"); base != "" {
		opts = append(opts, bot.WithServerURL(base))
	}

	api, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		return nil, fmt.Errorf("telegram: create bot: %w", err)
	}

	maxBytes := cfg.MaxFileBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxFileBytes
	}

	return &Client{
		api:          api,
		httpClient:   httpClient,
		maxFileBytes: maxBytes,
		log:          logger.With("adapter", "telegram"),
	}, nil
}

// GetFile resolves a file id to a downloadable file.
func (c *Client) GetFile(ctx context.Context, fileID string) (*models.File, error) {
	f, err := c.api.GetFile(ctx, &bot.GetFileParams{FileID: fileID})
	if err != nil {
		return nil, callError("getFile", err)
	}
	if f.FilePath == "" {
		return nil, fmt.Errorf("telegram: getFile: empty file_path for %s", fileID)
	}
	c.logCall(ctx, "getFile")
	return f, nil
}

// DownloadFile fetches the bytes behind a file returned by GetFile.
func (c *Client) DownloadFile(ctx context.Context, f *models.File) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.api.FileDownloadLink(f), nil)
	if err != nil {
		return nil, fmt.Errorf("telegram: download: create request: %w", redact(err))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("telegram: download: %w", redact(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("telegram: download: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxFileBytes+1))
	if err != nil {
		return nil, fmt.Errorf("telegram: download: read body: %w", redact(err))
	}
	if int64(len(data)) > c.maxFileBytes {
		return nil, ErrFileTooLarge
	}

	c.log.DebugContext(ctx, "telegram file downloaded",
		append([]any{slog.Int("bytes", len(data))}, ctxutil.LogAttrs(ctx)...)...)
	return data, nil
}

// FetchFile resolves fileID and downloads it. It returns the bytes and the
// Telegram file path, whose extension hints at the audio format.
func (c *Client) FetchFile(ctx context.Context, fileID string) ([]byte, string, error) {
	f, err := c.GetFile(ctx, fileID)
	if err != nil {
		return nil, "", err
	}
	if int64(f.FileSize) > c.maxFileBytes {
		return nil, "", ErrFileTooLarge
	}
	data, err := c.DownloadFile(ctx, f)
	if err != nil {
		return nil, "", err
	}
	return data, f.FilePath, nil
}

// SendMessage posts an HTML-formatted text message to chatID. Link previews
// are off: replies link to the web app, not to content worth previewing.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	_, err := c.api.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:             chatID,
		Text:               text,
		ParseMode:          models.ParseModeHTML,
		LinkPreviewOptions: &models.LinkPreviewOptions{IsDisabled: bot.True()},
	})
	if err != nil {
		return callError("sendMessage", err)
	}
	c.logCall(ctx, "sendMessage")
	return nil
}

// SetWebhook points Telegram at webhookURL with the given secret token.
// Only AllowedUpdates are requested.
func (c *Client) SetWebhook(ctx context.Context, webhookURL, secret string) error {
	_, err := c.api.SetWebhook(ctx, &bot.SetWebhookParams{
		URL:            webhookURL,
		SecretToken:    secret,
		AllowedUpdates: AllowedUpdates,
	})
	if err != nil {
		return callError("setWebhook", err)
	}
	c.logCall(ctx, "setWebhook")
	return nil
}

// GetWebhookInfo returns the current webhook status.
func (c *Client) GetWebhookInfo(ctx context.Context) (*models.WebhookInfo, error) {
	info, err := c.api.GetWebhookInfo(ctx)
	if err != nil {
		return nil, callError("getWebhookInfo", err)
	}
	c.logCall(ctx, "getWebhookInfo")
	return info, nil
}

func (c *Client) logCall(ctx context.Context, method string) {
	c.log.DebugContext(ctx, "telegram call", append([]any{slog.String("method", method)}, ctxutil.LogAttrs(ctx)...)...)
}

func callError(method string, err error) error {
	return fmt.Errorf("telegram: %s: %w", method, redact(err))
}

// redact drops the request URL from transport errors; it embeds the bot token.
func redact(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return uerr.Err
	}
	return err
}
