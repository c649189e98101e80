package main

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/go-telegram/bot/models"
	"github.com/spf13/cobra"

	"github.com/heartmarshall/exegesis-backend/internal/adapter/telegram"
	"github.com/heartmarshall/exegesis-backend/internal/transport/rest"
)

func (c *cli) setWebhookCmd() *cobra.Command {
	var rawURL string

	cmd := &cobra.Command{
		Use:   "set-webhook",
		Short: "Register the webhook URL and secret token with Telegram",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			hookURL, err := webhookURL(rawURL)
			if err != nil {
				return err
			}

			tg, err := telegram.NewClient(c.cfg.Telegram, c.logger)
			if err != nil {
				return err
			}
			if err := tg.SetWebhook(cmd.Context(), hookURL, c.cfg.Telegram.WebhookSecret); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "webhook set to %s\n", hookURL)
			if c.cfg.Telegram.WebhookSecret == "" {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning: telegram.webhook_secret is empty; updates are not authenticated")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&rawURL, "url", "", "public HTTPS base URL or full webhook URL")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}

// webhookURL accepts either a bare base URL or a full webhook URL and
// returns the full URL. Telegram only delivers to HTTPS endpoints.
func webhookURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	if u.Scheme != "https" || u.Host == "" {
		return "", errors.New("url must be an absolute https URL")
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = rest.DefaultWebhookPath
	}
	return u.String(), nil
}

func (c *cli) webhookInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "webhook-info",
		Short: "Show the webhook status reported by Telegram",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tg, err := telegram.NewClient(c.cfg.Telegram, c.logger)
			if err != nil {
				return err
			}
			info, err := tg.GetWebhookInfo(cmd.Context())
			if err != nil {
				return err
			}
			printWebhookInfo(cmd.OutOrStdout(), info)
			return nil
		},
	}
}

func printWebhookInfo(w io.Writer, info *models.WebhookInfo) {
	target := info.URL
	if target == "" {
		target = "(not set)"
	}
	fmt.Fprintf(w, "URL:             %s\n", target)
	fmt.Fprintf(w, "Pending updates: %d\n", info.PendingUpdateCount)
	if len(info.AllowedUpdates) > 0 {
		fmt.Fprintf(w, "Allowed updates: %s\n", strings.Join(info.AllowedUpdates, ", "))
	}
	if info.MaxConnections > 0 {
		fmt.Fprintf(w, "Max connections: %d\n", info.MaxConnections)
	}
	if info.LastErrorDate != 0 {
		fmt.Fprintf(w, "Last error:      %s (%s)\n",
			info.LastErrorMessage,
			time.Unix(int64(info.LastErrorDate), 0).UTC().Format(time.RFC3339),
		)
	}
}
