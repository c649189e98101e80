package main

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/heartmarshall/exegesis-backend/internal/config"
)

const redacted = "[redacted]"

func (c *cli) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration with secrets redacted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := yaml.Marshal(redact(*c.cfg))
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

// redact returns a copy of cfg safe to print.
func redact(cfg config.Config) config.Config {
	mask := func(s *string) {
		if *s != "" {
			*s = redacted
		}
	}
	mask(&cfg.Auth.JWTSecret)
	mask(&cfg.Telegram.BotToken)
	mask(&cfg.Telegram.WebhookSecret)
	mask(&cfg.OpenAI.APIKey)
	mask(&cfg.Anthropic.APIKey)
	cfg.Database.DSN = redactDSN(cfg.Database.DSN)
	return cfg
}

// redactDSN hides the password of a URL-form DSN. Keyword/value DSNs are
// masked entirely.
func redactDSN(dsn string) string {
	if dsn == "" {
		return ""
	}
	u, err := url.Parse(dsn)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return redacted
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	q := u.Query()
	if q.Has("password") {
		q.Set("password", "xxxxx")
		u.RawQuery = q.Encode()
	}
	return u.String()
}
