package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/exegesis-backend/internal/adapter/postgres/brief"
	"github.com/heartmarshall/exegesis-backend/internal/adapter/postgres/user"
	"github.com/heartmarshall/exegesis-backend/internal/domain"
)

func (c *cli) accountCmd() *cobra.Command {
	var chatID string

	cmd := &cobra.Command{
		Use:   "account",
		Short: "Show the account linked to a Telegram chat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := strconv.ParseInt(chatID, 10, 64); err != nil {
				return fmt.Errorf("--chat-id must be a numeric Telegram id")
			}

			pool, err := c.openPool(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			acc, err := user.New(pool).GetByTelegramChatID(cmd.Context(), chatID)
			if errors.Is(err, domain.ErrNotFound) {
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "no account linked to chat %s\n", chatID)
				return err
			}
			if err != nil {
				return err
			}

			n, err := brief.New(pool).CountByOwner(cmd.Context(), acc.ID)
			if err != nil {
				return err
			}
			return printAccount(cmd.OutOrStdout(), acc, n)
		},
	}
	cmd.Flags().StringVar(&chatID, "chat-id", "", "Telegram chat id")
	_ = cmd.MarkFlagRequired("chat-id")
	return cmd
}

func printAccount(w io.Writer, acc *domain.Account, briefs int) error {
	kind := "linked"
	if acc.IsPlaceholder() {
		kind = "placeholder"
	}
	_, err := fmt.Fprintf(w, "id:      %s\nname:    %s\nemail:   %s\nkind:    %s\ncreated: %s\nbriefs:  %d\n",
		acc.ID,
		orDash(acc.Name),
		orDash(acc.Email),
		kind,
		acc.CreatedAt.UTC().Format("2006-01-02 15:04"),
		briefs,
	)
	return err
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}
