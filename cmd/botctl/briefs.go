package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/exegesis-backend/internal/adapter/postgres/brief"
	"github.com/heartmarshall/exegesis-backend/internal/domain"
)

func (c *cli) briefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "briefs",
		Short: "Inspect stored briefs",
	}
	cmd.AddCommand(c.briefsListCmd())
	return cmd
}

func (c *cli) briefsListCmd() *cobra.Command {
	var (
		chatID string
		limit  int
		offset int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List briefs owned by the account linked to a Telegram chat",
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

			items, total, err := brief.New(pool).List(cmd.Context(), domain.BriefFilter{
				TelegramChatID: &chatID,
				Limit:          limit,
				Offset:         offset,
			})
			if err != nil {
				return err
			}
			return printBriefs(cmd.OutOrStdout(), items, total)
		},
	}
	cmd.Flags().StringVar(&chatID, "chat-id", "", "Telegram chat id")
	cmd.Flags().IntVar(&limit, "limit", 20, "page size (max 100)")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of briefs to skip")
	_ = cmd.MarkFlagRequired("chat-id")
	return cmd
}

func printBriefs(w io.Writer, items []*domain.Brief, total int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tCATEGORY\tSTATUS\tTITLE")
	for _, b := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			b.ID,
			b.CreatedAt.UTC().Format("2006-01-02 15:04"),
			b.Category,
			b.Status,
			truncate(b.Title, 60),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d of %d\n", len(items), total)
	return err
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}
