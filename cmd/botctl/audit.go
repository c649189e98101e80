package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/heartmarshall/exegesis-backend/internal/adapter/postgres/audit"
	"github.com/heartmarshall/exegesis-backend/internal/domain"
)

func (c *cli) auditCmd() *cobra.Command {
	var (
		userID string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show the audit log of an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(userID)
			if err != nil {
				return fmt.Errorf("--user: %w", err)
			}

			pool, err := c.openPool(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			records, err := audit.New(pool).ListByUser(cmd.Context(), id, limit, 0)
			if err != nil {
				return err
			}
			return printAudit(cmd.OutOrStdout(), records)
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "account id")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum records to show")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func printAudit(w io.Writer, records []domain.AuditRecord) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tACTION\tENTITY\tCHANGES")
	for _, r := range records {
		entity := "-"
		if r.EntityID != nil {
			entity = r.EntityID.String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			r.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
			r.Action,
			entity,
			formatChanges(r.Changes),
		)
	}
	return tw.Flush()
}

func formatChanges(changes map[string]any) string {
	if len(changes) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(changes))
	for k := range changes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, changes[k]))
	}
	return strings.Join(parts, " ")
}
