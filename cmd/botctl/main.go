// Command botctl is the operator CLI: webhook registration, migrations,
// brief lookups by Telegram chat, the account audit log, development tokens
// and config inspection.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/heartmarshall/exegesis-backend/internal/adapter/postgres"
	"github.com/heartmarshall/exegesis-backend/internal/app"
	"github.com/heartmarshall/exegesis-backend/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// cli holds state shared by subcommands once the root pre-run has loaded
// configuration.
type cli struct {
	configPath string
	cfg        *config.Config
	logger     *slog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:          "botctl",
		Short:        "Operate the exegesis Telegram bot",
		Version:      app.BuildVersion(),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFrom(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			c.logger = app.NewLogger(cfg.Log, "botctl")
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", os.Getenv(config.PathEnv), "path to config file")

	root.AddCommand(
		c.setWebhookCmd(),
		c.webhookInfoCmd(),
		c.migrateCmd(),
		c.briefsCmd(),
		c.accountCmd(),
		c.auditCmd(),
		c.tokenCmd(),
		c.configCmd(),
	)
	return root
}

func (c *cli) openPool(ctx context.Context) (*pgxpool.Pool, error) {
	pool, err := postgres.NewPool(ctx, c.cfg.Database, c.logger)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return pool, nil
}

func (c *cli) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := c.openPool(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := postgres.Migrate(cmd.Context(), pool, c.logger); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}
