package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/heartmarshall/exegesis-backend/internal/auth"
)

func (c *cli) tokenCmd() *cobra.Command {
	var (
		userID string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an access token for an account (local testing)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(userID)
			if err != nil {
				return fmt.Errorf("--user: %w", err)
			}
			if ttl <= 0 {
				ttl = c.cfg.Auth.AccessTokenTTL
			}

			jwt := auth.NewJWTManager(c.cfg.Auth.JWTSecret, c.cfg.Auth.JWTIssuer, c.cfg.Auth.AccessTokenTTL)
			token, err := jwt.GenerateAccessTokenTTL(id, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "account id")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default auth.access_token_ttl)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
