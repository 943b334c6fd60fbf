package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/store/pkg/tokens"
)

func tokenCmd() *cobra.Command {
	var (
		role    string
		subject string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an access token signed with JWT_SECRET",
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := []byte(os.Getenv("JWT_SECRET"))
			if len(secret) == 0 {
				return errors.New("JWT_SECRET is empty")
			}
			tok, err := tokens.NewAccessToken(role, subject, time.Now().Add(ttl), secret)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), tok)
			return err
		},
	}
	cmd.Flags().StringVar(&role, "role", tokens.RoleAdmin, "role claim")
	cmd.Flags().StringVar(&subject, "subject", "cli", "subject claim")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	return cmd
}
