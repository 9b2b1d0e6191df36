package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	jwtmw "stockwatch/internal/platform/jwt"
)

var (
	tokenSubject string
	tokenTTL     time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token that allows ?refresh=true on the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if cfg.JWTSecret == "" {
			return errors.New("JWT_SECRET is not set; forced refreshes are open to everyone")
		}
		token, err := jwtmw.NewGenerator(cfg.JWTSecret, tokenTTL).GenerateToken(tokenSubject, jwtmw.ScopeRefresh)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "operator", "token subject")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")
}
