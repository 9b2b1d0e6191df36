package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"stockwatch/internal/app/di"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the Redis cache of remote payloads",
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Drop every cached remote payload so the next refresh reaches the API",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, app *di.App, _ []string) error {
		if app.Redis == nil {
			cmd.Println("redis is not configured; nothing to purge")
			return nil
		}
		if err := app.Remote.Purge(ctx); err != nil {
			return err
		}
		cmd.Println("remote cache purged")
		return nil
	}),
}

func init() {
	cacheCmd.AddCommand(cachePurgeCmd)
}
