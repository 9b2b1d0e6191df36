// Package cmd は stockctl のサブコマンドを定義します。
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"stockwatch/internal/app/di"
	"stockwatch/internal/platform/config"
	"stockwatch/internal/platform/logging"
)

var (
	// 共通フラグ
	envFile string
	verbose bool
	jsonOut bool

	cfg *config.Config
)

// rootCmd はルートコマンドです。
var rootCmd = &cobra.Command{
	Use:   "stockctl",
	Short: "Browse stock listings, company overviews and intraday series",
	Long: `stockctl syncs data from the remote quote API into the local cache database
and prints what it finds. Cached data is printed first, then refreshed data.

Commands:
    listings    search company listings (local first)
    movers      top gainers and losers from the local listings
    company     company overview for a symbol
    intraday    intraday series for a symbol
    search      interactive debounced search reading queries from stdin
    token       issue a bearer token for forced refreshes
    cache       manage the remote payload cache
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute はルートコマンドを実行します。
// Ctrl-C で実行中の同期を取り消します。
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "print outcomes as NDJSON frames")

	rootCmd.AddCommand(listingsCmd, moversCmd, companyCmd, intradayCmd, searchCmd, tokenCmd, cacheCmd)
}

// initConfig は .env と環境変数から設定を読み込み、ロガーを設定します。
func initConfig() error {
	// .env が無くても環境変数で設定できる
	_ = godotenv.Load(envFile)

	c, err := config.Load()
	if err != nil {
		return err
	}
	cfg = c

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	logging.Setup(level, cfg.LogFormat)
	return nil
}

// withApp は App を組み立てて fn を実行し、終了時に閉じます。
func withApp(fn func(ctx context.Context, cmd *cobra.Command, app *di.App, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := di.NewApp(ctx, cfg)
		if err != nil {
			return fmt.Errorf("initialize app: %w", err)
		}
		defer func() { _ = app.Close() }()
		return fn(ctx, cmd, app, args)
	}
}
