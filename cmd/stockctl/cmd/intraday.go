package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"stockwatch/internal/app/di"
	intradaydto "stockwatch/internal/feature/intraday/transport/http/dto"
	"stockwatch/internal/feature/intraday/usecase"
)

var intradayRefresh bool

var intradayCmd = &cobra.Command{
	Use:   "intraday SYMBOL",
	Short: "Intraday (60min) high/low series, oldest first",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, app *di.App, args []string) error {
		symbol, err := usecase.NormalizeSymbol(args[0])
		if err != nil {
			return err
		}
		ch := app.Intraday.Sync(ctx, symbol, intradayRefresh)
		return printOutcomes(cmd.OutOrStdout(), ch, intradaydto.FromIntraday, renderIntraday)
	}),
}

func init() {
	intradayCmd.Flags().BoolVar(&intradayRefresh, "refresh", false, "always fetch from the remote")
}
