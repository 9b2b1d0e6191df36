package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"stockwatch/internal/app/di"
	companydto "stockwatch/internal/feature/companyinfo/transport/http/dto"
	"stockwatch/internal/feature/companyinfo/usecase"
)

var companyCmd = &cobra.Command{
	Use:   "company SYMBOL",
	Short: "Company overview; fetched once and then served from the cache",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, app *di.App, args []string) error {
		symbol, err := usecase.NormalizeSymbol(args[0])
		if err != nil {
			return err
		}
		ch := app.Companies.Sync(ctx, symbol)
		return printOutcomes(cmd.OutOrStdout(), ch, companydto.FromCompanyInfo, renderCompany)
	}),
}
