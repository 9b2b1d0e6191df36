package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"stockwatch/internal/app/di"
	listingsdto "stockwatch/internal/feature/listings/transport/http/dto"
)

var (
	listingsQuery   string
	listingsRefresh bool
	moversLimit     int
)

var listingsCmd = &cobra.Command{
	Use:   "listings",
	Short: "Search company listings; fetches from the remote only when the cache is empty or --refresh is set",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, app *di.App, _ []string) error {
		ch := app.Listings.Sync(ctx, listingsQuery, listingsRefresh)
		return printOutcomes(cmd.OutOrStdout(), ch, listingsdto.FromListings, renderListings)
	}),
}

var moversCmd = &cobra.Command{
	Use:   "movers",
	Short: "Top gainers and losers from the local listings",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, app *di.App, _ []string) error {
		gainers, losers, err := app.Listings.Movers(ctx, moversLimit)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if jsonOut {
			return json.NewEncoder(w).Encode(listingsdto.MoversResponse{
				Gainers: listingsdto.FromListings(gainers),
				Losers:  listingsdto.FromListings(losers),
			})
		}
		fmt.Fprintln(w, "Top gainers")
		renderListings(w, listingsdto.FromListings(gainers))
		fmt.Fprintln(w, "\nTop losers")
		renderListings(w, listingsdto.FromListings(losers))
		return nil
	}),
}

func init() {
	listingsCmd.Flags().StringVarP(&listingsQuery, "query", "q", "", "case-insensitive match on name or symbol")
	listingsCmd.Flags().BoolVar(&listingsRefresh, "refresh", false, "always fetch from the remote")
	moversCmd.Flags().IntVarP(&moversLimit, "limit", "n", 0, "entries per list (default 10)")
}
