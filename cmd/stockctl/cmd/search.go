package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"stockwatch/internal/app/di"
	listingsdto "stockwatch/internal/feature/listings/transport/http/dto"
	"stockwatch/internal/feature/listings/screen"
)

// refreshCommand は search の入力で強制更新を意味する行です。
const refreshCommand = "!refresh"

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Interactive search: each stdin line replaces the query, \"!refresh\" forces a remote fetch",
	Long: `search keeps one listings screen open. Every line read from stdin becomes the
new search query; the search runs once typing settles (SEARCH_DEBOUNCE).
A line containing only "!refresh" refetches the listings from the remote.
The command exits after stdin is closed and the last search has finished.`,
	Args: cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, app *di.App, _ []string) error {
		return runSearch(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), app.Listings, cfg.SearchDebounce)
	}),
}

type searchState struct {
	Query      string                        `json:"query"`
	Loading    bool                          `json:"loading"`
	Refreshing bool                          `json:"refreshing"`
	Error      string                        `json:"error,omitempty"`
	Companies  []listingsdto.ListingResponse `json:"companies"`
	Gainers    []listingsdto.ListingResponse `json:"gainers"`
	Losers     []listingsdto.ListingResponse `json:"losers"`
}

func runSearch(ctx context.Context, in io.Reader, w io.Writer, syncer screen.Syncer, debounce time.Duration) error {
	scr := screen.New(ctx, syncer, debounce)
	defer scr.Close()
	defer func() {
		if verbose {
			published, dropped := scr.Stats()
			fmt.Fprintf(w, "-- states published=%d dropped=%d\n", published, dropped)
		}
	}()
	sub := scr.Subscribe()
	defer scr.Unsubscribe(sub)

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	enc := json.NewEncoder(w)
	var eofAt time.Time
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				lines = nil
				eofAt = time.Now()
				continue
			}
			if strings.TrimSpace(line) == refreshCommand {
				scr.Refresh()
				continue
			}
			scr.OnSearchQueryChange(line)
		case st, ok := <-sub.C:
			if !ok {
				return nil
			}
			if err := printState(w, enc, st); err != nil {
				return err
			}
		case <-tick.C:
			// 入力終了後、保留中の検索が走り終わるのを待つ
			if eofAt.IsZero() || time.Since(eofAt) <= debounce {
				continue
			}
			if st := scr.State(); !st.IsLoading && !st.IsRefreshing {
				select {
				case last, ok := <-sub.C:
					if ok {
						return printState(w, enc, last)
					}
				default:
				}
				return nil
			}
		}
	}
}

func printState(w io.Writer, enc *json.Encoder, st screen.State) error {
	if jsonOut {
		return enc.Encode(searchState{
			Query:      st.SearchQuery,
			Loading:    st.IsLoading,
			Refreshing: st.IsRefreshing,
			Error:      st.Error,
			Companies:  listingsdto.FromListings(st.Companies),
			Gainers:    listingsdto.FromListings(st.TopGainers),
			Losers:     listingsdto.FromListings(st.TopLosers),
		})
	}
	switch {
	case st.IsLoading:
		fmt.Fprintf(w, "searching %q...\n", st.SearchQuery)
	case st.Error != "":
		fmt.Fprintf(w, "error: %s\n", st.Error)
	default:
		fmt.Fprintf(w, "query %q:\n", st.SearchQuery)
		renderListings(w, listingsdto.FromListings(st.Companies))
	}
	return nil
}
