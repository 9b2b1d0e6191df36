package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	companydto "stockwatch/internal/feature/companyinfo/transport/http/dto"
	intradaydto "stockwatch/internal/feature/intraday/transport/http/dto"
	listingsdto "stockwatch/internal/feature/listings/transport/http/dto"
	"stockwatch/internal/platform/http/stream"
	"stockwatch/internal/shared/outcome"
)

// printOutcomes は同期の出力を順に表示し、最後の出力がエラーならそのメッセージをエラーとして返します。
func printOutcomes[T, D any](w io.Writer, ch <-chan outcome.Outcome[T], conv func(T) D, render func(io.Writer, D)) error {
	enc := json.NewEncoder(w)
	var last outcome.Outcome[T]
	for o := range ch {
		last = o
		if jsonOut {
			if err := enc.Encode(stream.NewFrame(o, conv)); err != nil {
				return err
			}
			continue
		}
		switch o.Status {
		case outcome.StatusLoading:
			if verbose {
				fmt.Fprintf(w, "-- loading=%t\n", o.Loading)
			}
		case outcome.StatusSuccess:
			render(w, conv(o.Data))
		case outcome.StatusError:
			if o.HasData {
				fmt.Fprintf(w, "error: %s (showing cached data above)\n", o.Message)
			} else {
				fmt.Fprintf(w, "error: %s\n", o.Message)
			}
		}
	}
	if last.IsError() {
		return errors.New(last.Message)
	}
	return nil
}

func renderListings(w io.Writer, ls []listingsdto.ListingResponse) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SYMBOL\tNAME\tEXCHANGE\tPRICE\tCHANGE%")
	for _, l := range ls {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%+.2f\n", l.Symbol, l.Name, l.Exchange, l.Price, l.PriceChangePercent)
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "%d listing(s)\n", len(ls))
}

func renderCompany(w io.Writer, c *companydto.CompanyInfoResponse) {
	if c == nil {
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Symbol\t%s\n", c.Symbol)
	fmt.Fprintf(tw, "Name\t%s\n", c.Name)
	fmt.Fprintf(tw, "Industry\t%s\n", c.Industry)
	fmt.Fprintf(tw, "Country\t%s\n", c.Country)
	fmt.Fprintf(tw, "Address\t%s\n", c.Address)
	_ = tw.Flush()
	if c.Description != "" {
		fmt.Fprintf(w, "\n%s\n", c.Description)
	}
}

func renderIntraday(w io.Writer, series []intradaydto.IntradayResponse) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tHIGH\tLOW")
	for _, s := range series {
		fmt.Fprintf(tw, "%s\t%.4f\t%.4f\n", s.Date, s.High, s.Low)
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "%d sample(s)\n", len(series))
}
