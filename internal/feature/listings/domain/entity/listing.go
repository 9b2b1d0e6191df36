// Package entity defines the domain models for the listings feature.
package entity

import (
	"cmp"
	"slices"
)

// CompanyListing is one listed company and its latest price move.
type CompanyListing struct {
	Symbol             string  // Ticker symbol, unique (e.g., "AAPL")
	Name               string  // Company name
	Exchange           string  // Listing exchange (e.g., "NASDAQ")
	Price              float64 // Last price, 0 when the source carries none
	PriceChange        float64 // Absolute change since previous close
	PriceChangePercent float64 // Change in percent
}

// TopGainers returns up to n listings with the highest PriceChangePercent, highest first.
func TopGainers(ls []CompanyListing, n int) []CompanyListing {
	return topBy(ls, n, func(a, b CompanyListing) int {
		return cmp.Compare(b.PriceChangePercent, a.PriceChangePercent)
	})
}

// TopLosers returns up to n listings with the lowest PriceChangePercent, lowest first.
func TopLosers(ls []CompanyListing, n int) []CompanyListing {
	return topBy(ls, n, func(a, b CompanyListing) int {
		return cmp.Compare(a.PriceChangePercent, b.PriceChangePercent)
	})
}

func topBy(ls []CompanyListing, n int, less func(a, b CompanyListing) int) []CompanyListing {
	if n <= 0 || len(ls) == 0 {
		return []CompanyListing{}
	}
	sorted := slices.Clone(ls)
	slices.SortStableFunc(sorted, less)
	return sorted[:min(n, len(sorted))]
}
