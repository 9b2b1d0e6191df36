// Package entity defines the domain models for the intraday feature.
package entity

import (
	"time"
	_ "time/tzdata" // ExchangeLocation must resolve on hosts without a zoneinfo database
)

// TimestampLayout is the timestamp format of the remote intraday series.
// Timestamps are wall-clock times of the exchange (US/Eastern) without a zone.
const TimestampLayout = "2006-01-02 15:04:05"

// ExchangeLocation is the time zone the remote timestamps are written in.
var ExchangeLocation = loadExchangeLocation()

func loadExchangeLocation() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.FixedZone("EST", -5*60*60)
	}
	return loc
}

// IntradayInfo is one sample of a symbol's intraday series.
type IntradayInfo struct {
	Date time.Time
	High float64
	Low  float64
}

// RawSample is a sample as stored, with the timestamp kept in the remote format.
type RawSample struct {
	Timestamp string  `json:"timestamp"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
}

// Parse converts a stored sample into an IntradayInfo.
func (s RawSample) Parse() (IntradayInfo, error) {
	t, err := time.Parse(TimestampLayout, s.Timestamp)
	if err != nil {
		return IntradayInfo{}, err
	}
	return IntradayInfo{Date: t, High: s.High, Low: s.Low}, nil
}

// LastTradingDay returns the most recent completed weekday before now, at midnight
// in now's location. Market holidays are not considered.
func LastTradingDay(now time.Time) time.Time {
	d := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -1)
	for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// IsStale reports whether the newest sample in series is from before the last trading day.
// Both sides are compared as calendar dates on the exchange's clock: sample dates are
// taken as written and now is converted to ExchangeLocation. An empty series is stale.
func IsStale(series []IntradayInfo, now time.Time) bool {
	if len(series) == 0 {
		return true
	}
	newest := series[0].Date
	for _, s := range series[1:] {
		if s.Date.After(newest) {
			newest = s.Date
		}
	}
	return civilDate(newest).Before(civilDate(LastTradingDay(now.In(ExchangeLocation))))
}

// civilDate drops the clock and the zone, keeping the written calendar date.
func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
