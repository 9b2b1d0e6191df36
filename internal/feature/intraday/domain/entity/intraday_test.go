package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestLastTradingDay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"tuesday", time.Date(2024, 5, 7, 15, 0, 0, 0, time.UTC), day(2024, 5, 6)},
		{"monday skips weekend", time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC), day(2024, 5, 3)},
		{"sunday", time.Date(2024, 5, 5, 9, 0, 0, 0, time.UTC), day(2024, 5, 3)},
		{"saturday", time.Date(2024, 5, 4, 9, 0, 0, 0, time.UTC), day(2024, 5, 3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, LastTradingDay(tt.now))
		})
	}
}

func TestIsStale(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 7, 12, 0, 0, 0, time.UTC) // Tuesday
	fresh := []IntradayInfo{
		{Date: time.Date(2024, 5, 3, 19, 0, 0, 0, time.UTC)},
		{Date: time.Date(2024, 5, 6, 19, 0, 0, 0, time.UTC)},
	}
	stale := []IntradayInfo{{Date: time.Date(2024, 5, 3, 19, 0, 0, 0, time.UTC)}}

	assert.False(t, IsStale(fresh, now))
	assert.True(t, IsStale(stale, now))
	assert.True(t, IsStale(nil, now))
}

func TestRawSample_Parse(t *testing.T) {
	t.Parallel()

	got, err := RawSample{Timestamp: "2024-05-03 19:00:00", High: 2, Low: 1}.Parse()
	require.NoError(t, err)
	assert.Equal(t, IntradayInfo{Date: time.Date(2024, 5, 3, 19, 0, 0, 0, time.UTC), High: 2, Low: 1}, got)

	_, err = RawSample{Timestamp: "05/03/2024"}.Parse()
	assert.Error(t, err)
}

// TestIsStale_UsesExchangeCalendar は now の日付を取引所の時計で決めることを検証します。
func TestIsStale_UsesExchangeCalendar(t *testing.T) {
	t.Parallel()

	friday := []IntradayInfo{{Date: time.Date(2024, 5, 3, 19, 0, 0, 0, time.UTC)}}
	tokyo := time.FixedZone("JST", 9*60*60)

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		// ニューヨークではまだ月曜なので直近の営業日は金曜
		{"tuesday early UTC is monday evening in New York", time.Date(2024, 5, 7, 2, 0, 0, 0, time.UTC), false},
		{"tuesday morning in Tokyo is monday evening in New York", time.Date(2024, 5, 7, 9, 0, 0, 0, tokyo), false},
		{"tuesday in New York", time.Date(2024, 5, 7, 18, 0, 0, 0, time.UTC), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsStale(friday, tt.now))
		})
	}
}

func TestIsStale_SameInstantAnyZone(t *testing.T) {
	t.Parallel()

	series := []IntradayInfo{{Date: time.Date(2024, 5, 6, 15, 0, 0, 0, time.UTC)}}
	instant := time.Date(2024, 5, 8, 3, 30, 0, 0, time.UTC)
	for _, loc := range []*time.Location{time.UTC, ExchangeLocation, time.FixedZone("JST", 9*60*60), time.FixedZone("PDT", -7*60*60)} {
		assert.Equal(t, IsStale(series, instant), IsStale(series, instant.In(loc)), loc.String())
	}
}
