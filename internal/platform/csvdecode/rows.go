package csvdecode

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// IntradayRecord は時系列CSVの1行です。Timestamp はリモートの書式のまま保持します。
type IntradayRecord struct {
	Timestamp string
	High      float64
	Low       float64
}

// IntradayTimestampLayout は時系列CSVの timestamp 列の書式です。
const IntradayTimestampLayout = "2006-01-02 15:04:05"

// intraday CSV: timestamp,open,high,low,close,volume
const (
	intradayMinColumns = 6
	intradayColTime    = 0
	intradayColHigh    = 2
	intradayColLow     = 3
)

// IntradayRow は時系列CSVの1行をデコードします。
func IntradayRow(record []string) (IntradayRecord, error) {
	if len(record) < intradayMinColumns {
		return IntradayRecord{}, fmt.Errorf("%w: want at least %d columns, got %d", ErrRow, intradayMinColumns, len(record))
	}
	ts := strings.TrimSpace(record[intradayColTime])
	if ts == "" {
		return IntradayRecord{}, fmt.Errorf("%w: empty timestamp", ErrRow)
	}
	if _, err := time.Parse(IntradayTimestampLayout, ts); err != nil {
		return IntradayRecord{}, fmt.Errorf("%w: timestamp: %w", ErrRow, err)
	}
	high, err := parseFloat(record[intradayColHigh])
	if err != nil {
		return IntradayRecord{}, fmt.Errorf("%w: high: %w", ErrRow, err)
	}
	low, err := parseFloat(record[intradayColLow])
	if err != nil {
		return IntradayRecord{}, fmt.Errorf("%w: low: %w", ErrRow, err)
	}
	return IntradayRecord{Timestamp: ts, High: high, Low: low}, nil
}

// ListingRecord は銘柄一覧CSVの1行です。
type ListingRecord struct {
	Symbol             string
	Name               string
	Exchange           string
	Price              float64
	PriceChange        float64
	PriceChangePercent float64
}

// ListingLayout は銘柄一覧CSVの列位置を表します。価格列が負の値なら読みません。
type ListingLayout struct {
	MinColumns         int
	Symbol             int
	Name               int
	Exchange           int
	Price              int
	PriceChange        int
	PriceChangePercent int
}

// ListingStatusLayout は LISTING_STATUS の列構成です。
// symbol,name,exchange,assetType,ipoDate,delistingDate,status
var ListingStatusLayout = ListingLayout{
	MinColumns:         3,
	Symbol:             0,
	Name:               1,
	Exchange:           2,
	Price:              -1,
	PriceChange:        -1,
	PriceChangePercent: -1,
}

// QuoteLayout は価格列を含む一覧の列構成です。
// symbol,name,exchange,price,change,changePercent
var QuoteLayout = ListingLayout{
	MinColumns:         6,
	Symbol:             0,
	Name:               1,
	Exchange:           2,
	Price:              3,
	PriceChange:        4,
	PriceChangePercent: 5,
}

// ListingRow は layout に従って一覧CSVの1行をデコードする RowFunc を返します。
func ListingRow(layout ListingLayout) RowFunc[ListingRecord] {
	return func(record []string) (ListingRecord, error) {
		if len(record) < layout.MinColumns {
			return ListingRecord{}, fmt.Errorf("%w: want at least %d columns, got %d", ErrRow, layout.MinColumns, len(record))
		}
		rec := ListingRecord{
			Symbol:   strings.TrimSpace(record[layout.Symbol]),
			Name:     strings.TrimSpace(record[layout.Name]),
			Exchange: strings.TrimSpace(record[layout.Exchange]),
		}
		if rec.Symbol == "" {
			return ListingRecord{}, fmt.Errorf("%w: empty symbol", ErrRow)
		}

		var err error
		if rec.Price, err = column(record, layout.Price); err != nil {
			return ListingRecord{}, fmt.Errorf("%w: price: %w", ErrRow, err)
		}
		if rec.PriceChange, err = column(record, layout.PriceChange); err != nil {
			return ListingRecord{}, fmt.Errorf("%w: change: %w", ErrRow, err)
		}
		if rec.PriceChangePercent, err = column(record, layout.PriceChangePercent); err != nil {
			return ListingRecord{}, fmt.Errorf("%w: change percent: %w", ErrRow, err)
		}
		return rec, nil
	}
}

func column(record []string, idx int) (float64, error) {
	if idx < 0 {
		return 0, nil
	}
	if idx >= len(record) {
		return 0, fmt.Errorf("missing column %d", idx)
	}
	return parseFloat(record[idx])
}

func parseFloat(s string) (float64, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	return strconv.ParseFloat(s, 64)
}
