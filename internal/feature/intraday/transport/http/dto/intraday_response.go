package dto

import "stockwatch/internal/feature/intraday/domain/entity"

// IntradayResponse は日中足1本のレスポンスDTOです。
type IntradayResponse struct {
	Date string  `json:"date"` // "2006-01-02 15:04:05"（取引所の現地時刻）
	High float64 `json:"high"` // 高値
	Low  float64 `json:"low"`  // 安値
}

// FromIntraday はエンティティをレスポンスDTOに変換します。nil は空配列になります。
func FromIntraday(series []entity.IntradayInfo) []IntradayResponse {
	out := make([]IntradayResponse, 0, len(series))
	for _, s := range series {
		out = append(out, IntradayResponse{
			Date: s.Date.Format(entity.TimestampLayout),
			High: s.High,
			Low:  s.Low,
		})
	}
	return out
}
