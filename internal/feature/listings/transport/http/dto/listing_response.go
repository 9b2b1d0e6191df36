package dto

import "stockwatch/internal/feature/listings/domain/entity"

// ListingResponse は銘柄一覧の1件のレスポンスDTOです。
type ListingResponse struct {
	Symbol             string  `json:"symbol"`             // 銘柄コード
	Name               string  `json:"name"`               // 会社名
	Exchange           string  `json:"exchange"`           // 取引所
	Price              float64 `json:"price"`              // 現在値
	PriceChange        float64 `json:"priceChange"`        // 前日比
	PriceChangePercent float64 `json:"priceChangePercent"` // 前日比（%）
}

// MoversResponse は値上がり・値下がりランキングのレスポンスDTOです。
type MoversResponse struct {
	Gainers []ListingResponse `json:"gainers"`
	Losers  []ListingResponse `json:"losers"`
}

// FromListings はエンティティをレスポンスDTOに変換します。nil は空配列になります。
func FromListings(ls []entity.CompanyListing) []ListingResponse {
	out := make([]ListingResponse, 0, len(ls))
	for _, l := range ls {
		out = append(out, ListingResponse{
			Symbol:             l.Symbol,
			Name:               l.Name,
			Exchange:           l.Exchange,
			Price:              l.Price,
			PriceChange:        l.PriceChange,
			PriceChangePercent: l.PriceChangePercent,
		})
	}
	return out
}
