// Package dto はAlphaVantage APIのレスポンス形式を定義します。
package dto

// OverviewResponse は function=OVERVIEW のレスポンスです。
// 該当銘柄が無い場合、APIは空のオブジェクトを返します。
type OverviewResponse struct {
	Symbol      string `json:"Symbol"`
	Name        string `json:"Name"`
	Description string `json:"Description"`
	Country     string `json:"Country"`
	Industry    string `json:"Industry"`
	Address     string `json:"Address"`
}

// APIMessage はAPIがHTTP 200で返すエラー・制限の通知です。
type APIMessage struct {
	Note         string `json:"Note"`
	Information  string `json:"Information"`
	ErrorMessage string `json:"Error Message"`
}

// Text は通知の本文を返します。通知でなければ空です。
func (m APIMessage) Text() string {
	switch {
	case m.ErrorMessage != "":
		return m.ErrorMessage
	case m.Note != "":
		return m.Note
	default:
		return m.Information
	}
}
