package dto

import "stockwatch/internal/feature/companyinfo/domain/entity"

// CompanyInfoResponse は企業情報のレスポンスDTOです。
type CompanyInfoResponse struct {
	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Country     string `json:"country"`
	Industry    string `json:"industry"`
	Address     string `json:"address"`
}

// FromCompanyInfo はエンティティをレスポンスDTOに変換します。nil は nil のままです。
func FromCompanyInfo(info *entity.CompanyInfo) *CompanyInfoResponse {
	if info == nil {
		return nil
	}
	return &CompanyInfoResponse{
		Symbol:      info.Symbol,
		Name:        info.Name,
		Description: info.Description,
		Country:     info.Country,
		Industry:    info.Industry,
		Address:     info.Address,
	}
}
