// Package screen は銘柄一覧画面の状態管理（検索・更新・ランキング）を提供します。
package screen

import (
	"stockwatch/internal/feature/listings/domain/entity"
	"stockwatch/internal/shared/outcome"
)

// MoversCount はランキングに載せる件数です。
const MoversCount = 10

const unexpectedError = "An unexpected error occurred"

// State は銘柄一覧画面の状態です。
type State struct {
	Companies    []entity.CompanyListing
	TopGainers   []entity.CompanyListing
	TopLosers    []entity.CompanyListing
	IsLoading    bool
	IsRefreshing bool
	SearchQuery  string
	Error        string
}

// Reduce は同期の出力1件を状態に適用した新しい状態を返します。
func Reduce(s State, o outcome.Outcome[[]entity.CompanyListing]) State {
	switch o.Status {
	case outcome.StatusSuccess:
		s.Companies = o.Data
		s.TopGainers = entity.TopGainers(o.Data, MoversCount)
		s.TopLosers = entity.TopLosers(o.Data, MoversCount)
		s.IsLoading = false
		s.IsRefreshing = false
	case outcome.StatusError:
		s.Companies = []entity.CompanyListing{}
		if o.HasData {
			s.Companies = o.Data
		}
		s.IsLoading = false
		s.IsRefreshing = false
		s.Error = o.Message
		if s.Error == "" {
			s.Error = unexpectedError
		}
	case outcome.StatusLoading:
		s.IsLoading = o.Loading
		s.IsRefreshing = o.Loading
	}
	return s
}
