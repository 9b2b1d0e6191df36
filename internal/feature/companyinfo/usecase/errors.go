// Package usecase は企業情報の同期を実装します。
package usecase

import "errors"

var (
	// ErrInvalidSymbol は銘柄コードが空の場合に返されます。
	ErrInvalidSymbol = errors.New("invalid symbol")
)
