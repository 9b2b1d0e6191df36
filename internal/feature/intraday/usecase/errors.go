// Package usecase は日中足の同期と一括取り込みを実装します。
package usecase

import "errors"

var (
	// ErrInvalidSymbol は銘柄コードが空の場合に返されます。
	ErrInvalidSymbol = errors.New("invalid symbol")
)
