// Package usecase implements the business logic for the listings feature.
package usecase

import "errors"

var (
	// ErrInvalidLimit is returned when a movers limit is outside 1..MaxMoversLimit.
	ErrInvalidLimit = errors.New("invalid movers limit")
)
