package model

import "errors"

// Business-rule and validation errors surfaced to callers. Storage
// failures are wrapped with %w and stay distinguishable from these.
var (
	ErrInvalidQuantity           = errors.New("invalid quantity")
	ErrInsufficientStock         = errors.New("insufficient available stock")
	ErrInsufficientReservedStock = errors.New("insufficient reserved stock")
	ErrReceiptNotFound           = errors.New("receipt not found")
	ErrReceiptAlreadyProcessed   = errors.New("receipt already processed")
	ErrLockNotAcquired           = errors.New("could not acquire stock lock")
)
