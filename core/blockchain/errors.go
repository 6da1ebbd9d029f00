package blockchain

import "errors"

var (
	ErrMissingField        = errors.New("missing required field")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInsufficientBalance = errors.New("insufficient balance for transaction")
	ErrEmptyChain          = errors.New("blockchain has no blocks")
	ErrInvalidChain        = errors.New("invalid blockchain")
)
