package errors

import "errors"

var (
	ErrDuplicateID       = errors.New("star id already exists")
	ErrNotFound          = errors.New("star not found")
	ErrNotOwner          = errors.New("caller does not own star")
	ErrNotForSale        = errors.New("star is not for sale")
	ErrInsufficientFunds = errors.New("tendered value is below listing price")
	ErrNotAccountHolder  = errors.New("caller does not hold account")

	ErrInvalidRequest           = errors.New("invalid request")
	ErrInvalidAmount            = errors.New("invalid amount")
	ErrTransferFailed           = errors.New("value transfer failed")
	ErrIdempotencyConflict      = errors.New("idempotency key reused with different request")
	ErrRepositoryInvariantBroke = errors.New("repository invariant violated")
)
