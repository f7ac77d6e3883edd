package ledger

import "errors"

var (
	ErrCardNotFound     = errors.New("card_not_found")
	ErrInvalidAmount    = errors.New("invalid_amount")
	ErrAmountExceedsDue = errors.New("amount_exceeds_due")
	ErrInvalidUPIMethod = errors.New("invalid_upi_method")
	ErrInvalidUPIID     = errors.New("invalid_upi_id")
	ErrGateway          = errors.New("gateway_error")
	ErrPersistence      = errors.New("persistence_error")
)
