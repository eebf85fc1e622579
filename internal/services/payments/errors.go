package payments

import "errors"

var (
	ErrInvalidAmount      = errors.New("payment amount must be greater than zero")
	ErrInvalidStatus      = errors.New("status must be \"completed\" or \"failed\"")
	ErrInvalidTransition  = errors.New("payment is not pending")
	ErrInvoiceAlreadyPaid = errors.New("invoice is already paid")
	ErrAmountMismatch     = errors.New("payment amount must equal the invoice total")
	ErrPaymentNotFound    = errors.New("payment not found")
	ErrInvoiceNotFound    = errors.New("invoice not found")
)
