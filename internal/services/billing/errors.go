package billing

import "errors"

var (
	// Request validation; nothing is written when these are returned.
	ErrInvalidPeriod      = errors.New("invalid billing period")
	ErrInvalidStartNumber = errors.New("invalid start number")
	ErrNoActiveCharges    = errors.New("no active standard charges")
	ErrNoMembersSelected  = errors.New("no members selected")

	// ErrSequenceContention means the per-year counter kept changing under us.
	ErrSequenceContention = errors.New("invoice number counter is contended, try again")
	// ErrSequenceConflict means an invoice number stayed taken after retries.
	// The run stops; invoices already committed remain valid.
	ErrSequenceConflict = errors.New("invoice number conflict could not be resolved")
)

// Skip reasons recorded in the run manifest.
const (
	SkipInactive      = "inactive"
	SkipMissingFlat   = "missing_flat"
	SkipMissingEmail  = "missing_email"
	SkipNotFound      = "not_found"
	SkipPersistFailed = "persist_failed"
)
