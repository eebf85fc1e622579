// Package models holds the gorm models persisted by the billing backend.
package models

// All lists every model in migration order.
func All() []any {
	return []any{
		&Member{},
		&StandardCharge{},
		&BillingRun{},
		&InvoiceSequence{},
		&Invoice{},
		&InvoiceItem{},
		&Payment{},
		&LedgerEntry{},
	}
}
