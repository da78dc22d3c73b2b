package models

import "github.com/shopspring/decimal"

// Balance belongs to exactly one account. Either figure may be missing.
type Balance struct {
	AccountID string           `json:"account_id,omitempty"`
	Available *decimal.Decimal `json:"available,omitempty"`
	Ledger    *decimal.Decimal `json:"ledger,omitempty"`
}

// HasAny reports whether at least one figure is present.
func (b *Balance) HasAny() bool {
	return b != nil && (b.Available != nil || b.Ledger != nil)
}
