package models

import "github.com/shopspring/decimal"

// Summary is the overview shown on the client's home view.
type Summary struct {
	Accounts       []Account
	TotalAvailable decimal.Decimal
	Currency       string
	// Excluded counts accounts left out of TotalAvailable because their
	// currency differs from Currency.
	Excluded int
}
