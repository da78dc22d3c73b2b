package models

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	TransactionStatusPending = "pending"
	TransactionStatusPosted  = "posted"
)

type Counterparty struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type TransactionDetails struct {
	Category         string        `json:"category"`
	ProcessingStatus string        `json:"processing_status,omitempty"`
	Counterparty     *Counterparty `json:"counterparty,omitempty"`
}

// Transaction belongs to exactly one account. Amount is signed: negative
// values are expenses.
type Transaction struct {
	ID          string             `json:"id"`
	AccountID   string             `json:"account_id,omitempty"`
	Description string             `json:"description"`
	Date        string             `json:"date"`
	Amount      decimal.Decimal    `json:"amount"`
	Status      string             `json:"status"`
	Type        string             `json:"type,omitempty"`
	Details     TransactionDetails `json:"details"`
}

func (t *Transaction) IsExpense() bool {
	return t.Amount.IsNegative()
}

func (t *Transaction) IsPending() bool {
	return t.Status == TransactionStatusPending
}

func (t *Transaction) AbsAmount() decimal.Decimal {
	return t.Amount.Abs()
}

// Category returns the category with its first letter upper-cased, or "".
func (t *Transaction) Category() string {
	c := strings.TrimSpace(t.Details.Category)
	if c == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(c)
	return string(unicode.ToUpper(r)) + c[size:]
}

// ParsedDate parses the aggregator's YYYY-MM-DD date.
func (t *Transaction) ParsedDate() (time.Time, error) {
	return time.Parse(time.DateOnly, t.Date)
}
