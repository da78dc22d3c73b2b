// Package models defines the aggregator data shapes shared by the client and
// the backend. JSON tags follow the Teller API.
package models

// Institution is the bank behind an account.
type Institution struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// AccountLinks lists the follow-up resources the aggregator exposes for an
// account. An empty link means the capability is not available.
type AccountLinks struct {
	Self         string `json:"self,omitempty"`
	Details      string `json:"details,omitempty"`
	Balances     string `json:"balances,omitempty"`
	Transactions string `json:"transactions,omitempty"`
}

// Account is fetched fresh on every listing; it is never cached.
type Account struct {
	ID           string       `json:"id"`
	EnrollmentID string       `json:"enrollment_id,omitempty"`
	Name         string       `json:"name"`
	Type         string       `json:"type"`
	Subtype      string       `json:"subtype"`
	LastFour     string       `json:"last_four"`
	Currency     string       `json:"currency"`
	Institution  Institution  `json:"institution"`
	Links        AccountLinks `json:"links"`
	Status       string       `json:"status"`
}

// HasBalances reports whether a balance fetch may be attempted.
func (a *Account) HasBalances() bool {
	return a.Links.Balances != ""
}

// HasTransactions reports whether a transaction fetch may be attempted.
func (a *Account) HasTransactions() bool {
	return a.Links.Transactions != ""
}

// CurrencyOrDefault returns the account currency, USD when unset.
func (a *Account) CurrencyOrDefault() string {
	if a.Currency == "" {
		return "USD"
	}
	return a.Currency
}
