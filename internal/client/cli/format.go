package cli

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dmitrijs2005/finlink/internal/models"
)

// formatAmount renders an amount like "$1,234.56". Non-USD currencies are
// suffixed with their code.
func formatAmount(d decimal.Decimal, currency string) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	fixed := d.StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	if currency == "" || currency == "USD" {
		return fmt.Sprintf("%s$%s.%s", sign, b.String(), frac)
	}
	return fmt.Sprintf("%s%s.%s %s", sign, b.String(), frac, currency)
}

// formatDate renders YYYY-MM-DD as "Jan 2, 2006"; unparsable dates are
// returned as is.
func formatDate(t models.Transaction) string {
	d, err := t.ParsedDate()
	if err != nil {
		return t.Date
	}
	return d.Format("Jan 2, 2006")
}

func formatAccount(i int, a models.Account) string {
	return fmt.Sprintf("%2d. %s", i+1, accountTitle(a))
}

func accountTitle(a models.Account) string {
	line := a.Name
	if a.LastFour != "" {
		line += " ••" + a.LastFour
	}
	if a.Institution.Name != "" {
		line += " (" + a.Institution.Name + ")"
	}
	if a.Subtype != "" {
		line += " " + strings.ReplaceAll(a.Subtype, "_", " ")
	}
	return line
}

func formatTransaction(t models.Transaction, currency string) string {
	sign := "+"
	if t.IsExpense() {
		sign = "-"
	}

	line := fmt.Sprintf("  %-12s %-32s %s%s", formatDate(t), t.Description, sign, formatAmount(t.AbsAmount(), currency))
	if t.IsPending() {
		line += " • Pending"
	}
	if c := t.Category(); c != "" {
		line += " [" + c + "]"
	}
	return line
}

func formatBalance(b *models.Balance, currency string) string {
	if !b.HasAny() {
		return "  Balance information not available"
	}
	var parts []string
	if b.Available != nil {
		parts = append(parts, "available "+formatAmount(*b.Available, currency))
	}
	if b.Ledger != nil {
		parts = append(parts, "ledger "+formatAmount(*b.Ledger, currency))
	}
	return "  " + strings.Join(parts, ", ")
}
