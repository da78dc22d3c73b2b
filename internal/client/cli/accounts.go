package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/finlink/internal/client/services"
	"github.com/dmitrijs2005/finlink/internal/common"
	"github.com/dmitrijs2005/finlink/internal/models"
)

// Home prints the summary view. Fetch errors are logged, never shown.
func (a *App) Home(ctx context.Context) error {
	summary, err := a.accounts.Summary(ctx)
	if err != nil {
		if services.IsNotLinked(err) {
			fmt.Fprintln(a.out, "No bank linked yet. Type 'link' to connect one.")
			return nil
		}
		a.logger.Debug(ctx, "home summary unavailable", "error", err)
		fmt.Fprintln(a.out, "Nothing to show right now.")
		return nil
	}

	a.listed = summary.Accounts
	fmt.Fprintf(a.out, "Total available: %s\n", formatAmount(summary.TotalAvailable, summary.Currency))
	if summary.Excluded > 0 {
		fmt.Fprintf(a.out, "(%d account(s) in other currencies not included)\n", summary.Excluded)
	}
	fmt.Fprintf(a.out, "Linked accounts: %d\n", len(summary.Accounts))
	for i, acc := range summary.Accounts {
		fmt.Fprintln(a.out, formatAccount(i, acc))
	}
	return nil
}

// Accounts lists the linked accounts, fetched fresh every time.
func (a *App) Accounts(ctx context.Context) error {
	accounts, err := a.accounts.ListAccounts(ctx)
	if err != nil {
		if services.IsNotLinked(err) {
			fmt.Fprintln(a.out, "No bank linked yet. Type 'link' to connect one.")
			return nil
		}
		a.reportError(ctx, "Failed to load accounts.", err)
		return err
	}

	a.listed = accounts
	if len(accounts) == 0 {
		fmt.Fprintln(a.out, "No accounts found.")
		return nil
	}
	for i, acc := range accounts {
		fmt.Fprintln(a.out, formatAccount(i, acc))
	}
	return nil
}

// Show prints balances and transactions for the account referenced by its
// position in the last listing or by ID.
func (a *App) Show(ctx context.Context, ref string) error {
	if len(a.listed) == 0 {
		if err := a.refreshListing(ctx); err != nil {
			return err
		}
	}

	account, ok := a.resolve(ref)
	if !ok {
		fmt.Fprintf(a.out, "No account %q. Type 'accounts' to list them.\n", ref)
		return common.ErrNotFound
	}

	detail, err := a.accounts.AccountDetail(ctx, account)
	if err != nil {
		if services.IsNotLinked(err) {
			fmt.Fprintln(a.out, "Unable to access account data. Please reconnect your account.")
			return err
		}
		a.reportError(ctx, "Failed to load account data. Please try again.", err)
		return err
	}

	currency := account.CurrencyOrDefault()
	fmt.Fprintln(a.out, accountTitle(account))
	fmt.Fprintln(a.out, formatBalance(detail.Balance, currency))

	if !account.HasTransactions() {
		fmt.Fprintln(a.out, "  Transactions not available for this account")
		return nil
	}
	if len(detail.Transactions) == 0 {
		fmt.Fprintln(a.out, "  No transactions")
		return nil
	}
	for _, t := range detail.Transactions {
		fmt.Fprintln(a.out, formatTransaction(t, currency))
	}
	return nil
}

func (a *App) refreshListing(ctx context.Context) error {
	accounts, err := a.accounts.ListAccounts(ctx)
	if err != nil {
		if services.IsNotLinked(err) {
			fmt.Fprintln(a.out, "No bank linked yet. Type 'link' to connect one.")
			return err
		}
		a.reportError(ctx, "Failed to load accounts.", err)
		return err
	}
	a.listed = accounts
	return nil
}

func (a *App) resolve(ref string) (models.Account, bool) {
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(a.listed) {
		return a.listed[n-1], true
	}
	for _, acc := range a.listed {
		if acc.ID == ref {
			return acc, true
		}
	}
	return models.Account{}, false
}

// reportError prints a user-facing message and logs the underlying error.
func (a *App) reportError(ctx context.Context, msg string, err error) {
	switch {
	case errors.Is(err, common.ErrTimeout):
		msg += " The request timed out."
	case errors.Is(err, common.ErrNetwork):
		msg += " Check your connection."
	}
	fmt.Fprintln(a.out, msg)
	a.logger.Error(ctx, msg, "error", err)
}
