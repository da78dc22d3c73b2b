package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/finlink/internal/client/bridge"
)

// Link serves Teller Connect on the bridge address, waits for the user to
// finish in the browser and submits a successful enrollment.
func (a *App) Link(ctx context.Context) error {
	if a.isLinked(ctx) && !Confirm(a.reader, "A bank is already linked. Link another and replace it?", a.out) {
		return nil
	}

	fmt.Fprintf(a.out, "Open http://%s/ in your browser to connect your bank.\n", a.config.BridgeListenAddr)

	outcome, err := a.runWidget(ctx, a.config.Widget, a.config.BridgeListenAddr, a.logger)
	if err != nil {
		a.reportError(ctx, "Failed to open Teller Connect.", err)
		return err
	}

	switch outcome.Kind {
	case bridge.OutcomeSuccess:
		receipt, err := a.accounts.SubmitEnrollment(ctx, outcome.Enrollment)
		if err != nil {
			if a.isLinked(ctx) {
				fmt.Fprintln(a.out, "Bank connected, but the server could not be notified. Your accounts are still available.")
				a.logger.Warn(ctx, "enrollment saved locally only", "error", err)
				return err
			}
			a.reportError(ctx, "Failed to save the connection.", err)
			return err
		}
		fmt.Fprintf(a.out, "Connected to %s (%d accounts).\n", outcome.Enrollment.Enrollment.Institution.Name, receipt.Accounts)
		return nil

	case bridge.OutcomeUserExit:
		fmt.Fprintln(a.out, "Linking cancelled.")
		return nil

	default:
		if errors.Is(outcome.Err, bridge.ErrLoadFailed) {
			fmt.Fprintln(a.out, "Failed to load Teller Connect.")
		} else {
			fmt.Fprintln(a.out, "There was a problem connecting your account. Please try again.")
		}
		a.logger.Error(ctx, "enrollment failed", "error", outcome.Err)
		return outcome.Err
	}
}
