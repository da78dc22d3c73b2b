package cli

import (
	"context"
	"fmt"
)

// Disconnect forgets the access token after confirmation.
func (a *App) Disconnect(ctx context.Context) error {
	if !a.isLinked(ctx) {
		fmt.Fprintln(a.out, "No bank is linked.")
		return nil
	}
	if !Confirm(a.reader, "Disconnect your bank? You will need to link it again.", a.out) {
		return nil
	}
	if err := a.accounts.Disconnect(ctx); err != nil {
		a.reportError(ctx, "Failed to disconnect.", err)
		return err
	}
	a.listed = nil
	fmt.Fprintln(a.out, "Disconnected.")
	return nil
}

// Session sets the user session token sent to the gateway, or clears it
// when left empty.
func (a *App) Session(ctx context.Context) error {
	token, err := GetSecret(a.reader, "Session token (empty to clear)", a.out)
	if err != nil {
		return err
	}

	if token == "" {
		if err := a.sessions.ClearSessionToken(ctx); err != nil {
			a.reportError(ctx, "Failed to clear the session token.", err)
			return err
		}
		fmt.Fprintln(a.out, "Session token cleared.")
		return nil
	}

	if err := a.sessions.SaveSessionToken(ctx, token); err != nil {
		a.reportError(ctx, "Failed to save the session token.", err)
		return err
	}
	fmt.Fprintln(a.out, "Session token saved.")
	return nil
}

func (a *App) Status(ctx context.Context) error {
	linked := "no"
	if a.isLinked(ctx) {
		linked = "yes"
		if since, ok := a.sessions.LinkedSince(ctx); ok {
			linked += ", since " + since.Local().Format("Jan 2, 2006")
		}
	}
	_, hasSession := a.sessions.SessionToken(ctx)
	session := "no"
	if hasSession {
		session = "yes"
	}

	fmt.Fprintf(a.out, "Gateway:       %s\n", a.config.GatewayBaseURL)
	fmt.Fprintf(a.out, "Bank linked:   %s\n", linked)
	fmt.Fprintf(a.out, "Session token: %s\n", session)
	fmt.Fprintf(a.out, "Environment:   %s\n", a.config.Widget.Environment)
	return nil
}
