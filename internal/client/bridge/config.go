// Package bridge hosts the Teller Connect enrollment widget and turns the
// messages it posts back into exactly one terminal outcome per session.
package bridge

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrijs2005/finlink/internal/common"
)

const (
	EnvironmentSandbox     = "sandbox"
	EnvironmentDevelopment = "development"
	EnvironmentProduction  = "production"

	SelectDisabled = "disabled"
	SelectSingle   = "single"
	SelectMultiple = "multiple"

	DefaultConnectScriptURL = "https://cdn.teller.io/connect/connect.js"
)

// Config is handed to the widget on open.
type Config struct {
	ApplicationID    string   `json:"application_id"`
	Environment      string   `json:"environment"`
	Products         []string `json:"products"`
	SelectAccount    string   `json:"select_account"`
	ConnectScriptURL string   `json:"connect_script_url"`
}

// DefaultConfig returns the widget settings used when nothing is configured.
// ApplicationID has no default.
func DefaultConfig() Config {
	return Config{
		Environment:      EnvironmentSandbox,
		Products:         []string{"transactions", "balance"},
		SelectAccount:    SelectMultiple,
		ConnectScriptURL: DefaultConnectScriptURL,
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ApplicationID) == "" {
		return fmt.Errorf("%w: application id is required", common.ErrValidation)
	}
	if !slices.Contains([]string{EnvironmentSandbox, EnvironmentDevelopment, EnvironmentProduction}, c.Environment) {
		return fmt.Errorf("%w: unknown environment %q", common.ErrValidation, c.Environment)
	}
	if !slices.Contains([]string{SelectDisabled, SelectSingle, SelectMultiple}, c.SelectAccount) {
		return fmt.Errorf("%w: unknown select account mode %q", common.ErrValidation, c.SelectAccount)
	}
	if len(c.Products) == 0 {
		return fmt.Errorf("%w: at least one product is required", common.ErrValidation)
	}
	if c.ConnectScriptURL == "" {
		return fmt.Errorf("%w: connect script url is required", common.ErrValidation)
	}
	return nil
}
