// Package cli provides the interactive finlink terminal client.
//
// It wires configuration, the local token store, the gateway client and the
// enrollment widget bridge behind a small REPL.
//
// Commands:
//   - home         linked accounts with the total available balance
//   - accounts     list linked accounts
//   - show <n|id>  balances and transactions of one account
//   - link         open Teller Connect in the browser and link a bank
//   - disconnect   forget the stored access token
//   - session      set or clear the user session token
//   - status       connection state
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
