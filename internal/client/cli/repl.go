package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLinked(ctx context.Context) bool
	Home(ctx context.Context) error
	Accounts(ctx context.Context) error
	Show(ctx context.Context, ref string) error
	Link(ctx context.Context) error
	Disconnect(ctx context.Context) error
	Session(ctx context.Context) error
	Status(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the finlink CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. The loop exits on scanner EOF
// or when the user types "exit" or "quit".
//
//	Not linked:
//	  - help, link, session, status, exit | quit
//
//	Linked:
//	  - help, home, (l)ist | accounts, show <n|id>, link, disconnect,
//	    session, status, exit | quit
//
// Errors returned by command handlers are ignored here; handlers report
// their own errors.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("finlink %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLinked(ctx) {
				printlnFn("Available commands: home, (l)ist, show <n|id>, link, disconnect, session, status, exit")
			} else {
				printlnFn("Available commands: link, session, status, exit")
			}

		case "home":
			_ = a.Home(ctx)

		case "l", "list", "accounts":
			_ = a.Accounts(ctx)

		case "show":
			if len(args) == 0 {
				printlnFn("Usage: show <n|id>")
				continue
			}
			_ = a.Show(ctx, args[0])

		case "link":
			_ = a.Link(ctx)

		case "disconnect":
			_ = a.Disconnect(ctx)

		case "session":
			_ = a.Session(ctx)

		case "status":
			_ = a.Status(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
