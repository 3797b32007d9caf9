package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// ErrUsage is returned for an unknown command or wrong arguments.
var ErrUsage = errors.New("usage")

type command struct {
	usage string
	help  string
	run   func(a *App, ctx context.Context, args []string) error
}

var commands = map[string]command{
	"bootstrap":   {"bootstrap", "create the first admin account", (*App).bootstrap},
	"login":       {"login", "sign in and store the session", (*App).login},
	"logout":      {"logout", "revoke and forget the session", (*App).logout},
	"whoami":      {"whoami", "show whether a session is held", (*App).whoami},
	"status":      {"status", "API health and database diagnostics", (*App).status},
	"deals":       {"deals", "list all deals", (*App).deals},
	"deal-toggle": {usageDealToggle, "activate or deactivate a deal", (*App).dealToggle},
	"deal-delete": {usageDealDelete, "delete a deal", (*App).dealDelete},
	"signups":     {"signups", "list early-access signups", (*App).signups},
	"version":     {"version", "print build information", (*App).version},
}

// Run executes the command named by args[0].
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "help" {
		a.help()
		return nil
	}
	cmd, ok := commands[args[0]]
	if !ok {
		a.help()
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}
	return cmd.run(a, ctx, args[1:])
}

func (a *App) help() {
	names := make([]string, 0, len(commands))
	for n := range commands {
		names = append(names, n)
	}
	sort.Strings(names)

	a.printf("Usage: soldctl [flags] <command>\n\nCommands:\n")
	for _, n := range names {
		c := commands[n]
		a.printf("  %-28s %s\n", c.usage, c.help)
	}
}

const (
	usageDealToggle = "deal-toggle <id> <on|off>"
	usageDealDelete = "deal-delete <id>"
)

func usageError(usage string) error {
	return fmt.Errorf("%w: soldctl %s", ErrUsage, usage)
}
