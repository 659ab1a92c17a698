package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dmitrijs2005/punchkeeper/internal/client/client"
	"github.com/dmitrijs2005/punchkeeper/internal/client/services"
	"github.com/dmitrijs2005/punchkeeper/internal/client/timeline"
	"github.com/dmitrijs2005/punchkeeper/internal/common"
	"github.com/dmitrijs2005/punchkeeper/internal/validator"
)

var errUsage = errors.New("usage")

// command is one REPL verb.
type command struct {
	name    string
	aliases []string
	usage   string
	help    string
	run     func(ctx context.Context, args []string) error
}

func lookup(cmds []command) map[string]command {
	m := make(map[string]command, len(cmds))
	for _, c := range cmds {
		m[c.name] = c
		for _, alias := range c.aliases {
			m[alias] = c
		}
	}
	return m
}

func printHelp(w io.Writer, cmds []command) {
	sorted := append([]command(nil), cmds...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].name < sorted[j].name })

	fmt.Fprintln(w, "Available commands:")
	for _, c := range sorted {
		fmt.Fprintf(w, "  %-34s %s\n", c.usage, c.help)
	}
	fmt.Fprintf(w, "  %-34s %s\n", "exit | quit", "leave the program")
}

// runREPL reads one command per line from reader and dispatches it. The
// loop exits on EOF, on "exit" or "quit", or when ctx is cancelled. A
// failing command is reported and the loop goes on.
func runREPL(ctx context.Context, cmds []command, statusFn func() string, reader *bufio.Reader, w io.Writer, prompt bool) {
	table := lookup(cmds)

	for {
		if ctx.Err() != nil {
			return
		}
		if prompt {
			fmt.Fprintf(w, "pk %s> ", statusFn())
		}
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		name, args := parts[0], parts[1:]

		switch name {
		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return
		case "help", "?":
			printHelp(w, cmds)
			continue
		}

		cmd, ok := table[name]
		if !ok {
			fmt.Fprintln(w, "Unknown command:", name)
			continue
		}
		if err := cmd.run(ctx, args); err != nil {
			if errors.Is(err, errUsage) {
				fmt.Fprintln(w, "Usage:", cmd.usage)
				continue
			}
			reportError(w, err)
		}
	}
}

// reportError prints err the way a user should see it.
func reportError(w io.Writer, err error) {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		fmt.Fprintln(w, "Please fix:")
		for _, v := range verrs {
			fmt.Fprintf(w, "  %s: %s\n", v.Field, v.Message)
		}
	case errors.Is(err, services.ErrActionInProgress),
		errors.Is(err, services.ErrDuplicateAdjustment),
		errors.Is(err, services.ErrNotEditable),
		errors.Is(err, timeline.ErrDraftNotFound),
		errors.Is(err, errNoEditor),
		errors.Is(err, common.ErrorNotFound):
		fmt.Fprintln(w, "Error:", err)
	case errors.Is(err, client.ErrConflict), errors.Is(err, client.ErrRejected):
		fmt.Fprintln(w, "Error: refused by the server:", err)
	case errors.Is(err, client.ErrUnauthorized):
		fmt.Fprintln(w, "Error: the server rejected the access token")
	case errors.Is(err, client.ErrUnavailable):
		fmt.Fprintln(w, "Error: server unavailable, try again when online")
	default:
		fmt.Fprintln(w, "Error: the command failed, see the log for details")
	}
}
