package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dd0wney/cluso-wayfinder/pkg/assistant"
	"github.com/dd0wney/cluso-wayfinder/pkg/overlay"
	"github.com/dd0wney/cluso-wayfinder/pkg/store"
)

// shell is a line-oriented session. Lines that are not commands go to the assistant.
type shell struct {
	app     *app
	bot     *assistant.Assistant
	overlay *overlay.Manager
	scanner *bufio.Scanner
	start   string
}

func newShell(a *app, in io.Reader, st store.RestrictionStore) *shell {
	start := a.cfg.Assistant.DefaultStart
	return &shell{
		app: a,
		bot: assistant.New(a.nav,
			assistant.WithDefaultStart(start),
			assistant.WithLogger(a.logger)),
		overlay: overlay.NewManager(a.nav, st, overlay.WithLogger(a.logger)),
		scanner: bufio.NewScanner(in),
		start:   start,
	}
}

func printBanner(w io.Writer) {
	fmt.Fprintln(w, rule())
	fmt.Fprintln(w, headingStyle.Render("CAMPUS NAVIGATION"))
	fmt.Fprintln(w, rule())
}

func (sh *shell) run(ctx context.Context) error {
	w := sh.app.out
	printBanner(w)

	stats := sh.app.nav.Stats()
	fmt.Fprintf(w, "%d locations on %d floors (%s mode)\n", stats.Nodes, stats.Floors, stats.Mode)
	fmt.Fprintln(w, "Type 'help' for available commands, 'exit' to quit")
	fmt.Fprintln(w)

	for {
		fmt.Fprintf(w, "wayfinder [%s]> ", sh.start)

		if !sh.scanner.Scan() {
			break
		}

		input := strings.TrimSpace(sh.scanner.Text())
		if input == "" {
			continue
		}

		if input == "exit" || input == "quit" {
			fmt.Fprintln(w, "Goodbye!")
			break
		}

		sh.execute(ctx, input)
		fmt.Fprintln(w)
	}
	return sh.scanner.Err()
}

func (sh *shell) execute(ctx context.Context, input string) {
	w := sh.app.out
	command, rest, _ := strings.Cut(input, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(command) {
	case "help":
		sh.showHelp()

	case "stats", "status":
		s := sh.app.nav.Stats()
		fmt.Fprintf(w, "Mode:        %s\n", s.Mode)
		fmt.Fprintf(w, "Locations:   %d\n", s.Nodes)
		fmt.Fprintf(w, "Corridors:   %d\n", s.Edges)
		fmt.Fprintf(w, "Floors:      %d\n", s.Floors)
		fmt.Fprintf(w, "Faculty:     %d\n", s.Faculty)
		fmt.Fprintf(w, "Restricted:  %d\n", s.Restricted)

	case "from":
		if rest == "" {
			fmt.Fprintln(w, "Usage: from <location>")
			return
		}
		node, err := sh.app.nav.FindLocation(rest)
		if err != nil {
			printError(w, err)
			return
		}
		sh.start = node.Name
		fmt.Fprintf(w, "Starting point set to %s\n", node.DisplayName())

	case "search", "s":
		if rest == "" {
			fmt.Fprintln(w, "Usage: search <text>")
			return
		}
		printSearch(w, sh.app.nav.Search(rest))

	case "quick":
		for _, name := range sh.app.nav.QuickAccessNames() {
			if node, err := sh.app.nav.QuickAccess(name); err == nil {
				fmt.Fprintf(w, "  %-12s %s\n", name, node.DisplayName())
			}
		}

	case "restrict", "open":
		if rest == "" {
			fmt.Fprintf(w, "Usage: %s <location>\n", command)
			return
		}
		change, err := sh.overlay.Apply(ctx, rest, command == "restrict", "shell")
		if err != nil {
			printError(w, err)
			return
		}
		printChange(w, change)

	case "restricted":
		nodes := sh.overlay.Restricted()
		if len(nodes) == 0 {
			fmt.Fprintln(w, "No restricted locations")
		}
		for _, n := range nodes {
			fmt.Fprintf(w, "  %s\n", n.DisplayName())
		}

	default:
		resp := sh.bot.Ask(input, sh.start)
		if resp.Kind == assistant.KindError {
			fmt.Fprintln(w, errStyle.Render(resp.Message))
			return
		}
		fmt.Fprintln(w, resp.Message)
	}
}

func (sh *shell) showHelp() {
	fmt.Fprint(sh.app.out, `Commands:
  from <location>        Set the starting point for questions
  search <text>          Search locations, services and faculty
  quick                  List quick-access shortcuts
  restrict <location>    Mark a location busy for this session
  open <location>        Clear a restriction
  restricted             List restricted locations
  stats                  Facility statistics
  exit                   Quit

Anything else is answered as a question, e.g.
  how do I get to the library
  where is sir Valencia
  navigate from Registrar to Comlab1
`)
}
