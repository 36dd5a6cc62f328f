package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-wayfinder/pkg/config"
	"github.com/dd0wney/cluso-wayfinder/pkg/logging"
	"github.com/dd0wney/cluso-wayfinder/pkg/navigation"
)

// options holds the persistent flags shared by every subcommand.
type options struct {
	configPath string
	accessible bool
	jsonOutput bool
	verbose    bool
}

// app is what a subcommand needs once configuration has been read.
type app struct {
	cfg    *config.Config
	nav    *navigation.Navigator
	logger logging.Logger
	out    io.Writer
	json   bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "wayfinder",
		Short: "Campus indoor navigation",
		Long: `wayfinder - Find your way around campus.

Routes between locations, finds faculty by schedule, and searches
departments and services of the configured facility (the built-in
sample campus when no facility source is configured).

Examples:
  wayfinder navigate MIS Library           # Shortest route
  wayfinder faculty "Mark Valencia" --day Monday
  wayfinder search print                   # Services, rooms and people
  wayfinder ask "where is the registrar?"  # Natural-language question
  wayfinder shell                          # Interactive session`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to a YAML or JSON config file")
	root.PersistentFlags().BoolVar(&opts.accessible, "accessible", false, "Route over elevators only")
	root.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "Print JSON instead of text")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log debug output to stderr")

	root.AddCommand(
		newNavigateCmd(opts),
		newFacultyCmd(opts),
		newSearchCmd(opts),
		newResolveCmd(opts),
		newQuickCmd(opts),
		newRestrictCmd(opts),
		newAskCmd(opts),
		newExportCmd(opts),
		newHashPasswordCmd(),
		newGenCertCmd(),
		newShellCmd(opts),
	)
	return root
}

// loadApp reads configuration and builds the navigator for one invocation.
func loadApp(cmd *cobra.Command, opts *options) (*app, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.accessible {
		cfg.Facility.Accessibility = true
	}

	level := logging.WarnLevel
	if opts.verbose {
		level = logging.DebugLevel
	}
	logger := logging.NewTextLogger(cmd.ErrOrStderr(), level)

	nav, err := cfg.NewNavigator(cmd.Context(), navigation.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to load facility: %w", err)
	}

	return &app{
		cfg:    cfg,
		nav:    nav,
		logger: logger,
		out:    cmd.OutOrStdout(),
		json:   opts.jsonOutput,
	}, nil
}

// emit prints v as indented JSON when --json is set, or calls text otherwise.
func (a *app) emit(v any, text func(w io.Writer)) error {
	if a.json {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(a.out)
	return nil
}

// readSecret returns args[0], or the first line of stdin when no argument is given.
func readSecret(args []string, in io.Reader) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if in == nil {
		in = os.Stdin
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
