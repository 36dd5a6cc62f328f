package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-wayfinder/pkg/assistant"
	"github.com/dd0wney/cluso-wayfinder/pkg/auth"
	"github.com/dd0wney/cluso-wayfinder/pkg/facility"
	"github.com/dd0wney/cluso-wayfinder/pkg/navigation"
	"github.com/dd0wney/cluso-wayfinder/pkg/overlay"
	"github.com/dd0wney/cluso-wayfinder/pkg/store"
	tlspkg "github.com/dd0wney/cluso-wayfinder/pkg/tls"
)

func newNavigateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "navigate FROM TO",
		Aliases: []string{"nav", "route"},
		Short:   "Find the shortest route between two locations",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}
			route, err := a.nav.Navigate(args[0], args[1])
			if err != nil {
				return err
			}
			return a.emit(route, func(w io.Writer) { printRoute(w, route) })
		},
	}
}

func newFacultyCmd(opts *options) *cobra.Command {
	var from, day string
	var list bool

	cmd := &cobra.Command{
		Use:   "faculty NAME",
		Short: "Route to a faculty member's room for a given day",
		Long: `Route to a faculty member's room.

With --day the member's availability on that day is checked; a member who is
not available is still routed to, with a note. With --list the member's rooms
are listed instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}

			if list {
				locs, err := a.nav.FacultyLocations(args[0])
				if err != nil {
					return err
				}
				return a.emit(locs, func(w io.Writer) { printFacultyLocations(w, args[0], locs) })
			}

			var weekday *time.Weekday
			if day != "" {
				d, err := navigation.ParseWeekday(day)
				if err != nil {
					return err
				}
				weekday = &d
			}
			if from == "" {
				from = a.cfg.Assistant.DefaultStart
			}

			fr, err := a.nav.NavigateToFaculty(from, args[0], weekday)
			if err != nil {
				return err
			}
			return a.emit(fr, func(w io.Writer) { printFacultyRoute(w, fr) })
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Starting location (default: assistant.default_start)")
	cmd.Flags().StringVar(&day, "day", "", "Day of the week, e.g. Monday")
	cmd.Flags().BoolVar(&list, "list", false, "List the member's rooms instead of routing")
	return cmd
}

func newSearchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "search QUERY",
		Short: "Search locations, departments, services and faculty",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}
			results := a.nav.Search(strings.Join(args, " "))
			return a.emit(results, func(w io.Writer) { printSearch(w, results) })
		},
	}
}

func newResolveCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve QUERY",
		Short: "Show every location a query could mean, best match first",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}
			q := strings.Join(args, " ")
			cands := a.nav.LocationCandidates(q)
			return a.emit(cands, func(w io.Writer) { printCandidates(w, q, cands) })
		},
	}
}

func newQuickCmd(opts *options) *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "quick [NAME]",
		Short: "List quick-access shortcuts, or route to one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}

			if len(args) == 0 {
				names := a.nav.QuickAccessNames()
				return a.emit(names, func(w io.Writer) {
					for _, name := range names {
						node, err := a.nav.QuickAccess(name)
						if err != nil {
							continue
						}
						fmt.Fprintf(w, "  %-12s %s %s\n", name, node.DisplayName(), dimStyle.Render("["+node.Floor+"]"))
					}
				})
			}

			node, err := a.nav.QuickAccess(strings.ToLower(args[0]))
			if err != nil {
				return err
			}
			if from == "" {
				return a.emit(node, func(w io.Writer) {
					fmt.Fprintf(w, "%s: %s [%s]\n", args[0], node.DisplayName(), node.Floor)
				})
			}
			start, err := a.nav.FindLocation(from)
			if err != nil {
				return fmt.Errorf("%w: %q", navigation.ErrStartNotFound, from)
			}
			route, err := a.nav.Route(start.ID, node.ID)
			if err != nil {
				return err
			}
			return a.emit(route, func(w io.Writer) { printRoute(w, route) })
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Route from this location")
	return cmd
}

func newRestrictCmd(opts *options) *cobra.Command {
	var open, list bool
	var actor string

	cmd := &cobra.Command{
		Use:   "restrict [LOCATION]",
		Short: "Mark a location busy or clear it in the configured store",
		Long: `Mark a location as restricted (busy) or open it again.

The change is written to the configured restriction store, so a server using
the same file or postgres store picks it up on its next start. With the
default memory store the change only lasts for this invocation.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !list && len(args) == 0 {
				return fmt.Errorf("a location is required unless --list is set")
			}
			a, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}

			st, err := a.cfg.OpenStore(cmd.Context(), a.logger)
			if err != nil {
				return err
			}
			defer st.Close()

			manager := overlay.NewManager(a.nav, st, overlay.WithLogger(a.logger))
			if _, err := manager.Restore(cmd.Context()); err != nil {
				return err
			}

			if list {
				nodes := manager.Restricted()
				return a.emit(nodes, func(w io.Writer) {
					if len(nodes) == 0 {
						fmt.Fprintln(w, "No restricted locations")
					}
					for _, n := range nodes {
						fmt.Fprintf(w, "  %-20s %s [%s]\n", n.ID, n.DisplayName(), n.Floor)
					}
				})
			}

			change, err := manager.Apply(cmd.Context(), args[0], !open, actor)
			if err != nil {
				return err
			}
			return a.emit(change, func(w io.Writer) { printChange(w, change) })
		},
	}
	cmd.Flags().BoolVar(&open, "clear", false, "Open the location instead of restricting it")
	cmd.Flags().BoolVar(&list, "list", false, "List restricted locations")
	cmd.Flags().StringVar(&actor, "actor", os.Getenv("USER"), "Name recorded with the change")
	return cmd
}

func newAskCmd(opts *options) *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "ask QUESTION",
		Short: "Ask a natural-language navigation question",
		Example: `  wayfinder ask "how do I get to the library from the cashier?"
  wayfinder ask "where is sir Valencia"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}
			bot := assistant.New(a.nav,
				assistant.WithDefaultStart(a.cfg.Assistant.DefaultStart),
				assistant.WithLogger(a.logger))
			resp := bot.Ask(strings.Join(args, " "), from)
			if err := a.emit(resp, func(w io.Writer) { fmt.Fprintln(w, resp.Message) }); err != nil {
				return err
			}
			if resp.Kind == assistant.KindError {
				return fmt.Errorf("no answer")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Starting location for questions that do not name one")
	return cmd
}

func newExportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "export PATH",
		Short: "Write the configured facility to a file",
		Long: `Write the configured facility description to PATH.

The extension picks the format: .json, .yaml or .yml, with a trailing .sz for
snappy compression (campus.json.sz). Useful for seeding a custom facility from
the built-in sample.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}
			src, err := facility.ParseSource(args[0])
			if err != nil {
				return err
			}
			if src.IsS3() {
				return fmt.Errorf("export writes local files only")
			}
			desc, err := a.cfg.LoadFacility(cmd.Context())
			if err != nil {
				return err
			}

			f, err := os.Create(args[0])
			if err != nil {
				return err
			}
			if err := facility.Encode(f, desc, src.Format, src.Compressed); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Wrote %s (%s, compressed=%v)\n", args[0], src.Format, src.Compressed)
			return nil
		},
	}
}

func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [PASSWORD]",
		Short: "Print a bcrypt hash for auth.operator_password_hash",
		Long: `Print a bcrypt hash suitable for auth.operator_password_hash.

The password is read from the first line of stdin when not given as an
argument, which keeps it out of shell history.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readSecret(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func newGenCertCmd() *cobra.Command {
	var (
		certFile, keyFile string
		hosts             []string
		validFor          time.Duration
	)
	cmd := &cobra.Command{
		Use:   "gen-cert",
		Short: "Write a self-signed certificate for server.tls",
		Long: `Write a self-signed ECDSA certificate and key for server.tls.cert_file
and server.tls.key_file. The key file is created with mode 0600.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cert, err := tlspkg.GenerateSelfSignedCert(hosts, validFor)
			if err != nil {
				return err
			}
			if err := tlspkg.SaveCertificate(cert, certFile, keyFile); err != nil {
				return err
			}
			info, err := tlspkg.GetCertificateInfo(certFile)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s and %s\nhosts: %s\nexpires: %s\n",
				certFile, keyFile,
				strings.Join(append(append([]string{}, info.DNSNames...), info.IPAddresses...), ", "),
				info.NotAfter.UTC().Format(time.RFC3339))
			return nil
		},
	}
	defaults := tlspkg.DefaultConfig()
	cmd.Flags().StringVar(&certFile, "cert", "server.crt", "Certificate output path")
	cmd.Flags().StringVar(&keyFile, "key", "server.key", "Private key output path")
	cmd.Flags().StringSliceVar(&hosts, "host", defaults.Hosts, "DNS name or IP address (repeatable)")
	cmd.Flags().DurationVar(&validFor, "valid-for", defaults.ValidFor, "Certificate lifetime")
	return cmd
}

func newShellCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive navigation session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}
			sh := newShell(a, cmd.InOrStdin(), store.NewMemoryStore())
			return sh.run(cmd.Context())
		},
	}
}
