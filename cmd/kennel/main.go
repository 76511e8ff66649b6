package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/five82/kennel/internal/app"
	"github.com/five82/kennel/internal/fakeapi"
	"github.com/five82/kennel/internal/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "kennel: %v\n", err)
		return 1
	}
	return 0
}

type globalFlags struct {
	configPath string
	prefsPath  string
	logLevel   string
}

func newRootCommand() *cobra.Command {
	var flags globalFlags

	browse := func(cmd *cobra.Command, args []string) error {
		opts := app.Options{
			ConfigPath: flags.configPath,
			PrefsPath:  flags.prefsPath,
			LogLevel:   flags.logLevel,
		}
		if len(args) > 0 {
			opts.Location = args[0]
		}
		return app.Run(cmd.Context(), opts)
	}

	root := &cobra.Command{
		Use:           "kennel [location]",
		Short:         "Browse rescue dogs available for adoption",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          browse,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default ~/.config/kennel/config.toml)")
	pf.StringVar(&flags.prefsPath, "prefs", "", "preferences file (default ~/.config/kennel/prefs.toml)")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn or error")

	root.AddCommand(
		&cobra.Command{
			Use:     "browse [location]",
			Short:   "Open the listing browser, e.g. kennel browse '/dogs/puppies?size=Small'",
			Args:    cobra.MaximumNArgs(1),
			RunE:    browse,
			Example: "  kennel browse '/dogs?breed_group=Hound&page=2'",
		},
		newListCommand(&flags),
		newLogsCommand(&flags),
		newFixtureCommand(&flags),
	)
	return root
}

func newListCommand(flags *globalFlags) *cobra.Command {
	var more int
	cmd := &cobra.Command{
		Use:   "list [location]",
		Short: "Print the dogs a location lists",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := app.ListOptions{
				ConfigPath: flags.configPath,
				LogLevel:   flags.logLevel,
				More:       more,
				Logs:       cmd.ErrOrStderr(),
			}
			if len(args) > 0 {
				opts.Location = args[0]
			}
			return app.List(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVar(&more, "more", 0, "extra pages to load after the location's own")
	return cmd
}

func newLogsCommand(flags *globalFlags) *cobra.Command {
	var (
		lines   int
		level   string
		noColor bool
	)
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the end of the browser's log file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Logs(app.LogsOptions{
				ConfigPath: flags.configPath,
				Lines:      lines,
				MinLevel:   level,
				Color:      !noColor,
			}, cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 200, "number of lines to show, 0 for all")
	cmd.Flags().StringVar(&level, "level", "", "hide lines below this level")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable level highlighting")
	return cmd
}

func newFixtureCommand(flags *globalFlags) *cobra.Command {
	var (
		addr    string
		dogs    int
		latency string
	)
	cmd := &cobra.Command{
		Use:   "fixture",
		Short: "Serve a deterministic in-memory Rescue API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := logging.New(logging.Options{Level: flags.logLevel, Output: cmd.ErrOrStderr()})
			if err != nil {
				return err
			}
			delay, err := parseLatency(latency)
			if err != nil {
				return err
			}
			gin.SetMode(gin.ReleaseMode)
			srv := fakeapi.New(fakeapi.Fixtures(dogs), fakeapi.WithLogger(logger), fakeapi.WithLatency(delay))
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8087", "listen address")
	cmd.Flags().IntVar(&dogs, "dogs", 137, "number of fixture dogs")
	cmd.Flags().StringVar(&latency, "latency", "", "delay every response, e.g. 300ms")
	return cmd
}
