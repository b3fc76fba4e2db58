package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"unsort/internal/application"
	"unsort/internal/bootstrap"
	"unsort/internal/config"
	"unsort/internal/logging"
)

var (
	opts   config.Options
	cfg    *config.Config
	ws     *application.Workspace
	closer io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "unsort-cli",
	Short: "CLI for the unsort memo clustering engine",
	Long: `unsort-cli writes notes and browses the clusters they fall into.

Notes are grouped into people, detected topics, your own categories and the
categories found by the memory service. Duplicate memory items are folded
together when a cluster is shown.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		var err error
		cfg, err = config.Load(opts)
		if err != nil {
			return err
		}
		if cmd.Annotations["workspace"] == "none" {
			return nil
		}

		logger, c, err := logging.Open(cfg.LogFile.Value, cfg.LogLevel.Value, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		closer = c

		ws, err = bootstrap.Workspace(cmd.Context(), cfg, logger)
		return err
	},
}

// Execute runs the root command
func Execute() {
	err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run executes args against the command tree and releases the workspace
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	err := rootCmd.ExecuteContext(ctx)
	return errors.Join(err, cleanup())
}

func cleanup() error {
	var errs []error
	if ws != nil {
		errs = append(errs, ws.Close())
		ws = nil
	}
	if closer != nil {
		errs = append(errs, closer.Close())
		closer = nil
	}
	return errors.Join(errs...)
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", "", "path to the config file (default $UNSORT_CONFIG or ~/.config/unsort/config.yaml)")
	flags.StringVar(&opts.DataDir, "data-dir", "", "directory holding notes and preferences")
	flags.StringVar(&opts.Store, "store", "", "document store: json or sqlite")
	flags.StringVar(&opts.MemUURL, "memu-url", "", "memory service base URL")
	flags.StringVar(&opts.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&opts.LogFile, "log-file", "", "log file (default stderr)")
	flags.BoolVar(&opts.Offline, "offline", false, "do not contact the memory service")
}

// GetWorkspace returns the initialized workspace
func GetWorkspace() *application.Workspace {
	return ws
}

// notFound turns a Found=false command result into a command error
func notFound(message string) error {
	return errors.New(message)
}
