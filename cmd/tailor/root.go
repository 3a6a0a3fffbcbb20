// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"tailor-cli/internal/config"
	"tailor-cli/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string
)

// newRootCommand builds the root command and its subcommand tree.
func newRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "tailor",
		Short: "An adaptive application installer",
		Long: TitleStyle.Render("tailor") + SubtitleStyle.Render(" - An adaptive application installer") + `

tailor reads an application's install manifest (tailor.json), profiles
the machine it runs on, selects the best matching installation mode,
and executes that mode's steps in order with live output.

One manifest adapts to every machine: a well-equipped workstation gets
the full developer setup while a lightweight laptop gets the minimal
one, selected automatically from the modes the manifest declares in
priority order.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Obtain the application's tailor.json manifest
  2. Preview what would run: tailor plan tailor.json
  3. Install: tailor install tailor.json

` + SubtitleStyle.Render("Examples:") + `
  tailor detect                  Show this machine's install profile
  tailor plan tailor.json        Compile and show the install plan
  tailor install tailor.json     Run the install
  tailor validate tailor.json    Check a manifest without installing
  tailor list-installed          Show recorded install outcomes`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.Config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: cfgFile})
			if err != nil {
				// A broken config file never blocks the run; the defaults
				// apply and the problem is surfaced once.
				fmt.Fprintln(cmd.ErrOrStderr(), WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
				cfg = config.DefaultConfig()
			}
			app.cfg = cfg
			installLogHandler(cfg.LogLevel, verbose)
			return nil
		},
	}

	// Global flags
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is <config-dir>/tailor/config.cue)")

	// Subcommands
	root.AddCommand(newDetectCommand(app))
	root.AddCommand(newPlanCommand(app))
	root.AddCommand(newInstallCommand(app))
	root.AddCommand(newValidateCommand(app))
	root.AddCommand(newListInstalledCommand(app))
	root.AddCommand(newConfigCommand(app))

	return root
}

// installLogHandler points the process-wide slog default at a styled
// handler writing to stderr. Internal packages log through plain slog
// calls and pick the handler up from here. The --verbose flag forces
// debug level regardless of the configured log_level.
func installLogHandler(level config.LogLevel, verboseMode bool) {
	slogLevel := level.SlogLevel()
	if verboseMode {
		slogLevel = slog.LevelDebug
	}

	handler := log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "tailor",
		Level:  log.Level(slogLevel),
	})
	slog.SetDefault(slog.New(handler))
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute builds the production App and runs the root command.
// This is called by main.main(). It only needs to happen once.
func Execute() {
	app := NewApp(Dependencies{})

	// Use fang.Execute for enhanced Cobra styling.
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version.
	if err := fang.Execute(
		context.Background(),
		newRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
