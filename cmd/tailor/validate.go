// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/cobra"

	"tailor-cli/internal/issue"
	"tailor-cli/pkg/manifest"
)

// newValidateCommand creates the `tailor validate` command.
// It parses and validates a manifest without touching the host:
// no detection, no selection, no execution.
func newValidateCommand(_ *App) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <manifest>",
		Short: "Validate a manifest without installing",
		Long: `Validate a manifest: schema check, then structural checks over every
mode, step, requirement, and runtime environment declaration.

All problems are reported in a single pass, so several authoring
mistakes do not take several runs to surface. Validation never profiles
the machine; a manifest that is valid here is valid everywhere.

Examples:
  tailor validate tailor.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args[0])
		},
	}
}

// runValidate renders the validation checklist for one manifest.
func runValidate(cmd *cobra.Command, manifestPath string) error {
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	absPath, err := filepath.Abs(manifestPath)
	if err != nil {
		absPath = manifestPath
	}

	fmt.Fprintln(stdout, headerStyle.Render("Manifest Validation"))
	fmt.Fprintf(stdout, "%s Path: %s\n", infoIcon, pathStyle.Render(absPath))
	fmt.Fprintln(stdout)

	m, err := manifest.Parse(manifestPath)
	if err != nil {
		var valErr *manifest.ValidationError
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return failCommand(cmd, newServiceError(err, issue.ManifestNotFoundId,
				fmt.Sprintf("%s %s\n", errorIcon, err)))

		case errors.As(err, &valErr):
			// The document parsed and type-checked; the structural pass
			// found authoring problems. Enumerate every one.
			fmt.Fprintf(stdout, "%s Schema validation passed\n", successIcon)
			fmt.Fprintln(stderr)
			fmt.Fprintf(stderr, "%s Structural validation failed with %d issue(s):\n", errorIcon, len(valErr.Issues))
			fmt.Fprintln(stderr)
			for i, iss := range valErr.Issues {
				issueNum := fmt.Sprintf("  %d.", i+1)
				typeTag := issueTypeStyle.Render(fmt.Sprintf("[%s]", iss.Type))
				if iss.Path != "" {
					fmt.Fprintf(stderr, "%s %s %s\n", issueNum, typeTag, pathStyle.Render(iss.Path))
					fmt.Fprintf(stderr, "     %s\n", iss.Message)
				} else {
					fmt.Fprintf(stderr, "%s %s %s\n", issueNum, typeTag, iss.Message)
				}
			}
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true
			return &ExitError{Code: 1, Err: err}

		default:
			fmt.Fprintf(stderr, "%s Schema validation failed\n", errorIcon)
			fmt.Fprintln(stderr)
			fmt.Fprintf(stderr, "  %s\n", err)
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true
			return &ExitError{Code: 1, Err: err}
		}
	}

	fmt.Fprintf(stdout, "%s Schema validation passed\n", successIcon)
	fmt.Fprintf(stdout, "%s Structural validation passed\n", successIcon)
	fmt.Fprintln(stdout)
	fmt.Fprintf(stdout, "%s Manifest is valid: %s %s, %d mode(s)\n",
		successIcon, CmdStyle.Render(m.AppName), m.Version, len(m.Modes))
	return nil
}
