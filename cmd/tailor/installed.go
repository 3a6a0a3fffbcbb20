// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/spf13/cobra"

	"tailor-cli/internal/issue"
	"tailor-cli/internal/state"
)

// newListInstalledCommand creates the `tailor list-installed` command.
func newListInstalledCommand(app *App) *cobra.Command {
	var raw bool

	listCmd := &cobra.Command{
		Use:   "list-installed",
		Short: "Show recorded install outcomes",
		Long: `Show every install outcome recorded on this machine, in the order the
installs ran.

Each record names the application, version, mode, target platform, and
whether the run succeeded. Records are appended by 'tailor install' and
never rewritten.

Examples:
  tailor list-installed            Styled history
  tailor list-installed --raw      Records as JSON`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Both failure paths here are history-store problems; the
			// issue ID is fixed rather than classified.
			store, err := app.historyStore()
			if err != nil {
				return failCommand(cmd, newServiceError(err, issue.StateStoreFailedId, styledErrorLine(err, verbose)))
			}

			records, err := store.Load()
			if err != nil {
				return failCommand(cmd, newServiceError(err, issue.StateStoreFailedId, styledErrorLine(err, verbose)))
			}

			if raw {
				// The machine-readable form is always an array, never null.
				if records == nil {
					records = []state.Record{}
				}
				return printRaw(cmd.OutOrStdout(), records)
			}

			renderHistory(cmd.OutOrStdout(), store.Path(), records)
			return nil
		},
	}

	listCmd.Flags().BoolVar(&raw, "raw", false, "print the records as JSON")

	return listCmd
}
