// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/spf13/cobra"
)

// newDetectCommand creates the `tailor detect` command.
func newDetectCommand(app *App) *cobra.Command {
	var raw bool

	detectCmd := &cobra.Command{
		Use:   "detect",
		Short: "Show this machine's install profile",
		Long: `Show the machine profile manifests are matched against.

The profile is detected fresh on every run: OS family and version, CPU
architecture, total memory, available package managers, and the
fingerprint that identifies this machine in install plans and records.

Examples:
  tailor detect            Styled profile
  tailor detect --raw      Profile as JSON`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			profile, err := app.Host.Detect(cmd.Context())
			if err != nil {
				id, msg := classifyInstallError(err, verbose)
				return failCommand(cmd, newServiceError(err, id, msg))
			}

			if raw {
				return printRaw(cmd.OutOrStdout(), profile)
			}
			renderProfile(cmd.OutOrStdout(), profile)
			return nil
		},
	}

	detectCmd.Flags().BoolVar(&raw, "raw", false, "print the profile as JSON")

	return detectCmd
}
