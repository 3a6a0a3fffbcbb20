// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"io/fs"

	"github.com/spf13/cobra"

	"tailor-cli/internal/hostenv"
	"tailor-cli/internal/issue"
	"tailor-cli/internal/planner"
	"tailor-cli/pkg/manifest"
)

// newPlanCommand creates the `tailor plan` command.
func newPlanCommand(app *App) *cobra.Command {
	var (
		raw          bool
		workRootFlag string
	)

	planCmd := &cobra.Command{
		Use:   "plan <manifest>",
		Short: "Compile the install plan for this machine",
		Long: `Compile and show the install plan a manifest produces on this machine,
without executing anything.

Planning parses the manifest, profiles the host, selects the first
compatible mode in declaration order, and compiles that mode into the
exact step sequence an install would run. Planning twice on the same
machine with the same manifest produces the same plan.

Examples:
  tailor plan tailor.json                     Styled plan
  tailor plan tailor.json --raw               Plan as JSON
  tailor plan tailor.json --work-root ./app   Resolve paths under ./app`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, _, svcErr := compilePlan(cmd.Context(), app, args[0], workRootFlag)
			if svcErr != nil {
				return failCommand(cmd, svcErr)
			}

			if raw {
				return printRaw(cmd.OutOrStdout(), plan)
			}
			renderPlan(cmd.OutOrStdout(), plan)
			return nil
		},
	}

	planCmd.Flags().BoolVar(&raw, "raw", false, "print the plan as JSON")
	planCmd.Flags().StringVar(&workRootFlag, "work-root", "", "directory relative step paths resolve against")

	return planCmd
}

// compilePlan runs the planning pipeline shared by `plan` and `install`:
// parse the manifest, profile the host, select a mode, compile the plan.
// The profile is returned alongside the plan because outcome records
// need fields (CPU architecture) the plan does not carry.
func compilePlan(ctx context.Context, app *App, manifestPath, workRootFlag string) (*planner.Plan, *hostenv.Profile, *ServiceError) {
	m, err := manifest.Parse(manifestPath)
	if err != nil {
		id := issue.ManifestParseErrorId
		if errors.Is(err, fs.ErrNotExist) {
			id = issue.ManifestNotFoundId
		}
		return nil, nil, newServiceError(err, id, styledErrorLine(err, verbose))
	}

	profile, err := app.Host.Detect(ctx)
	if err != nil {
		id, msg := classifyInstallError(err, verbose)
		return nil, nil, newServiceError(err, id, msg)
	}

	mode, err := planner.SelectMode(m, profile)
	if err != nil {
		var selErr *planner.NoCompatibleModeError
		if errors.As(err, &selErr) {
			return nil, nil, newServiceError(err, issue.NoCompatibleModeId, renderRejections(selErr))
		}
		id, msg := classifyInstallError(err, verbose)
		return nil, nil, newServiceError(err, id, msg)
	}

	plan, err := planner.Compile(m, mode, profile, planner.Options{WorkRoot: app.workRoot(workRootFlag)})
	if err != nil {
		id, msg := classifyInstallError(err, verbose)
		return nil, nil, newServiceError(err, id, msg)
	}

	return plan, profile, nil
}
