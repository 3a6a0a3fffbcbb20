// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tailor-cli/internal/executor"
	"tailor-cli/internal/hostenv"
	"tailor-cli/internal/issue"
	"tailor-cli/internal/planner"
	"tailor-cli/internal/state"
)

// newInstallCommand creates the `tailor install` command.
func newInstallCommand(app *App) *cobra.Command {
	var (
		raw          bool
		workRootFlag string
	)

	installCmd := &cobra.Command{
		Use:   "install <manifest>",
		Short: "Install an application from its manifest",
		Long: `Install an application: compile the plan for this machine, then run
its steps in order with live output.

Execution halts at the first failing step; the steps after it are not
run. Every completed run, success or failure, appends one outcome
record to the install history. Re-running after a failure starts again
from the first step.

Steps have no timeout: a command that hangs blocks the install until
it exits or the run is interrupted with Ctrl-C. Interrupted runs leave
no history record.

Examples:
  tailor install tailor.json                     Install
  tailor install tailor.json --work-root ./app   Install under ./app
  tailor install tailor.json --raw               Also print the result as JSON`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd, app, args[0], workRootFlag, raw)
		},
	}

	installCmd.Flags().BoolVar(&raw, "raw", false, "print the execution result as JSON")
	installCmd.Flags().StringVar(&workRootFlag, "work-root", "", "directory relative step paths resolve against")

	return installCmd
}

// runInstall executes the full install flow: plan, stream the run,
// append the outcome record, summarize.
func runInstall(cmd *cobra.Command, app *App, manifestPath, workRootFlag string, raw bool) error {
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	plan, profile, svcErr := compilePlan(cmd.Context(), app, manifestPath, workRootFlag)
	if svcErr != nil {
		return failCommand(cmd, svcErr)
	}

	fmt.Fprintf(stdout, "%s Installing %s %s (mode %s, %d step(s))\n\n",
		infoIcon, CmdStyle.Render(plan.AppName), plan.AppVersion, CmdStyle.Render(plan.ModeName), len(plan.Steps))

	exec := &executor.Executor{Out: stdout, Err: stderr}
	result, execErr := exec.Execute(cmd.Context(), plan)

	// An interrupted run appends no record: a record describes a
	// completed execution, and a run the user cancelled is not one.
	if execErr != nil && cmd.Context().Err() != nil {
		fmt.Fprintln(stderr)
		fmt.Fprintf(stderr, "%s Install interrupted at step %d/%d\n",
			errorIcon, result.FailedStepIndex+1, result.TotalSteps)
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return &ExitError{Code: 1, Err: execErr}
	}

	record, recordErr := appendRecord(app, plan, profile, result)
	if recordErr != nil {
		// A failed history write is reported but never changes the
		// install's own outcome.
		renderServiceError(stderr, newServiceError(recordErr, issue.StateStoreFailedId,
			fmt.Sprintf("\n%s %s\n", WarningStyle.Render("Warning:"), recordErr.Error())))
	}

	if raw {
		if err := printRaw(stdout, result); err != nil {
			return err
		}
	}

	if execErr != nil {
		id, msg := classifyInstallError(execErr, verbose)
		renderServiceError(stderr, newServiceError(execErr, id, msg))
		fmt.Fprintln(stderr)
		fmt.Fprintf(stderr, "%s Install failed at step %d/%d\n",
			errorIcon, result.FailedStepIndex+1, result.TotalSteps)
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return &ExitError{Code: 1, Err: execErr}
	}

	fmt.Fprintln(stdout)
	fmt.Fprintf(stdout, "%s %s %s installed (mode %s, %d/%d steps)\n",
		successIcon, CmdStyle.Render(plan.AppName), plan.AppVersion, plan.ModeName,
		result.CompletedSteps, result.TotalSteps)
	if recordErr == nil {
		fmt.Fprintf(stdout, "%s Recorded as %s\n", infoIcon, VerboseStyle.Render(record.ID))
	}
	return nil
}

// appendRecord persists the outcome record for a completed run and
// returns the stored record, ID assigned.
func appendRecord(app *App, plan *planner.Plan, profile *hostenv.Profile, result *executor.Result) (state.Record, error) {
	store, err := app.historyStore()
	if err != nil {
		return state.Record{}, err
	}

	return store.Append(state.Record{
		AppName:     plan.AppName,
		AppVersion:  plan.AppVersion,
		Mode:        plan.ModeName,
		OSFamily:    profile.OSFamily,
		Arch:        profile.Arch,
		Fingerprint: plan.Fingerprint,
		Status:      result.Status,
		Timestamp:   result.FinishedAt,
	})
}
