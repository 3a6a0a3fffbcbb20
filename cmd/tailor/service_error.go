// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"tailor-cli/internal/hostenv"
	"tailor-cli/internal/issue"
	"tailor-cli/internal/planner"
	"tailor-cli/internal/provision"
	"tailor-cli/internal/state"
)

// ServiceError is an error that carries optional rendering information for
// the CLI layer. When the CLI layer receives a ServiceError, it renders the
// styled error message (if present) before the issue catalog guidance.
// Always create via newServiceError to enforce the Err-must-be-non-nil invariant.
type ServiceError struct {
	// Err is the underlying error (must not be nil).
	Err error
	// IssueID is the optional issue catalog ID for rendering help text.
	IssueID issue.Id
	// StyledMessage is the optional pre-rendered styled error text.
	StyledMessage string
}

// newServiceError creates a ServiceError with a nil-Err panic guard.
// All construction sites must use this instead of struct literals.
func newServiceError(err error, issueID issue.Id, styledMessage string) *ServiceError {
	if err == nil {
		panic("ServiceError: Err must not be nil")
	}
	return &ServiceError{
		Err:           err,
		IssueID:       issueID,
		StyledMessage: styledMessage,
	}
}

// Error implements the error interface.
func (e *ServiceError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *ServiceError) Unwrap() error { return e.Err }

// renderServiceError renders a ServiceError in the CLI layer.
// It prints any styled message first, then the optional issue help section.
func renderServiceError(stderr io.Writer, svcErr *ServiceError) {
	if svcErr == nil {
		return
	}

	if svcErr.StyledMessage != "" {
		fmt.Fprint(stderr, svcErr.StyledMessage)
	}

	if svcErr.IssueID == 0 {
		return
	}

	if catalogEntry := issue.Get(svcErr.IssueID); catalogEntry != nil {
		rendered, renderErr := catalogEntry.Render("dark")
		if renderErr != nil {
			slog.Warn("failed to render issue catalog entry", "issueID", svcErr.IssueID, "error", renderErr)
		} else {
			fmt.Fprint(stderr, rendered)
		}
	}
}

// classifyInstallError maps planning and execution failures to issue catalog
// IDs and returns a styled message for CLI rendering. Step execution is the
// default classification: it is the phase every unrecognized failure comes
// out of.
func classifyInstallError(err error, verboseMode bool) (issueID issue.Id, styledMsg string) {
	issueID = issue.StepExecutionFailedId

	var (
		compileErr *planner.CompileError
		storeErr   *state.StoreError
	)
	switch {
	case errors.Is(err, hostenv.ErrUnsupportedHost):
		issueID = issue.HostNotSupportedId
	case errors.Is(err, planner.ErrNoCompatibleMode):
		issueID = issue.NoCompatibleModeId
	case errors.Is(err, provision.ErrRuntimeUnavailable):
		issueID = issue.RuntimeUnavailableId
	case errors.As(err, &compileErr):
		issueID = issue.ManifestParseErrorId
	case errors.As(err, &storeErr):
		issueID = issue.StateStoreFailedId
	}

	return issueID, styledErrorLine(err, verboseMode)
}

// styledErrorLine formats the standard one-line error banner rendered
// above issue catalog guidance.
func styledErrorLine(err error, verboseMode bool) string {
	return fmt.Sprintf("\n%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, verboseMode))
}

// failCommand renders a service error and converts it into a silent
// non-zero exit, so Cobra does not re-print the raw error afterwards.
func failCommand(cmd *cobra.Command, svcErr *ServiceError) error {
	renderServiceError(cmd.ErrOrStderr(), svcErr)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return &ExitError{Code: 1, Err: svcErr.Err}
}
