// SPDX-License-Identifier: MPL-2.0

package executor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"tailor-cli/internal/planner"
	"tailor-cli/internal/provision"
	"tailor-cli/pkg/manifest"
	"tailor-cli/pkg/types"
)

type (
	// Executor runs compiled plans. The zero value is usable and
	// streams to the process's stdout and stderr.
	Executor struct {
		// Out receives step headers and step stdout live. Defaults to
		// os.Stdout.
		Out io.Writer
		// Err receives step stderr live, so a step's error output lands
		// on the caller's error channel. Defaults to os.Stderr.
		Err io.Writer
	}

	// Result describes one complete execution attempt.
	Result struct {
		// Status is success or failed.
		Status types.InstallStatus `json:"status"`
		// FailedStepIndex is the zero-based index of the failing step,
		// -1 on success.
		FailedStepIndex int `json:"failed_step_index"`
		// CompletedSteps counts steps that finished successfully.
		CompletedSteps int `json:"completed_steps"`
		// TotalSteps is the plan's step count.
		TotalSteps int `json:"total_steps"`
		// StartedAt and FinishedAt bound the run, in UTC.
		StartedAt  time.Time `json:"started_at"`
		FinishedAt time.Time `json:"finished_at"`
		// Output is the captured stream: headers, step stdout, and step
		// stderr interleaved in arrival order, also written live while
		// the run progressed.
		Output string `json:"output"`
	}

	// StepError reports the step that halted a run.
	StepError struct {
		// Index is the step's zero-based position in the plan.
		Index int
		// Kind is the step kind ("run", "download", ...) or
		// "provision" for runtime provisioning steps.
		Kind string
		// ExitCode is the shell exit status for run steps, -1 for
		// every other failure.
		ExitCode int
		// Err is the underlying failure.
		Err error
	}
)

// Error implements the error interface.
func (e *StepError) Error() string {
	if e.ExitCode > 0 {
		return fmt.Sprintf("step %d (%s) failed with exit code %d", e.Index+1, e.Kind, e.ExitCode)
	}
	return fmt.Sprintf("step %d (%s) failed: %v", e.Index+1, e.Kind, e.Err)
}

// Unwrap returns the underlying failure for errors.Is/As checks.
func (e *StepError) Unwrap() error {
	return e.Err
}

// Execute walks the plan's steps in order. The returned Result always
// describes what happened, error included: on failure it carries the
// failing step's index and the output up to the halt. A cancelled
// context surfaces as the context's error with the Result marked
// failed at the interrupted step.
func (e *Executor) Execute(ctx context.Context, plan *planner.Plan) (*Result, error) {
	capture := &syncWriter{}
	stdout := io.MultiWriter(e.output(), capture)
	stderr := io.MultiWriter(e.errOutput(), capture)

	result := &Result{
		Status:          types.StatusSuccess,
		FailedStepIndex: -1,
		TotalSteps:      len(plan.Steps),
		StartedAt:       time.Now().UTC(),
	}

	for i := range plan.Steps {
		fmt.Fprintf(stdout, "==> [%d/%d] %s\n", i+1, len(plan.Steps), plan.Steps[i].Desc)

		if err := e.executeStep(ctx, plan, i, stdout, stderr); err != nil {
			result.Status = types.StatusFailed
			result.FailedStepIndex = i
			result.FinishedAt = time.Now().UTC()
			result.Output = capture.String()
			if ctxErr := ctx.Err(); ctxErr != nil {
				return result, ctxErr
			}
			return result, err
		}
		result.CompletedSteps++
	}

	result.FinishedAt = time.Now().UTC()
	result.Output = capture.String()
	return result, nil
}

// executeStep dispatches one resolved step by kind and wraps any
// failure in a *StepError.
func (e *Executor) executeStep(ctx context.Context, plan *planner.Plan, index int, stdout, stderr io.Writer) error {
	step := &plan.Steps[index]

	exitCode := -1
	var err error
	switch {
	case step.Provision != nil:
		err = provision.Apply(ctx, *step.Provision)
	case step.Step == nil:
		err = fmt.Errorf("step carries neither a manifest step nor a provisioning action")
	default:
		switch step.Step.Kind() {
		case manifest.StepRun:
			exitCode, err = e.runShell(ctx, plan.OS, step.Ctx, step.Step.Run, stdout, stderr)
		case manifest.StepDownload:
			err = e.download(ctx, step.Ctx, step.Step.Download)
		case manifest.StepExtract:
			err = e.extract(step.Ctx, step.Step.Extract)
		case manifest.StepTemplateConfig:
			err = e.template(step.Ctx, step.Step.TemplateConfig)
		default:
			// Compilation rejects unknown steps; reaching here means the
			// plan was built by hand.
			err = fmt.Errorf("unknown step kind %q", step.Step.Kind())
		}
	}

	if err != nil {
		return &StepError{Index: index, Kind: stepKindLabel(step), ExitCode: exitCode, Err: err}
	}
	return nil
}

// stepKindLabel names a resolved step's kind for errors and records.
func stepKindLabel(step *planner.ResolvedStep) string {
	if step.Provision != nil {
		return "provision"
	}
	if step.Step != nil {
		return string(step.Step.Kind())
	}
	return "invalid"
}

// output returns the live stdout writer, defaulting to os.Stdout.
func (e *Executor) output() io.Writer {
	if e.Out != nil {
		return e.Out
	}
	return os.Stdout
}

// errOutput returns the live stderr writer, defaulting to os.Stderr.
func (e *Executor) errOutput() io.Writer {
	if e.Err != nil {
		return e.Err
	}
	return os.Stderr
}

// syncWriter serializes writes into one capture buffer. A run step's
// stdout and stderr are copied by separate goroutines inside os/exec,
// so the shared capture needs the lock even though each live writer
// has only one producer.
type syncWriter struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// Write implements io.Writer.
func (w *syncWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

// String returns everything captured so far.
func (w *syncWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.String()
}
