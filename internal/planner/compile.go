// SPDX-License-Identifier: MPL-2.0

package planner

import (
	"fmt"

	"tailor-cli/internal/hostenv"
	"tailor-cli/internal/provision"
	"tailor-cli/pkg/manifest"
)

type (
	// Options configure plan compilation.
	Options struct {
		// WorkRoot is the directory relative step destinations and
		// runtime roots resolve against. Empty means the process
		// working directory (".").
		WorkRoot string
	}

	// CompileError reports a mode that cannot be compiled into a plan.
	CompileError struct {
		// Mode is the mode being compiled.
		Mode string
		// StepIndex is the offending step's position in the mode's
		// step list, or -1 when the problem is not step-specific.
		StepIndex int
		// Reason describes what is wrong.
		Reason string
	}
)

// Error implements the error interface.
func (e *CompileError) Error() string {
	if e.StepIndex >= 0 {
		return fmt.Sprintf("cannot compile mode %q: step %d: %s", e.Mode, e.StepIndex, e.Reason)
	}
	return fmt.Sprintf("cannot compile mode %q: %s", e.Mode, e.Reason)
}

// Compile turns a selected mode into the executable plan for the
// profiled host. Manifest steps keep their declared order exactly; the
// compiler never reorders, merges, or deduplicates them. When the mode
// requests a runtime environment its provisioning actions are
// prepended and every run step's context carries the runtime's PATH
// prefixes and environment.
func Compile(m *manifest.Manifest, mode *manifest.Mode, p *hostenv.Profile, opts Options) (*Plan, error) {
	workRoot := opts.WorkRoot
	if workRoot == "" {
		workRoot = "."
	}

	steps := mode.StepsFor(p.OSFamily)
	if len(steps) == 0 {
		return nil, &CompileError{
			Mode:      mode.Name,
			StepIndex: -1,
			Reason:    fmt.Sprintf("no steps declared for %s", p.OSFamily),
		}
	}

	actions, rctx, err := provision.Plan(mode.RuntimeEnv, workRoot, p.OSFamily)
	if err != nil {
		return nil, &CompileError{Mode: mode.Name, StepIndex: -1, Reason: err.Error()}
	}

	baseCtx := ExecContext{WorkRoot: workRoot}
	runCtx := ExecContext{
		WorkRoot:     workRoot,
		Env:          rctx.Env,
		PathPrefixes: rctx.PathPrefixes,
		RuntimeLabel: rctx.Label,
	}

	resolved := make([]ResolvedStep, 0, len(actions)+len(steps))
	for i := range actions {
		resolved = append(resolved, ResolvedStep{
			Index:     len(resolved),
			Desc:      actions[i].Description(),
			Provision: &actions[i],
			Ctx:       baseCtx,
		})
	}

	for i := range steps {
		step := &steps[i]
		if step.Kind() == manifest.StepUnknown {
			reason := "step object has no fields"
			if keys := step.UnknownKeys(); len(keys) > 0 {
				reason = fmt.Sprintf("unrecognized step type %q", keys[0])
			}
			return nil, &CompileError{Mode: mode.Name, StepIndex: i, Reason: reason}
		}

		ctx := baseCtx
		if step.Kind() == manifest.StepRun {
			ctx = runCtx
		}
		resolved = append(resolved, ResolvedStep{
			Index: len(resolved),
			Desc:  step.Description(),
			Step:  step,
			Ctx:   ctx,
		})
	}

	return &Plan{
		AppName:     m.AppName,
		AppVersion:  m.Version,
		ModeName:    mode.Name,
		OS:          p.OSFamily,
		Fingerprint: p.Fingerprint,
		Steps:       resolved,
	}, nil
}
