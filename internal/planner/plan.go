// SPDX-License-Identifier: MPL-2.0

package planner

import (
	"tailor-cli/internal/provision"
	"tailor-cli/pkg/manifest"
)

type (
	// Plan is a compiled, machine-specific install plan: the exact step
	// sequence one mode executes on one profiled host. Plans are
	// immutable after compilation; executing a plan never alters it.
	Plan struct {
		// AppName is the application the plan installs.
		AppName string `json:"app_name"`
		// AppVersion is the application version from the manifest.
		AppVersion string `json:"app_version"`
		// ModeName names the selected installation mode.
		ModeName string `json:"mode"`
		// OS is the target OS family the plan was compiled for.
		OS string `json:"os"`
		// Fingerprint is the profiled machine's fingerprint digest.
		Fingerprint string `json:"fingerprint"`
		// Steps is the full execution sequence, provisioning included.
		Steps []ResolvedStep `json:"steps"`
	}

	// ResolvedStep is one executable unit of a plan. Exactly one of
	// Step (a manifest-authored step) or Provision (a runtime
	// provisioning action) is set.
	ResolvedStep struct {
		// Index is the step's zero-based position in the plan.
		Index int `json:"index"`
		// Desc is the human-readable label streamed in step headers.
		Desc string `json:"desc"`
		// Step is the manifest step to interpret, nil for provisioning.
		Step *manifest.Step `json:"step,omitempty"`
		// Provision is the runtime provisioning action, nil for
		// manifest steps.
		Provision *provision.Action `json:"provision,omitempty"`
		// Ctx is the execution context the step runs under.
		Ctx ExecContext `json:"ctx"`
	}

	// ExecContext is the environment a step executes in, fixed at
	// compile time. The interpreter reads it and never mutates it, so
	// steps cannot leak state into each other.
	ExecContext struct {
		// WorkRoot is the directory relative paths resolve against.
		WorkRoot string `json:"work_root"`
		// Env holds extra environment variables for run steps.
		Env map[string]string `json:"env,omitempty"`
		// PathPrefixes lists directories prepended to PATH for run
		// steps, highest priority first.
		PathPrefixes []string `json:"path_prefixes,omitempty"`
		// RuntimeLabel names the provisioned runtime the step runs
		// under, empty when the mode requests none.
		RuntimeLabel string `json:"runtime_label,omitempty"`
	}
)

// ProvisioningSteps returns how many leading steps of the plan are
// runtime provisioning actions.
func (p *Plan) ProvisioningSteps() int {
	n := 0
	for i := range p.Steps {
		if p.Steps[i].Provision == nil {
			break
		}
		n++
	}
	return n
}
