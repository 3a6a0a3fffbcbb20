// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"fmt"
	"path/filepath"

	"tailor-cli/pkg/manifest"
	"tailor-cli/pkg/platform"
)

// Provisioning action kinds. Each kind corresponds to one runtime type
// a manifest mode may request.
const (
	// ActionEnsureNode makes sure a usable Node.js runtime exists.
	ActionEnsureNode ActionKind = "ensure_node"
	// ActionEnsurePythonVenv makes sure a usable Python virtual
	// environment (or, strategy permitting, a global interpreter) exists.
	ActionEnsurePythonVenv ActionKind = "ensure_python_venv"
)

type (
	// ActionKind tags a provisioning action variant.
	ActionKind string

	// Action is one provisioning step compiled into an install plan.
	// Actions are pure data; Apply performs the work.
	Action struct {
		// Kind selects what the action ensures.
		Kind ActionKind `json:"kind"`
		// Dir is the resolved directory the runtime lives in
		// (<root>/node for Node.js bundles, <root>/venv for virtual
		// environments). Unused when the strategy is global-only.
		Dir string `json:"dir,omitempty"`
		// OSFamily is the plan's target OS family; it decides binary
		// names and layout (bin/ vs Scripts/, .exe suffix).
		OSFamily string `json:"os_family"`
		// MinVersion is the minimum runtime version to accept. Empty
		// accepts any version.
		MinVersion string `json:"min_version,omitempty"`
		// Strategy governs fallback between the local runtime and a
		// global installation on PATH.
		Strategy manifest.InstallStrategy `json:"strategy"`
	}

	// RuntimeContext is the environment run steps inherit from a
	// provisioned runtime. It is computed at plan time from the
	// runtime_env declaration alone, so a plan can be displayed
	// without touching the host.
	RuntimeContext struct {
		// Label names the runtime for plan and log output. Empty when
		// the mode requests no runtime environment.
		Label string
		// Env holds environment variables to set for run steps
		// (VIRTUAL_ENV for Python virtual environments).
		Env map[string]string
		// PathPrefixes lists directories prepended to PATH for run
		// steps, highest priority first.
		PathPrefixes []string
	}
)

// Description returns the human-readable step description shown when
// the action appears in a plan.
func (a Action) Description() string {
	switch a.Kind {
	case ActionEnsureNode:
		if a.Strategy == manifest.StrategyGlobalOnly {
			return "ensure Node.js runtime on PATH"
		}
		return fmt.Sprintf("ensure Node.js runtime at %s", a.Dir)
	case ActionEnsurePythonVenv:
		if a.Strategy == manifest.StrategyGlobalOnly {
			return "ensure Python interpreter on PATH"
		}
		return fmt.Sprintf("ensure Python virtual environment at %s", a.Dir)
	default:
		return string(a.Kind)
	}
}

// Plan compiles a mode's runtime environment spec into the provisioning
// actions to prepend to its install plan, plus the runtime context run
// steps execute under. A nil spec compiles to no actions and a zero
// context.
func Plan(spec *manifest.RuntimeEnvSpec, workRoot, osFamily string) ([]Action, RuntimeContext, error) {
	if spec == nil {
		return nil, RuntimeContext{}, nil
	}
	if !spec.Type.IsValid() {
		return nil, RuntimeContext{}, fmt.Errorf("unknown runtime type %q", spec.Type)
	}

	root := resolveRoot(spec.Root, workRoot)
	strategy := spec.EffectiveStrategy()
	rctx := RuntimeContext{Label: string(spec.Type)}

	var dir string
	switch spec.Type {
	case manifest.RuntimeNodeLocal:
		dir = filepath.Join(root, "node")
		if strategy != manifest.StrategyGlobalOnly {
			rctx.PathPrefixes = []string{filepath.Join(dir, "bin")}
		}
	case manifest.RuntimePythonVenv:
		dir = filepath.Join(root, "venv")
		if strategy != manifest.StrategyGlobalOnly {
			rctx.PathPrefixes = []string{venvBinDir(dir, osFamily)}
			rctx.Env = map[string]string{"VIRTUAL_ENV": dir}
		}
	}

	action := Action{
		Kind:       actionKindFor(spec.Type),
		Dir:        dir,
		OSFamily:   osFamily,
		MinVersion: spec.Version,
		Strategy:   strategy,
	}
	return []Action{action}, rctx, nil
}

// actionKindFor maps a runtime type to its provisioning action kind.
func actionKindFor(t manifest.RuntimeType) ActionKind {
	if t == manifest.RuntimePythonVenv {
		return ActionEnsurePythonVenv
	}
	return ActionEnsureNode
}

// resolveRoot resolves a spec's runtime root against the invocation's
// working root. Empty means the working root itself; relative paths are
// joined onto it; absolute paths stand alone.
func resolveRoot(root, workRoot string) string {
	switch {
	case root == "":
		return workRoot
	case filepath.IsAbs(root):
		return filepath.Clean(root)
	default:
		return filepath.Join(workRoot, root)
	}
}

// venvBinDir returns the executables directory inside a virtual
// environment for the given OS family.
func venvBinDir(dir, osFamily string) string {
	if osFamily == platform.FamilyWindows {
		return filepath.Join(dir, "Scripts")
	}
	return filepath.Join(dir, "bin")
}
