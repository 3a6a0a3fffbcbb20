// SPDX-License-Identifier: MPL-2.0

package manifest

// Runtime environment types a mode may request.
const (
	// RuntimeNodeLocal provisions (or reuses) a Node.js installation
	// under <root>/node.
	RuntimeNodeLocal RuntimeType = "node_local"
	// RuntimePythonVenv provisions (or reuses) a Python virtual
	// environment under <root>/venv.
	RuntimePythonVenv RuntimeType = "python_venv"
)

// Install strategies governing runtime fallback behavior.
const (
	// StrategyLocalBundleOrGlobal prefers a local bundle under the
	// runtime root, falling back to a global installation on PATH.
	// Default for node_local.
	StrategyLocalBundleOrGlobal InstallStrategy = "local_bundle_or_global"
	// StrategyLocalOnly requires a local bundle; no global fallback.
	StrategyLocalOnly InstallStrategy = "local_only"
	// StrategyGlobalOnly uses only a global installation on PATH.
	StrategyGlobalOnly InstallStrategy = "global_only"
	// StrategyVenvOnly creates/reuses a virtual environment; no global
	// fallback. Default for python_venv.
	StrategyVenvOnly InstallStrategy = "venv_only"
	// StrategyVenvOrGlobal prefers the virtual environment, falling back
	// to a global interpreter on PATH.
	StrategyVenvOrGlobal InstallStrategy = "venv_or_global"
)

type (
	// RuntimeType tags a RuntimeEnvSpec variant.
	RuntimeType string

	// InstallStrategy governs how a provisioner falls back between local
	// and global runtimes.
	InstallStrategy string

	// RuntimeEnvSpec requests an isolated runtime environment for a
	// mode's run steps.
	RuntimeEnvSpec struct {
		// Type selects the runtime variant.
		Type RuntimeType `json:"type"`
		// Root is the directory the runtime lives under; relative paths
		// resolve against the invocation's working root. Empty means the
		// working root itself.
		Root string `json:"root,omitempty"`
		// Version is the minimum runtime version to accept (e.g. "18.0.0").
		// Empty accepts any version.
		Version string `json:"version,omitempty"`
		// InstallStrategy overrides the type's default fallback behavior.
		InstallStrategy InstallStrategy `json:"install_strategy,omitempty"`
	}
)

// IsValid reports whether the runtime type is recognized.
func (t RuntimeType) IsValid() bool {
	switch t {
	case RuntimeNodeLocal, RuntimePythonVenv:
		return true
	default:
		return false
	}
}

// EffectiveStrategy returns the configured strategy, or the type's
// default when none is set.
func (s *RuntimeEnvSpec) EffectiveStrategy() InstallStrategy {
	if s.InstallStrategy != "" {
		return s.InstallStrategy
	}
	switch s.Type {
	case RuntimePythonVenv:
		return StrategyVenvOnly
	default:
		return StrategyLocalBundleOrGlobal
	}
}

// AllowsGlobal reports whether the strategy permits falling back to a
// globally installed runtime on PATH.
func (s InstallStrategy) AllowsGlobal() bool {
	switch s {
	case StrategyLocalBundleOrGlobal, StrategyGlobalOnly, StrategyVenvOrGlobal:
		return true
	default:
		return false
	}
}

// StrategiesFor returns the valid strategies for a runtime type, in
// diagnostic order.
func StrategiesFor(t RuntimeType) []InstallStrategy {
	switch t {
	case RuntimeNodeLocal:
		return []InstallStrategy{StrategyLocalBundleOrGlobal, StrategyLocalOnly, StrategyGlobalOnly}
	case RuntimePythonVenv:
		return []InstallStrategy{StrategyVenvOnly, StrategyVenvOrGlobal, StrategyGlobalOnly}
	default:
		return nil
	}
}

// ValidStrategy reports whether the strategy is valid for the runtime
// type. The empty strategy is always valid (the default applies).
func (s *RuntimeEnvSpec) ValidStrategy() bool {
	if s.InstallStrategy == "" {
		return true
	}
	for _, valid := range StrategiesFor(s.Type) {
		if s.InstallStrategy == valid {
			return true
		}
	}
	return false
}
