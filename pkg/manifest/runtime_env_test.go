// SPDX-License-Identifier: MPL-2.0

package manifest

import "testing"

func TestRuntimeTypeIsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		typ  RuntimeType
		want bool
	}{
		{"node_local", RuntimeNodeLocal, true},
		{"python_venv", RuntimePythonVenv, true},
		{"empty", RuntimeType(""), false},
		{"unknown", RuntimeType("ruby_local"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.typ.IsValid(); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEffectiveStrategy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		spec RuntimeEnvSpec
		want InstallStrategy
	}{
		{"node default", RuntimeEnvSpec{Type: RuntimeNodeLocal}, StrategyLocalBundleOrGlobal},
		{"python default", RuntimeEnvSpec{Type: RuntimePythonVenv}, StrategyVenvOnly},
		{"explicit wins", RuntimeEnvSpec{Type: RuntimeNodeLocal, InstallStrategy: StrategyGlobalOnly}, StrategyGlobalOnly},
		{"python explicit", RuntimeEnvSpec{Type: RuntimePythonVenv, InstallStrategy: StrategyVenvOrGlobal}, StrategyVenvOrGlobal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.spec.EffectiveStrategy(); got != tt.want {
				t.Errorf("EffectiveStrategy() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInstallStrategyAllowsGlobal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		strategy InstallStrategy
		want     bool
	}{
		{StrategyLocalBundleOrGlobal, true},
		{StrategyGlobalOnly, true},
		{StrategyVenvOrGlobal, true},
		{StrategyLocalOnly, false},
		{StrategyVenvOnly, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.strategy), func(t *testing.T) {
			t.Parallel()

			if got := tt.strategy.AllowsGlobal(); got != tt.want {
				t.Errorf("AllowsGlobal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidStrategy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		spec RuntimeEnvSpec
		want bool
	}{
		{"empty strategy defaults", RuntimeEnvSpec{Type: RuntimeNodeLocal}, true},
		{"node local_only", RuntimeEnvSpec{Type: RuntimeNodeLocal, InstallStrategy: StrategyLocalOnly}, true},
		{"node venv_only invalid", RuntimeEnvSpec{Type: RuntimeNodeLocal, InstallStrategy: StrategyVenvOnly}, false},
		{"python venv_or_global", RuntimeEnvSpec{Type: RuntimePythonVenv, InstallStrategy: StrategyVenvOrGlobal}, true},
		{"python local_bundle invalid", RuntimeEnvSpec{Type: RuntimePythonVenv, InstallStrategy: StrategyLocalBundleOrGlobal}, false},
		{"both allow global_only", RuntimeEnvSpec{Type: RuntimePythonVenv, InstallStrategy: StrategyGlobalOnly}, true},
		{"made-up strategy", RuntimeEnvSpec{Type: RuntimeNodeLocal, InstallStrategy: InstallStrategy("yolo")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.spec.ValidStrategy(); got != tt.want {
				t.Errorf("ValidStrategy() = %v, want %v", got, tt.want)
			}
		})
	}
}
