// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"path/filepath"
	"reflect"
	"testing"

	"tailor-cli/pkg/manifest"
)

func TestPlanNilSpec(t *testing.T) {
	t.Parallel()

	actions, rctx, err := Plan(nil, "/work", "macos")
	if err != nil {
		t.Fatalf("Plan(nil) error = %v", err)
	}
	if len(actions) != 0 {
		t.Errorf("Plan(nil) actions = %v, want none", actions)
	}
	if rctx.Label != "" || rctx.Env != nil || rctx.PathPrefixes != nil {
		t.Errorf("Plan(nil) context = %+v, want zero", rctx)
	}
}

func TestPlanUnknownType(t *testing.T) {
	t.Parallel()

	_, _, err := Plan(&manifest.RuntimeEnvSpec{Type: "ruby_local"}, "/work", "macos")
	if err == nil {
		t.Fatal("Plan() error = nil, want unknown runtime type error")
	}
}

func TestPlanNodeDefaults(t *testing.T) {
	t.Parallel()

	work := t.TempDir()
	actions, rctx, err := Plan(&manifest.RuntimeEnvSpec{Type: manifest.RuntimeNodeLocal}, work, "macos")
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if len(actions) != 1 {
		t.Fatalf("Plan() actions = %d, want 1", len(actions))
	}

	want := Action{
		Kind:     ActionEnsureNode,
		Dir:      filepath.Join(work, "node"),
		OSFamily: "macos",
		Strategy: manifest.StrategyLocalBundleOrGlobal,
	}
	if actions[0] != want {
		t.Errorf("action = %+v, want %+v", actions[0], want)
	}

	if rctx.Label != "node_local" {
		t.Errorf("Label = %q, want node_local", rctx.Label)
	}
	wantPrefixes := []string{filepath.Join(work, "node", "bin")}
	if !reflect.DeepEqual(rctx.PathPrefixes, wantPrefixes) {
		t.Errorf("PathPrefixes = %v, want %v", rctx.PathPrefixes, wantPrefixes)
	}
	if rctx.Env != nil {
		t.Errorf("Env = %v, want nil for node runtimes", rctx.Env)
	}
}

func TestPlanPythonVenv(t *testing.T) {
	t.Parallel()

	work := t.TempDir()
	venvDir := filepath.Join(work, "venv")

	tests := []struct {
		name         string
		osFamily     string
		wantPrefixes []string
	}{
		{
			name:         "macos uses bin",
			osFamily:     "macos",
			wantPrefixes: []string{filepath.Join(venvDir, "bin")},
		},
		{
			name:         "windows uses Scripts",
			osFamily:     "windows",
			wantPrefixes: []string{filepath.Join(venvDir, "Scripts")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			spec := &manifest.RuntimeEnvSpec{Type: manifest.RuntimePythonVenv, Version: "3.10"}
			actions, rctx, err := Plan(spec, work, tt.osFamily)
			if err != nil {
				t.Fatalf("Plan() error = %v", err)
			}
			if len(actions) != 1 {
				t.Fatalf("Plan() actions = %d, want 1", len(actions))
			}

			a := actions[0]
			if a.Kind != ActionEnsurePythonVenv {
				t.Errorf("Kind = %q, want %q", a.Kind, ActionEnsurePythonVenv)
			}
			if a.Dir != venvDir {
				t.Errorf("Dir = %q, want %q", a.Dir, venvDir)
			}
			if a.MinVersion != "3.10" {
				t.Errorf("MinVersion = %q, want 3.10", a.MinVersion)
			}
			if a.Strategy != manifest.StrategyVenvOnly {
				t.Errorf("Strategy = %q, want %q", a.Strategy, manifest.StrategyVenvOnly)
			}

			if !reflect.DeepEqual(rctx.PathPrefixes, tt.wantPrefixes) {
				t.Errorf("PathPrefixes = %v, want %v", rctx.PathPrefixes, tt.wantPrefixes)
			}
			if got := rctx.Env["VIRTUAL_ENV"]; got != venvDir {
				t.Errorf("Env[VIRTUAL_ENV] = %q, want %q", got, venvDir)
			}
		})
	}
}

func TestPlanGlobalOnlyOmitsContext(t *testing.T) {
	t.Parallel()

	spec := &manifest.RuntimeEnvSpec{
		Type:            manifest.RuntimePythonVenv,
		InstallStrategy: manifest.StrategyGlobalOnly,
	}
	_, rctx, err := Plan(spec, t.TempDir(), "macos")
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if rctx.Label != "python_venv" {
		t.Errorf("Label = %q, want python_venv", rctx.Label)
	}
	if rctx.PathPrefixes != nil {
		t.Errorf("PathPrefixes = %v, want nil for global_only", rctx.PathPrefixes)
	}
	if rctx.Env != nil {
		t.Errorf("Env = %v, want nil for global_only", rctx.Env)
	}
}

func TestPlanResolvesRoot(t *testing.T) {
	t.Parallel()

	work := t.TempDir()
	abs := t.TempDir()

	tests := []struct {
		name    string
		root    string
		wantDir string
	}{
		{name: "empty root means work root", root: "", wantDir: filepath.Join(work, "node")},
		{name: "relative root joins work root", root: "deps", wantDir: filepath.Join(work, "deps", "node")},
		{name: "absolute root stands alone", root: abs, wantDir: filepath.Join(abs, "node")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			spec := &manifest.RuntimeEnvSpec{Type: manifest.RuntimeNodeLocal, Root: tt.root}
			actions, _, err := Plan(spec, work, "macos")
			if err != nil {
				t.Fatalf("Plan() error = %v", err)
			}
			if actions[0].Dir != tt.wantDir {
				t.Errorf("Dir = %q, want %q", actions[0].Dir, tt.wantDir)
			}
		})
	}
}

func TestActionDescription(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		action Action
		want   string
	}{
		{
			name:   "node local",
			action: Action{Kind: ActionEnsureNode, Dir: "/w/node", Strategy: manifest.StrategyLocalBundleOrGlobal},
			want:   "ensure Node.js runtime at /w/node",
		},
		{
			name:   "node global only",
			action: Action{Kind: ActionEnsureNode, Strategy: manifest.StrategyGlobalOnly},
			want:   "ensure Node.js runtime on PATH",
		},
		{
			name:   "python venv",
			action: Action{Kind: ActionEnsurePythonVenv, Dir: "/w/venv", Strategy: manifest.StrategyVenvOnly},
			want:   "ensure Python virtual environment at /w/venv",
		},
		{
			name:   "python global only",
			action: Action{Kind: ActionEnsurePythonVenv, Strategy: manifest.StrategyGlobalOnly},
			want:   "ensure Python interpreter on PATH",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.action.Description(); got != tt.want {
				t.Errorf("Description() = %q, want %q", got, tt.want)
			}
		})
	}
}
