// SPDX-License-Identifier: MPL-2.0

package executor

import (
	"os"
	"strings"
	"testing"

	"tailor-cli/internal/planner"
)

func TestShellFor(t *testing.T) {
	t.Parallel()

	if name, arg := shellFor("macos"); name != "/bin/sh" || arg != "-c" {
		t.Errorf("shellFor(macos) = %q %q, want /bin/sh -c", name, arg)
	}
	if name, arg := shellFor("windows"); name != "cmd" || arg != "/C" {
		t.Errorf("shellFor(windows) = %q %q, want cmd /C", name, arg)
	}
}

func TestBuildEnvReturnsParentUntouched(t *testing.T) {
	t.Parallel()

	got := buildEnv("macos", planner.ExecContext{WorkRoot: "."})
	if len(got) != len(os.Environ()) {
		t.Errorf("buildEnv() entries = %d, want parent environment size %d", len(got), len(os.Environ()))
	}
}

func TestBuildEnvOverridesParentVar(t *testing.T) {
	t.Setenv("TAILOR_SHELL_TEST", "old")

	ectx := planner.ExecContext{Env: map[string]string{"TAILOR_SHELL_TEST": "new"}}
	merged := buildEnv("macos", ectx)

	var hits []string
	for _, kv := range merged {
		if strings.HasPrefix(kv, "TAILOR_SHELL_TEST=") {
			hits = append(hits, kv)
		}
	}
	if len(hits) != 1 || hits[0] != "TAILOR_SHELL_TEST=new" {
		t.Errorf("entries = %v, want exactly [TAILOR_SHELL_TEST=new]", hits)
	}
}

func TestBuildEnvPrependsPathWithPlanSeparator(t *testing.T) {
	t.Setenv("PATH", "/usr/bin")

	ectx := planner.ExecContext{PathPrefixes: []string{`C:\rt\bin`}}
	merged := buildEnv("windows", ectx)

	found := false
	for _, kv := range merged {
		if strings.HasPrefix(kv, "PATH=") {
			found = true
			if kv != `PATH=C:\rt\bin;/usr/bin` {
				t.Errorf("PATH entry = %q, want windows separator join", kv)
			}
		}
	}
	if !found {
		t.Error("merged environment has no PATH entry")
	}
}
