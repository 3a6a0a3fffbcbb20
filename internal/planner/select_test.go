// SPDX-License-Identifier: MPL-2.0

package planner

import (
	"errors"
	"strings"
	"testing"

	"tailor-cli/internal/hostenv"
	"tailor-cli/pkg/manifest"
)

// mustParse builds a manifest from a JSON document, failing the test on
// any parse or validation error.
func mustParse(t *testing.T, doc string) *manifest.Manifest {
	t.Helper()
	m, err := manifest.ParseBytes([]byte(doc), "tailor.json")
	if err != nil {
		t.Fatalf("ParseBytes() error = %v", err)
	}
	return m
}

// macProfile returns a fixed macOS host profile for selection tests.
func macProfile() *hostenv.Profile {
	return &hostenv.Profile{
		OSFamily:        "macos",
		OSVersion:       "14.4.1",
		Arch:            "arm64",
		RAMBytes:        16 << 30,
		PackageManagers: []string{"brew"},
		Fingerprint:     "f1e2d3",
	}
}

const twoModeManifest = `{
  "app_name": "demo",
  "version": "2.1.0",
  "modes": {
    "full": {
      "requirements": {"os": ["macos>=13.0"], "cpu_arch": ["arm64"], "ram_gb": 8},
      "steps": {"macos": [{"run": "echo full"}]}
    },
    "lite": {
      "steps": {
        "macos": [{"run": "echo lite"}],
        "windows": [{"run": "echo lite"}]
      }
    }
  }
}`

func TestSelectModeFirstCompatibleWins(t *testing.T) {
	t.Parallel()

	m := mustParse(t, twoModeManifest)
	mode, err := SelectMode(m, macProfile())
	if err != nil {
		t.Fatalf("SelectMode() error = %v", err)
	}
	if mode.Name != "full" {
		t.Errorf("selected mode = %q, want full (first compatible in declaration order)", mode.Name)
	}
}

func TestSelectModeSkipsIncompatibleMode(t *testing.T) {
	t.Parallel()

	m := mustParse(t, twoModeManifest)
	p := macProfile()
	p.RAMBytes = 4 << 30 // below full's ram_gb: 8

	mode, err := SelectMode(m, p)
	if err != nil {
		t.Fatalf("SelectMode() error = %v", err)
	}
	if mode.Name != "lite" {
		t.Errorf("selected mode = %q, want lite", mode.Name)
	}
}

func TestSelectModeDeclarationOrderIsPriority(t *testing.T) {
	t.Parallel()

	// The minimal mode is declared first and wins even though the
	// richer mode is also compatible; nothing scores modes by size.
	m := mustParse(t, `{
	  "app_name": "demo",
	  "version": "1.0.0",
	  "modes": {
	    "minimal": {"steps": {"macos": [{"run": "echo minimal"}]}},
	    "full": {
	      "requirements": {"ram_gb": 2},
	      "steps": {"macos": [{"run": "echo full"}]}
	    }
	  }
	}`)

	mode, err := SelectMode(m, macProfile())
	if err != nil {
		t.Fatalf("SelectMode() error = %v", err)
	}
	if mode.Name != "minimal" {
		t.Errorf("selected mode = %q, want minimal", mode.Name)
	}
}

func TestSelectModeIsDeterministic(t *testing.T) {
	t.Parallel()

	m := mustParse(t, twoModeManifest)
	p := macProfile()

	for i := 0; i < 10; i++ {
		mode, err := SelectMode(m, p)
		if err != nil {
			t.Fatalf("SelectMode() run %d error = %v", i, err)
		}
		if mode.Name != "full" {
			t.Fatalf("SelectMode() run %d = %q, want full every time", i, mode.Name)
		}
	}

	// The failure side is just as stable: the same profile must be
	// rejected with the same reasons on every run.
	heavy := mustParse(t, `{
	  "app_name": "demo",
	  "version": "1.0.0",
	  "modes": {
	    "heavy": {
	      "requirements": {"ram_gb": 64, "package_managers": ["port"]},
	      "steps": {"macos": [{"run": "echo heavy"}]}
	    }
	  }
	}`)
	var first []string
	for i := 0; i < 10; i++ {
		_, err := SelectMode(heavy, p)
		var noMatch *NoCompatibleModeError
		if !errors.As(err, &noMatch) {
			t.Fatalf("SelectMode() run %d error = %v, want *NoCompatibleModeError", i, err)
		}
		reasons := noMatch.Rejections[0].Reasons
		if i == 0 {
			first = reasons
			continue
		}
		if strings.Join(reasons, "|") != strings.Join(first, "|") {
			t.Fatalf("SelectMode() run %d reasons = %v, want %v", i, reasons, first)
		}
	}
}

func TestSelectModeNoStepsForHostOS(t *testing.T) {
	t.Parallel()

	m := mustParse(t, `{
	  "app_name": "demo",
	  "version": "1.0.0",
	  "modes": {
	    "win": {"steps": {"windows": [{"run": "installer.exe"}]}}
	  }
	}`)

	_, err := SelectMode(m, macProfile())
	var noMatch *NoCompatibleModeError
	if !errors.As(err, &noMatch) {
		t.Fatalf("SelectMode() error = %v, want *NoCompatibleModeError", err)
	}
	if len(noMatch.Rejections) != 1 {
		t.Fatalf("Rejections = %d, want 1", len(noMatch.Rejections))
	}
	reasons := noMatch.Rejections[0].Reasons
	if len(reasons) != 1 || reasons[0] != "no steps declared for macos" {
		t.Errorf("Reasons = %v, want [no steps declared for macos]", reasons)
	}
}

func TestSelectModeCollectsEveryReason(t *testing.T) {
	t.Parallel()

	m := mustParse(t, `{
	  "app_name": "demo",
	  "version": "1.0.0",
	  "modes": {
	    "winonly": {
	      "requirements": {
	        "os": ["windows>=10"],
	        "cpu_arch": ["x86_64"],
	        "ram_gb": 128,
	        "package_managers": ["choco", "scoop"]
	      },
	      "steps": {"windows": [{"run": "installer.exe"}]}
	    }
	  }
	}`)

	_, err := SelectMode(m, macProfile())
	var noMatch *NoCompatibleModeError
	if !errors.As(err, &noMatch) {
		t.Fatalf("SelectMode() error = %v, want *NoCompatibleModeError", err)
	}

	reasons := noMatch.Rejections[0].Reasons
	if len(reasons) != 6 {
		t.Fatalf("Reasons = %v, want 6 entries (every unmet requirement)", reasons)
	}

	wantFragments := []string{
		"no steps declared for macos",
		"requires OS windows>=10",
		"requires CPU architecture x86_64",
		"requires 128 GB RAM; host has 16 GB",
		"requires package manager choco",
		"requires package manager scoop",
	}
	for i, fragment := range wantFragments {
		if !strings.Contains(reasons[i], fragment) {
			t.Errorf("Reasons[%d] = %q, want containing %q", i, reasons[i], fragment)
		}
	}
}

func TestSelectModeOSVersionGate(t *testing.T) {
	t.Parallel()

	m := mustParse(t, `{
	  "app_name": "demo",
	  "version": "1.0.0",
	  "modes": {
	    "modern": {
	      "requirements": {"os": ["macos>=13.0"]},
	      "steps": {"macos": [{"run": "echo hi"}]}
	    }
	  }
	}`)

	tests := []struct {
		name       string
		osVersion  string
		compatible bool
	}{
		{name: "newer host", osVersion: "14.4.1", compatible: true},
		{name: "exact minimum", osVersion: "13.0", compatible: true},
		{name: "short host version pads to zero", osVersion: "13", compatible: true},
		{name: "older host", osVersion: "12.7.5", compatible: false},
		{name: "unparseable host needs exact match", osVersion: "Ventura", compatible: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := macProfile()
			p.OSVersion = tt.osVersion
			_, err := SelectMode(m, p)
			if tt.compatible && err != nil {
				t.Errorf("SelectMode() error = %v, want selection", err)
			}
			if !tt.compatible && err == nil {
				t.Error("SelectMode() error = nil, want rejection")
			}
		})
	}
}

func TestSelectModeAnyOfConstraints(t *testing.T) {
	t.Parallel()

	// One matching entry in os/cpu_arch lists is enough.
	m := mustParse(t, `{
	  "app_name": "demo",
	  "version": "1.0.0",
	  "modes": {
	    "either": {
	      "requirements": {"os": ["windows>=10", "macos>=12.0"], "cpu_arch": ["x86_64", "aarch64"]},
	      "steps": {"macos": [{"run": "echo hi"}], "windows": [{"run": "echo hi"}]}
	    }
	  }
	}`)

	mode, err := SelectMode(m, macProfile())
	if err != nil {
		t.Fatalf("SelectMode() error = %v", err)
	}
	if mode.Name != "either" {
		t.Errorf("selected mode = %q, want either", mode.Name)
	}
}

func TestNoCompatibleModeError(t *testing.T) {
	t.Parallel()

	m := mustParse(t, `{
	  "app_name": "demo",
	  "version": "1.0.0",
	  "modes": {
	    "zeta": {
	      "requirements": {"ram_gb": 512},
	      "steps": {"macos": [{"run": "echo z"}]}
	    },
	    "alpha": {
	      "requirements": {"ram_gb": 256},
	      "steps": {"macos": [{"run": "echo a"}]}
	    }
	  }
	}`)

	_, err := SelectMode(m, macProfile())
	if !errors.Is(err, ErrNoCompatibleMode) {
		t.Fatalf("errors.Is(err, ErrNoCompatibleMode) = false for %v", err)
	}

	var noMatch *NoCompatibleModeError
	if !errors.As(err, &noMatch) {
		t.Fatalf("SelectMode() error = %v, want *NoCompatibleModeError", err)
	}

	if noMatch.AppName != "demo" {
		t.Errorf("AppName = %q, want demo", noMatch.AppName)
	}
	if len(noMatch.Rejections) != 2 {
		t.Fatalf("Rejections = %d, want 2", len(noMatch.Rejections))
	}
	if noMatch.Rejections[0].Mode != "zeta" || noMatch.Rejections[1].Mode != "alpha" {
		t.Errorf("rejection order = [%s %s], want declaration order [zeta alpha]",
			noMatch.Rejections[0].Mode, noMatch.Rejections[1].Mode)
	}
	if !strings.Contains(noMatch.Error(), "demo") {
		t.Errorf("Error() = %q, want app name mentioned", noMatch.Error())
	}
}

func TestVersionMeets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		host    string
		minimum string
		want    bool
	}{
		{host: "14.4.1", minimum: "13.0", want: true},
		{host: "13.0", minimum: "13.0", want: true},
		{host: "12.7", minimum: "13.0", want: false},
		{host: "14", minimum: "14.0.0", want: true},
		{host: "13.0", minimum: "13.0.1", want: false},
		{host: "13.1", minimum: "13.0.5", want: true},
		{host: "10.0.22631", minimum: "10", want: true},
		{host: "10.0.19045", minimum: "10.0.22000", want: false},
		{host: "beta", minimum: "beta", want: true},
		{host: "beta", minimum: "13.0", want: false},
		{host: "13.0", minimum: "beta", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.host+" vs "+tt.minimum, func(t *testing.T) {
			t.Parallel()

			if got := versionMeets(tt.host, tt.minimum); got != tt.want {
				t.Errorf("versionMeets(%q, %q) = %v, want %v", tt.host, tt.minimum, got, tt.want)
			}
		})
	}
}
