// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseOSConstraint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		raw         string
		wantFamily  string
		wantVersion string
		wantErr     bool
	}{
		{"bare family", "macos", "macos", "", false},
		{"family with version", "macos>=13.0", "macos", "13.0", false},
		{"windows with version", "windows>=10", "windows", "10", false},
		{"spaces around operator", "macos >= 13.0", "macos", "13.0", false},
		{"uppercase family", "MacOS>=13.0", "macos", "13.0", false},
		{"leading and trailing space", "  windows  ", "windows", "", false},
		{"empty", "", "", "", true},
		{"whitespace only", "   ", "", "", true},
		{"missing family", ">=13.0", "", "", true},
		{"missing version", "macos>=", "", "", true},
		{"operator only", ">=", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseOSConstraint(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseOSConstraint(%q) error = nil, want error", tt.raw)
				}
				if !errors.Is(err, ErrInvalidOSConstraint) {
					t.Errorf("ParseOSConstraint(%q) error = %v, want ErrInvalidOSConstraint", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseOSConstraint(%q) error = %v", tt.raw, err)
			}
			if got.Family != tt.wantFamily {
				t.Errorf("Family = %q, want %q", got.Family, tt.wantFamily)
			}
			if got.MinVersion != tt.wantVersion {
				t.Errorf("MinVersion = %q, want %q", got.MinVersion, tt.wantVersion)
			}
		})
	}
}

func TestOSConstraintString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		constraint OSConstraint
		want       string
	}{
		{"bare family", OSConstraint{Family: "macos"}, "macos"},
		{"with version", OSConstraint{Family: "macos", MinVersion: "13.0"}, "macos>=13.0"},
		{"unparsed raw", OSConstraint{Raw: ">=oops"}, ">=oops"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.constraint.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOSConstraintUnmarshalTolerant(t *testing.T) {
	t.Parallel()

	// Malformed constraints must not abort decoding; validation reports
	// them later, all at once.
	var c OSConstraint
	if err := json.Unmarshal([]byte(`">=13.0"`), &c); err != nil {
		t.Fatalf("Unmarshal() error = %v, want tolerant decode", err)
	}
	if c.Family != "" {
		t.Errorf("Family = %q, want empty for unparsed constraint", c.Family)
	}
	if c.Raw != ">=13.0" {
		t.Errorf("Raw = %q, want %q", c.Raw, ">=13.0")
	}
	if err := c.Validate(); err == nil {
		t.Error("Validate() = nil, want error for unparsed constraint")
	}
}

func TestOSConstraintMarshal(t *testing.T) {
	t.Parallel()

	c := OSConstraint{Family: "windows", MinVersion: "10"}
	out, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(out) != `"windows>=10"` {
		t.Errorf("Marshal() = %s, want \"windows>=10\"", out)
	}
}

func TestRequirementsUnmarshal(t *testing.T) {
	t.Parallel()

	data := `{"os": ["macos>=13.0", "windows"], "cpu_arch": ["arm64", "x86_64"], "ram_gb": 8, "package_managers": ["brew"]}`

	var r Requirements
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if len(r.OS) != 2 || r.OS[0].Family != "macos" || r.OS[0].MinVersion != "13.0" || r.OS[1].Family != "windows" {
		t.Errorf("OS = %v, want [macos>=13.0 windows]", r.OS)
	}
	if len(r.CPUArch) != 2 {
		t.Errorf("CPUArch = %v, want two entries", r.CPUArch)
	}
	if r.RAMGB != 8 {
		t.Errorf("RAMGB = %d, want 8", r.RAMGB)
	}
	if len(r.PackageManagers) != 1 || r.PackageManagers[0] != "brew" {
		t.Errorf("PackageManagers = %v, want [brew]", r.PackageManagers)
	}
}

func TestRequirementsIsZero(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		reqs *Requirements
		want bool
	}{
		{"nil", nil, true},
		{"empty", &Requirements{}, true},
		{"with ram", &Requirements{RAMGB: 4}, false},
		{"with os", &Requirements{OS: []OSConstraint{{Family: "macos"}}}, false},
		{"with arch", &Requirements{CPUArch: []string{"arm64"}}, false},
		{"with package manager", &Requirements{PackageManagers: []string{"brew"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.reqs.IsZero(); got != tt.want {
				t.Errorf("IsZero() = %v, want %v", got, tt.want)
			}
		})
	}
}
