// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidOSConstraint is returned when an OS constraint string cannot
// be parsed. Callers can check for it using errors.Is.
var ErrInvalidOSConstraint = errors.New("invalid os constraint")

type (
	// Requirements describes the host conditions a mode needs. Empty
	// fields impose no constraint.
	Requirements struct {
		// OS lists acceptable operating systems; any single match
		// satisfies the requirement.
		OS []OSConstraint `json:"os,omitempty"`
		// CPUArch lists acceptable CPU architectures; any single match
		// satisfies the requirement.
		CPUArch []string `json:"cpu_arch,omitempty"`
		// RAMGB is the minimum whole gigabytes of RAM. Zero imposes no
		// constraint.
		RAMGB uint64 `json:"ram_gb,omitempty"`
		// PackageManagers lists package managers the mode's steps invoke.
		// Unlike OS and CPUArch, every named manager must be present on the
		// host; steps call each one they name.
		PackageManagers []string `json:"package_managers,omitempty"`
	}

	// OSConstraint is one entry of a requirements os list, written on the
	// wire as "family" or "family>=min_version" (e.g. "macos>=13.0").
	OSConstraint struct {
		// Raw is the wire form as written in the manifest, preserved for
		// round-trips and diagnostics.
		Raw string
		// Family is the lowercased OS family token (e.g. "macos"). Empty
		// when Raw could not be parsed.
		Family string
		// MinVersion is the minimum acceptable OS version. Empty when the
		// constraint names a bare family.
		MinVersion string
	}

	// InvalidOSConstraintError reports an OS constraint string that does
	// not follow the "family" or "family>=version" form.
	InvalidOSConstraintError struct {
		// Raw is the offending constraint string.
		Raw string
		// Reason describes what is wrong with it.
		Reason string
	}
)

// Error implements the error interface.
func (e *InvalidOSConstraintError) Error() string {
	return fmt.Sprintf("invalid os constraint %q: %s", e.Raw, e.Reason)
}

// Unwrap returns the sentinel error for errors.Is checks.
func (e *InvalidOSConstraintError) Unwrap() error {
	return ErrInvalidOSConstraint
}

// ParseOSConstraint parses a constraint string in "family" or
// "family>=version" form. Whitespace around tokens is ignored and the
// family is lowercased, so "MacOS >= 13.0" and "macos>=13.0" are
// equivalent.
func ParseOSConstraint(raw string) (OSConstraint, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return OSConstraint{}, &InvalidOSConstraintError{Raw: raw, Reason: "constraint is empty"}
	}

	family, version, found := strings.Cut(trimmed, ">=")
	if !found {
		return OSConstraint{
			Raw:    raw,
			Family: strings.ToLower(trimmed),
		}, nil
	}

	family = strings.TrimSpace(family)
	version = strings.TrimSpace(version)
	if family == "" {
		return OSConstraint{}, &InvalidOSConstraintError{Raw: raw, Reason: "missing os family before \">=\""}
	}
	if version == "" {
		return OSConstraint{}, &InvalidOSConstraintError{Raw: raw, Reason: "missing version after \">=\""}
	}

	return OSConstraint{
		Raw:        raw,
		Family:     strings.ToLower(family),
		MinVersion: version,
	}, nil
}

// Validate reports whether the constraint parsed cleanly.
func (c OSConstraint) Validate() error {
	if c.Family != "" {
		return nil
	}
	_, err := ParseOSConstraint(c.Raw)
	if err != nil {
		return err
	}
	return nil
}

// String returns the canonical wire form of the constraint.
func (c OSConstraint) String() string {
	if c.Family == "" {
		return c.Raw
	}
	if c.MinVersion == "" {
		return c.Family
	}
	return c.Family + ">=" + c.MinVersion
}

// UnmarshalJSON decodes a constraint from its wire string. Malformed
// constraints do not fail decoding; they are kept in Raw form so that a
// single validation pass can report every malformed constraint in the
// manifest, not just the first.
func (c *OSConstraint) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	parsed, err := ParseOSConstraint(raw)
	if err != nil {
		*c = OSConstraint{Raw: raw}
		return nil
	}

	*c = parsed
	return nil
}

// MarshalJSON encodes the constraint back to its wire string.
func (c OSConstraint) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// IsZero reports whether the requirements impose no constraints at all.
func (r *Requirements) IsZero() bool {
	return r == nil ||
		(len(r.OS) == 0 && len(r.CPUArch) == 0 && r.RAMGB == 0 && len(r.PackageManagers) == 0)
}
