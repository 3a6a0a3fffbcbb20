// SPDX-License-Identifier: MPL-2.0

package planner

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"tailor-cli/internal/hostenv"
	"tailor-cli/pkg/manifest"
	"tailor-cli/pkg/platform"
)

// ErrNoCompatibleMode is returned when no mode in a manifest is
// selectable on the profiled host. Callers can check for it using
// errors.Is.
var ErrNoCompatibleMode = errors.New("no compatible installation mode")

type (
	// Rejection records why one mode was passed over during selection:
	// the complete list of requirements the host failed, not just the
	// first one found.
	Rejection struct {
		// Mode is the rejected mode's name.
		Mode string `json:"mode"`
		// Reasons lists every unmet requirement, in evaluation order.
		Reasons []string `json:"reasons"`
	}

	// NoCompatibleModeError reports that selection exhausted the
	// manifest. Rejections holds every mode's full reason list in
	// manifest declaration order, so users see the whole picture at
	// once instead of fixing one requirement per attempt.
	NoCompatibleModeError struct {
		// AppName is the manifest's application name.
		AppName string
		// Rejections covers every mode, in declaration order.
		Rejections []Rejection
	}
)

// Error implements the error interface.
func (e *NoCompatibleModeError) Error() string {
	return fmt.Sprintf("no installation mode of %s is compatible with this machine (%d rejected)",
		e.AppName, len(e.Rejections))
}

// Unwrap returns the sentinel error for errors.Is checks.
func (e *NoCompatibleModeError) Unwrap() error {
	return ErrNoCompatibleMode
}

// SelectMode returns the first mode, in manifest declaration order,
// whose requirements the profile satisfies. Declaration order is the
// author's priority order; selection never reorders or scores modes.
// When no mode is selectable the returned error is a
// *NoCompatibleModeError carrying every mode's unmet reasons.
func SelectMode(m *manifest.Manifest, p *hostenv.Profile) (*manifest.Mode, error) {
	rejections := make([]Rejection, 0, len(m.Modes))
	for i := range m.Modes {
		mode := &m.Modes[i]
		reasons := unmetReasons(mode, p)
		if len(reasons) == 0 {
			return mode, nil
		}
		rejections = append(rejections, Rejection{Mode: mode.Name, Reasons: reasons})
	}
	return nil, &NoCompatibleModeError{AppName: m.AppName, Rejections: rejections}
}

// unmetReasons collects every requirement of a mode the profile fails.
// All predicates are evaluated even after the first failure, so a
// rejection always explains the full distance to compatibility.
func unmetReasons(mode *manifest.Mode, p *hostenv.Profile) []string {
	var reasons []string

	if len(mode.StepsFor(p.OSFamily)) == 0 {
		reasons = append(reasons, fmt.Sprintf("no steps declared for %s", p.OSFamily))
	}

	req := mode.Requirements
	if req == nil {
		return reasons
	}

	if len(req.OS) > 0 && !osConstraintsMet(req.OS, p) {
		reasons = append(reasons, fmt.Sprintf("requires OS %s; host is %s %s",
			joinOSConstraints(req.OS), p.OSFamily, p.OSVersion))
	}

	if len(req.CPUArch) > 0 && !archMet(req.CPUArch, p.Arch) {
		reasons = append(reasons, fmt.Sprintf("requires CPU architecture %s; host is %s",
			strings.Join(req.CPUArch, " or "), p.Arch))
	}

	if req.RAMGB > 0 && p.RAMGB() < req.RAMGB {
		reasons = append(reasons, fmt.Sprintf("requires %d GB RAM; host has %d GB",
			req.RAMGB, p.RAMGB()))
	}

	for _, name := range req.PackageManagers {
		if !p.HasPackageManager(name) {
			reasons = append(reasons, fmt.Sprintf("requires package manager %s, which was not detected", name))
		}
	}

	return reasons
}

// osConstraintsMet reports whether any OS constraint in the list
// matches the profile (same family, and version at or above the
// minimum when one is given).
func osConstraintsMet(constraints []manifest.OSConstraint, p *hostenv.Profile) bool {
	for _, c := range constraints {
		if c.Family != p.OSFamily {
			continue
		}
		if c.MinVersion == "" || versionMeets(p.OSVersion, c.MinVersion) {
			return true
		}
	}
	return false
}

// archMet reports whether any required architecture normalizes to the
// profile's.
func archMet(required []string, arch string) bool {
	for _, entry := range required {
		if platform.NormalizeArch(entry) == arch {
			return true
		}
	}
	return false
}

// joinOSConstraints renders a constraint list for rejection reasons.
func joinOSConstraints(constraints []manifest.OSConstraint) string {
	parts := make([]string, len(constraints))
	for i, c := range constraints {
		parts[i] = c.String()
	}
	return strings.Join(parts, " or ")
}

// versionMeets reports whether a host version satisfies a ">= minimum"
// constraint. Versions are compared as dotted numeric segments with
// missing segments read as zero ("14" meets "14.0.0"). When either
// side has a non-numeric segment the comparison falls back to exact
// string equality.
func versionMeets(host, minimum string) bool {
	hostSegs, hostOK := numericSegments(host)
	minSegs, minOK := numericSegments(minimum)
	if !hostOK || !minOK {
		return host == minimum
	}

	for i := 0; i < max(len(hostSegs), len(minSegs)); i++ {
		h, m := 0, 0
		if i < len(hostSegs) {
			h = hostSegs[i]
		}
		if i < len(minSegs) {
			m = minSegs[i]
		}
		if h != m {
			return h > m
		}
	}
	return true
}

// numericSegments splits a dotted version into numeric segments,
// reporting false when any segment is not a non-negative integer.
func numericSegments(v string) ([]int, bool) {
	if v == "" {
		return nil, false
	}
	parts := strings.Split(v, ".")
	segs := make([]int, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return nil, false
		}
		segs[i] = n
	}
	return segs, true
}
