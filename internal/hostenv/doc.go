// SPDX-License-Identifier: MPL-2.0

// Package hostenv detects the host environment an install runs against.
// It produces an immutable Profile (OS family and version, CPU
// architecture, RAM, detected package managers, hostname) plus a stable
// fingerprint digest identifying the machine profile.
//
// The package is organized into two concerns:
//   - profile.go: the Profile data type and the fingerprint computation
//   - detect.go: host probing (gopsutil host/mem, package manager lookup)
//
// A Profile is recomputed fresh on every invocation and never cached to
// disk; two invocations on an unchanged machine converge on the same
// fingerprint by recomputation, not by persistence.
package hostenv
