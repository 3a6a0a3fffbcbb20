// SPDX-License-Identifier: MPL-2.0

// Package manifest defines the application manifest model: the parsed,
// validated description of an application's installable modes, their
// hardware/OS requirements, optional runtime environments, and per-OS
// step lists.
//
// Manifests are JSON documents validated against an embedded CUE schema
// before decoding. Mode declaration order is significant (the mode
// selector treats it as priority order), so modes decode into an
// order-preserving list rather than a Go map.
//
// Validation is exhaustive: Validate collects every problem it can find
// into a ValidationResult instead of stopping at the first, so manifest
// authors fix a file in one pass.
package manifest
