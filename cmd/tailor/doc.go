// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for tailor.
//
// This package implements the Cobra command hierarchy for the tailor CLI:
// the root command, the planning and install commands, manifest validation,
// host profiling, install history, and configuration management.
package cmd
