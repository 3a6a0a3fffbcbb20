// SPDX-License-Identifier: MPL-2.0

// Package executor runs compiled install plans. Steps execute strictly
// in plan order; the first failure halts the walk and later steps never
// start. All step output is streamed live and captured into the run's
// Result.
//
// The package is organized by step kind:
//   - executor.go: the sequential walk, Result, and StepError
//   - shell.go: run steps (/bin/sh -c or cmd /C, keyed off the plan's
//     target OS, with the compile-time env and PATH prefixes applied)
//   - download.go: download steps (stream to a .partial temp, then rename)
//   - extract.go: extract steps (.zip only, entry paths sanitized)
//   - template.go: template_config steps ({{KEY}} scan-replacement)
//   - paths.go: working-root path resolution and escape rejection
//
// Runtime provisioning steps dispatch to internal/provision. The
// executor holds no state between steps beyond each step's fixed
// ExecContext; a failed run can be retried by executing the plan again.
package executor
