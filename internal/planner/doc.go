// SPDX-License-Identifier: MPL-2.0

// Package planner turns a parsed manifest and a host profile into a
// deterministic install plan: pick the mode, then compile its steps.
//
// The package is organized into three concerns:
//   - plan.go: the Plan, ResolvedStep, and ExecContext data types
//   - select.go: mode selection (first compatible mode in declaration
//     order; every rejected mode keeps its full list of unmet reasons)
//   - compile.go: plan compilation (provisioning actions prepended,
//     per-step execution contexts attached, user order preserved)
//
// Compilation is pure: the same manifest and profile always produce the
// same plan, and nothing here touches the host. Effects happen later,
// in internal/executor and internal/provision.
package planner
