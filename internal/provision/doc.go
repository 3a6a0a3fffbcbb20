// SPDX-License-Identifier: MPL-2.0

// Package provision prepares the runtime environments install modes
// request before their steps run. A mode that declares a runtime_env
// gets a provisioning action prepended to its plan; applying the action
// makes sure a usable Node.js installation or Python virtual
// environment exists, creating one when the install strategy allows it.
//
// The package is split into a pure half and an effectful half:
//   - action.go: compiling a RuntimeEnvSpec into Actions plus the static
//     RuntimeContext (PATH prefixes, environment) later run steps inherit
//   - provisioner.go: applying Actions against the real filesystem and
//     PATH (probe, reuse, create, or fall back per the install strategy)
//   - version.go: minimum-version gating of probed runtimes
//
// Applying an action is idempotent: a runtime that already satisfies the
// spec is detected and reused, never rebuilt.
package provision
