// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"mvdan.cc/sh/v3/syntax"

	"tailor-cli/pkg/manifest"
	"tailor-cli/pkg/platform"
)

// ErrRuntimeUnavailable is returned when a requested runtime cannot be
// provisioned under the mode's install strategy. Callers can check for
// it using errors.Is.
var ErrRuntimeUnavailable = errors.New("runtime unavailable")

var (
	// lookPath is a test seam for exec.LookPath.
	//
	//nolint:gochecknoglobals // Test seam requires a package-level variable.
	lookPath = exec.LookPath

	// runCommand is a test seam for running version probes and virtual
	// environment creation commands.
	//
	//nolint:gochecknoglobals // Test seam requires a package-level variable.
	runCommand = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return exec.CommandContext(ctx, name, args...).CombinedOutput()
	}
)

// RuntimeUnavailableError reports a runtime that could not be
// provisioned: nothing usable was found and the install strategy
// forbade (or fallbacks exhausted) every alternative.
type RuntimeUnavailableError struct {
	// Kind is the provisioning action that failed.
	Kind ActionKind
	// Reason describes what was tried and why it did not work.
	Reason string
}

// Error implements the error interface.
func (e *RuntimeUnavailableError) Error() string {
	return fmt.Sprintf("%s runtime unavailable: %s", e.Kind.runtimeName(), e.Reason)
}

// Unwrap returns the sentinel error for errors.Is checks.
func (e *RuntimeUnavailableError) Unwrap() error {
	return ErrRuntimeUnavailable
}

// runtimeName returns the human name of the runtime an action ensures.
func (k ActionKind) runtimeName() string {
	switch k {
	case ActionEnsureNode:
		return "Node.js"
	case ActionEnsurePythonVenv:
		return "Python"
	default:
		return string(k)
	}
}

// Apply executes a provisioning action against the host. Applying the
// same action twice is safe: an already-satisfied runtime is detected
// and reused, never rebuilt.
func Apply(ctx context.Context, action Action) error {
	switch action.Kind {
	case ActionEnsureNode:
		return ensureNode(ctx, action)
	case ActionEnsurePythonVenv:
		return ensurePythonVenv(ctx, action)
	default:
		return fmt.Errorf("unknown provisioning action %q", action.Kind)
	}
}

// ensureNode satisfies an ensure_node action: reuse a local bundle under
// the runtime directory when one exists and passes the version gate,
// otherwise fall back to a global node on PATH when the strategy
// permits.
func ensureNode(ctx context.Context, action Action) error {
	if action.Strategy != manifest.StrategyGlobalOnly {
		local := filepath.Join(action.Dir, "bin", "node"+platform.ExecutableSuffix(action.OSFamily))
		if fileExists(local) {
			err := checkVersion(ctx, local, action.MinVersion)
			if err == nil {
				slog.Debug("reusing local node bundle", "path", local)
				return nil
			}
			slog.Debug("local node bundle rejected", "path", local, "error", err)
		}
	}

	if !action.Strategy.AllowsGlobal() {
		return &RuntimeUnavailableError{
			Kind:   action.Kind,
			Reason: fmt.Sprintf("no usable node binary under %s and install strategy %q forbids a global fallback", action.Dir, action.Strategy),
		}
	}

	global, err := lookPath("node")
	if err != nil {
		return &RuntimeUnavailableError{Kind: action.Kind, Reason: "node not found on PATH"}
	}
	if err := checkVersion(ctx, global, action.MinVersion); err != nil {
		return &RuntimeUnavailableError{Kind: action.Kind, Reason: err.Error()}
	}
	if action.Strategy != manifest.StrategyGlobalOnly {
		slog.Debug("local node bundle unavailable, using global node", "path", global)
	}
	return nil
}

// ensurePythonVenv satisfies an ensure_python_venv action: reuse the
// virtual environment when its interpreter exists and passes the
// version gate, otherwise create one with a global interpreter. When
// creation fails and the strategy permits a global fallback, the run
// proceeds degraded on the global interpreter.
func ensurePythonVenv(ctx context.Context, action Action) error {
	if action.Strategy == manifest.StrategyGlobalOnly {
		_, err := findGlobalPython(ctx, action)
		return err
	}

	python := venvPython(action.Dir, action.OSFamily)
	if fileExists(python) {
		if err := checkVersion(ctx, python, action.MinVersion); err != nil {
			return &RuntimeUnavailableError{
				Kind:   action.Kind,
				Reason: fmt.Sprintf("existing virtual environment at %s: %v", action.Dir, err),
			}
		}
		slog.Debug("reusing virtual environment", "path", action.Dir)
		return nil
	}

	launcher, err := findGlobalPython(ctx, action)
	if err != nil {
		return err
	}

	args := []string{"-m", "venv", action.Dir}
	slog.Debug("creating virtual environment", "command", displayCommand(launcher, args))
	if out, runErr := runCommand(ctx, launcher, args...); runErr != nil {
		if action.Strategy.AllowsGlobal() {
			slog.Warn("virtual environment creation failed, falling back to global interpreter",
				"command", displayCommand(launcher, args), "error", runErr)
			return nil
		}
		return &RuntimeUnavailableError{
			Kind:   action.Kind,
			Reason: fmt.Sprintf("creating virtual environment at %s: %v: %s", action.Dir, runErr, firstLine(out)),
		}
	}
	return nil
}

// findGlobalPython locates a Python interpreter on PATH that passes the
// action's version gate, probing the family's launcher names in
// preference order.
func findGlobalPython(ctx context.Context, action Action) (string, error) {
	names := pythonLaunchers(action.OSFamily)

	var gateErr error
	for _, name := range names {
		path, err := lookPath(name)
		if err != nil {
			continue
		}
		if err := checkVersion(ctx, path, action.MinVersion); err != nil {
			gateErr = err
			continue
		}
		return path, nil
	}

	reason := fmt.Sprintf("no python interpreter found on PATH (tried %s)", strings.Join(names, ", "))
	if gateErr != nil {
		reason = gateErr.Error()
	}
	return "", &RuntimeUnavailableError{Kind: action.Kind, Reason: reason}
}

// pythonLaunchers returns the interpreter commands probed on PATH for
// an OS family, most preferred first.
func pythonLaunchers(osFamily string) []string {
	if osFamily == platform.FamilyWindows {
		return []string{"py", "python"}
	}
	return []string{"python3", "python"}
}

// venvPython returns the interpreter path inside a virtual environment
// for the given OS family.
func venvPython(dir, osFamily string) string {
	if osFamily == platform.FamilyWindows {
		return filepath.Join(dir, "Scripts", "python.exe")
	}
	return filepath.Join(dir, "bin", "python")
}

// fileExists reports whether path names an existing regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// displayCommand renders a command line for log output, shell-quoting
// arguments that need it.
func displayCommand(name string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	for _, raw := range append([]string{name}, args...) {
		quoted, err := syntax.Quote(raw, syntax.LangBash)
		if err != nil {
			quoted = raw
		}
		parts = append(parts, quoted)
	}
	return strings.Join(parts, " ")
}

// firstLine returns the first non-empty line of command output, for
// compact error messages.
func firstLine(out []byte) string {
	for _, line := range strings.Split(string(out), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return "(no output)"
}
