// SPDX-License-Identifier: MPL-2.0

package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"

	"tailor-cli/internal/planner"
	"tailor-cli/pkg/manifest"
	"tailor-cli/pkg/platform"
)

// runShell executes a run step through the plan OS's fixed shell:
// cmd /C on windows, /bin/sh -c everywhere else. The user's $SHELL is
// never consulted, so the same manifest installs identically on every
// machine of a family. Returns the process exit code (-1 when the
// process could not run) and an error for any non-zero exit.
func (e *Executor) runShell(ctx context.Context, osFamily string, ectx planner.ExecContext, step *manifest.RunStep, stdout, stderr io.Writer) (int, error) {
	name, arg := shellFor(osFamily)
	cmd := exec.CommandContext(ctx, name, arg, step.Command)
	cmd.Dir = ectx.WorkRoot
	cmd.Env = buildEnv(osFamily, ectx)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code := exitErr.ExitCode()
			return code, fmt.Errorf("command exited with status %d", code)
		}
		return -1, fmt.Errorf("failed to start command: %w", err)
	}
	return 0, nil
}

// shellFor returns the shell binary and its command flag for an OS
// family.
func shellFor(osFamily string) (name, arg string) {
	if osFamily == platform.FamilyWindows {
		return "cmd", "/C"
	}
	return "/bin/sh", "-c"
}

// buildEnv merges the parent environment with a step's compile-time
// context: context env vars are appended (sorted, so runs are
// reproducible) and PathPrefixes are prepended to PATH using the plan
// OS's separator.
func buildEnv(osFamily string, ectx planner.ExecContext) []string {
	environ := os.Environ()
	if len(ectx.Env) == 0 && len(ectx.PathPrefixes) == 0 {
		return environ
	}

	sep := platform.PathListSeparator(osFamily)
	merged := make([]string, 0, len(environ)+len(ectx.Env))
	pathDone := false

	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			merged = append(merged, kv)
			continue
		}
		if _, overridden := ectx.Env[key]; overridden {
			continue
		}
		if len(ectx.PathPrefixes) > 0 && strings.EqualFold(key, "PATH") {
			value = strings.Join(append(append([]string{}, ectx.PathPrefixes...), value), sep)
			pathDone = true
		}
		merged = append(merged, key+"="+value)
	}

	extra := make([]string, 0, len(ectx.Env))
	for key := range ectx.Env {
		extra = append(extra, key)
	}
	sort.Strings(extra)
	for _, key := range extra {
		merged = append(merged, key+"="+ectx.Env[key])
	}

	if !pathDone && len(ectx.PathPrefixes) > 0 {
		merged = append(merged, "PATH="+strings.Join(ectx.PathPrefixes, sep))
	}
	return merged
}
