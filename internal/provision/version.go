// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// checkVersion probes a runtime binary's version and compares it
// against the required minimum. An empty minimum accepts any version.
func checkVersion(ctx context.Context, binary, minVersion string) error {
	if minVersion == "" {
		return nil
	}

	out, err := runCommand(ctx, binary, "--version")
	if err != nil {
		return fmt.Errorf("version probe %s --version failed: %w", binary, err)
	}

	probed, ok := parseVersion(string(out))
	if !ok {
		return fmt.Errorf("could not parse a version from %q", strings.TrimSpace(string(out)))
	}

	minimum := normalizeVersion(minVersion)
	if !semver.IsValid(minimum) {
		return fmt.Errorf("invalid minimum version %q", minVersion)
	}
	if semver.Compare(probed, minimum) < 0 {
		return fmt.Errorf("version %s is below the required minimum %s",
			strings.TrimPrefix(probed, "v"), minVersion)
	}
	return nil
}

// parseVersion extracts the first semver-looking token from version
// probe output such as "v18.17.0" or "Python 3.11.4".
func parseVersion(output string) (string, bool) {
	for _, field := range strings.Fields(output) {
		v := normalizeVersion(field)
		if semver.IsValid(v) {
			return v, true
		}
	}
	return "", false
}

// normalizeVersion adds the "v" prefix semver comparison requires.
func normalizeVersion(v string) string {
	if strings.HasPrefix(v, "v") {
		return v
	}
	return "v" + v
}
