// SPDX-License-Identifier: MPL-2.0

package executor

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// resolveUnderRoot resolves a manifest-authored path against the
// working root and rejects anything that escapes it. Steps may write
// only inside the working root; "../" hops and absolute paths pointing
// elsewhere are failures, not silent clamps.
func resolveUnderRoot(root, path string) (string, error) {
	if path == "" {
		return "", errors.New("empty path")
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolving working root: %w", err)
	}

	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(absRoot, abs)
	}
	abs = filepath.Clean(abs)

	rel, err := filepath.Rel(absRoot, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes the working root", path)
	}
	return abs, nil
}
