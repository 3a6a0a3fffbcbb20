// SPDX-License-Identifier: MPL-2.0

package executor

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"tailor-cli/internal/planner"
	"tailor-cli/pkg/manifest"
)

// ErrUnsupportedArchive is returned for extract steps naming an
// archive format other than .zip. Callers can check for it using
// errors.Is.
var ErrUnsupportedArchive = errors.New("unsupported archive format")

// extract unpacks a .zip archive into the step's destination directory
// under the working root. Entry paths are sanitized: absolute entries
// and entries escaping the destination are failures. File modes are
// preserved.
func (e *Executor) extract(ectx planner.ExecContext, step *manifest.ExtractStep) error {
	if ext := strings.ToLower(filepath.Ext(step.Archive)); ext != ".zip" {
		return fmt.Errorf("%w: %q (only .zip archives are supported)", ErrUnsupportedArchive, ext)
	}

	archive, err := resolveUnderRoot(ectx.WorkRoot, step.Archive)
	if err != nil {
		return err
	}
	dest, err := resolveUnderRoot(ectx.WorkRoot, step.Dest)
	if err != nil {
		return err
	}

	reader, err := zip.OpenReader(archive)
	if err != nil {
		return fmt.Errorf("opening %s: %w", step.Archive, err)
	}
	defer func() { _ = reader.Close() }() // read-only archive handle

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("creating destination directory: %w", err)
	}

	for _, entry := range reader.File {
		if err := extractEntry(dest, entry); err != nil {
			return fmt.Errorf("extracting %s: %w", entry.Name, err)
		}
	}
	return nil
}

// extractEntry writes one archive entry under dest, rejecting entry
// names that would land outside it.
func extractEntry(dest string, entry *zip.File) error {
	target, err := sanitizeEntryPath(dest, entry.Name)
	if err != nil {
		return err
	}

	if entry.FileInfo().IsDir() {
		return os.MkdirAll(target, 0o755)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	src, err := entry.Open()
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }() // read-only entry handle

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, entry.Mode())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, src); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// sanitizeEntryPath joins an archive entry name onto the destination
// and rejects names that are absolute or climb out of it.
func sanitizeEntryPath(dest, name string) (string, error) {
	if name == "" {
		return "", errors.New("empty entry name")
	}
	if filepath.IsAbs(name) || strings.HasPrefix(name, "/") {
		return "", fmt.Errorf("absolute entry path %q", name)
	}

	target := filepath.Join(dest, filepath.FromSlash(name))
	rel, err := filepath.Rel(dest, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("entry path %q escapes the destination", name)
	}
	return target, nil
}
