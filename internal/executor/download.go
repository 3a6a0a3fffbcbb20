// SPDX-License-Identifier: MPL-2.0

package executor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"tailor-cli/internal/planner"
	"tailor-cli/pkg/manifest"
)

// download fetches a URL and writes the body to the step's destination
// under the working root. The body streams into a .partial temp file
// that is renamed into place only after a complete write and close, so
// an interrupted download never leaves a truncated destination behind.
func (e *Executor) download(ctx context.Context, ectx planner.ExecContext, step *manifest.DownloadStep) error {
	dest, err := resolveUnderRoot(ectx.WorkRoot, step.Dest)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, step.URL, nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", step.URL, err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", step.URL, err)
	}
	defer func() { _ = resp.Body.Close() }() // read-only HTTP response body

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("fetching %s: HTTP %s", step.URL, resp.Status)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("creating destination directory: %w", err)
	}

	partial := dest + ".partial"
	out, err := os.Create(partial)
	if err != nil {
		return fmt.Errorf("creating %s: %w", partial, err)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		_ = out.Close()
		_ = os.Remove(partial)
		return fmt.Errorf("writing %s: %w", partial, err)
	}
	// Close before rename: Windows cannot rename an open file.
	if err := out.Close(); err != nil {
		_ = os.Remove(partial)
		return fmt.Errorf("closing %s: %w", partial, err)
	}
	if err := os.Rename(partial, dest); err != nil {
		_ = os.Remove(partial)
		return err
	}
	return nil
}
