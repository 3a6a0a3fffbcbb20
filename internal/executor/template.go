// SPDX-License-Identifier: MPL-2.0

package executor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tailor-cli/internal/planner"
	"tailor-cli/pkg/manifest"
)

// template reads the step's source file, substitutes {{KEY}}
// placeholders from the step's vars, and writes the result to the
// destination under the working root.
func (e *Executor) template(ectx planner.ExecContext, step *manifest.TemplateConfigStep) error {
	source, err := resolveUnderRoot(ectx.WorkRoot, step.Source)
	if err != nil {
		return err
	}
	dest, err := resolveUnderRoot(ectx.WorkRoot, step.Dest)
	if err != nil {
		return err
	}

	content, err := os.ReadFile(source)
	if err != nil {
		return fmt.Errorf("reading template %s: %w", step.Source, err)
	}

	rendered := renderTemplate(string(content), step.Vars)

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("creating destination directory: %w", err)
	}
	if err := os.WriteFile(dest, []byte(rendered), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", step.Dest, err)
	}
	return nil
}

// renderTemplate substitutes {{KEY}} placeholders in a single
// left-to-right pass. Keys are trimmed of surrounding whitespace
// before lookup; placeholders without a matching var are emitted
// verbatim, and an unclosed {{ passes the rest of the input through
// untouched. Substituted values are never rescanned.
func renderTemplate(content string, vars map[string]string) string {
	var out strings.Builder
	out.Grow(len(content))

	for {
		open := strings.Index(content, "{{")
		if open < 0 {
			out.WriteString(content)
			return out.String()
		}
		out.WriteString(content[:open])

		rest := content[open+2:]
		closing := strings.Index(rest, "}}")
		if closing < 0 {
			// Unclosed placeholder: everything from the opener on is
			// literal text.
			out.WriteString(content[open:])
			return out.String()
		}

		key := strings.TrimSpace(rest[:closing])
		if value, ok := vars[key]; ok {
			out.WriteString(value)
		} else {
			out.WriteString(content[open : open+2+closing+2])
		}
		content = rest[closing+2:]
	}
}
