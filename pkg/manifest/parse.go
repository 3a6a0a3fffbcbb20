// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"tailor-cli/pkg/cueutil"
)

//go:embed manifest_schema.cue
var manifestSchema string

// Parse reads and parses a manifest from the given path.
func Parse(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest at %s: %w", path, err)
	}

	return ParseBytes(data, path)
}

// ParseBytes parses manifest content from bytes.
//
// Structure and field types are checked against the embedded CUE schema
// first (JSON is valid CUE, so manifest bytes compile directly). The
// typed decode then goes through encoding/json rather than CUE's decoder
// because mode declaration order is significant: the custom ModeList and
// Step unmarshalers walk the raw tokens to preserve it.
func ParseBytes(data []byte, path string) (*Manifest, error) {
	if _, err := cueutil.ValidateString(
		manifestSchema,
		data,
		"#Manifest",
		cueutil.WithFilename(path),
	); err != nil {
		return nil, err
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode manifest at %s: %w", path, err)
	}
	m.FilePath = path

	result := m.Validate()
	if !result.Valid {
		return nil, &ValidationError{
			ManifestPath: path,
			Issues:       result.Issues,
		}
	}

	return &m, nil
}
