// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ManifestName is the default base name for manifest files.
const ManifestName = "tailor.json"

type (
	// Manifest is the validated in-memory representation of an
	// application manifest.
	Manifest struct {
		// AppName identifies the application being installed.
		AppName string `json:"app_name"`
		// Version is the application version this manifest installs.
		Version string `json:"version"`
		// Modes lists the installable modes in declaration order.
		// Declaration order is the selection priority order.
		Modes ModeList `json:"modes"`

		// FilePath stores the path this manifest was loaded from (not in the document).
		FilePath string `json:"-"`
	}

	// Mode is one named installation path: its requirements, an optional
	// runtime environment, and per-OS step lists.
	Mode struct {
		// Name is the mode's key in the manifest's modes mapping.
		Name string `json:"-"`
		// Requirements are the predicates the host must satisfy for this
		// mode to be selectable. A nil value means no requirements.
		Requirements *Requirements `json:"requirements,omitempty"`
		// RuntimeEnv optionally requests an isolated runtime (local Node.js
		// or Python venv) for this mode's run steps.
		RuntimeEnv *RuntimeEnvSpec `json:"runtime_env,omitempty"`
		// Steps maps an OS family ("macos", "windows") to the ordered step
		// list executed on that family.
		Steps map[string][]Step `json:"steps"`
	}

	// ModeList holds modes in manifest declaration order. The JSON wire
	// format is an object keyed by mode name; Go maps and CUE values do
	// not preserve key order, so decoding walks the raw tokens instead.
	ModeList []Mode
)

// GetMode returns the mode with the given name, or nil if absent.
func (m *Manifest) GetMode(name string) *Mode {
	for i := range m.Modes {
		if m.Modes[i].Name == name {
			return &m.Modes[i]
		}
	}
	return nil
}

// ModeNames returns the mode names in declaration order.
func (m *Manifest) ModeNames() []string {
	names := make([]string, len(m.Modes))
	for i := range m.Modes {
		names[i] = m.Modes[i].Name
	}
	return names
}

// StepsFor returns the mode's step list for an OS family, or nil if the
// mode declares none for that family.
func (md *Mode) StepsFor(osFamily string) []Step {
	return md.Steps[osFamily]
}

// UnmarshalJSON decodes the modes object while preserving the key
// declaration order the document author wrote.
func (ml *ModeList) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("modes must be a JSON object, got %v", tok)
	}

	var modes ModeList
	seen := make(map[string]bool)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("modes object has non-string key %v", keyTok)
		}
		if seen[name] {
			return fmt.Errorf("duplicate mode %q", name)
		}
		seen[name] = true

		var mode Mode
		if err := dec.Decode(&mode); err != nil {
			return fmt.Errorf("mode %q: %w", name, err)
		}
		mode.Name = name
		modes = append(modes, mode)
	}

	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return err
	}

	*ml = modes
	return nil
}

// MarshalJSON re-emits the modes object in declaration order.
func (ml ModeList) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i := range ml {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(ml[i].Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(ml[i])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
