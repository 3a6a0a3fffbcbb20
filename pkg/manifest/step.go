// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Step kind identifiers. The kind is the single wire key of a step
// object: {"run": ...}, {"download": {...}}, and so on.
const (
	StepRun            StepKind = "run"
	StepDownload       StepKind = "download"
	StepExtract        StepKind = "extract"
	StepTemplateConfig StepKind = "template_config"
	// StepUnknown marks a step whose wire key this build does not
	// recognize. Unknown steps parse and validate cleanly (manifests may
	// target newer tools) but cannot be compiled into a plan.
	StepUnknown StepKind = "unknown"
)

type (
	// StepKind identifies a step variant.
	StepKind string

	// Step is the closed tagged variant for one unit of plan execution.
	// Exactly one of the variant pointers is set for a recognized step;
	// unrecognized steps carry their raw document bytes so they round-trip
	// opaquely.
	Step struct {
		Run            *RunStep
		Download       *DownloadStep
		Extract        *ExtractStep
		TemplateConfig *TemplateConfigStep

		// unknownKeys holds the wire keys of an unrecognized step, in
		// document order, for diagnostics.
		unknownKeys []string
		// unknownRaw preserves the original bytes of an unrecognized step.
		unknownRaw json.RawMessage
	}

	// RunStep executes a command through the target OS's shell.
	RunStep struct {
		Command string
	}

	// DownloadStep fetches a URL and writes the body to a destination
	// path under the working root.
	DownloadStep struct {
		URL  string `json:"url"`
		Dest string `json:"dest"`
	}

	// ExtractStep unpacks a .zip archive into a destination directory.
	ExtractStep struct {
		Archive string `json:"archive"`
		Dest    string `json:"dest"`
	}

	// TemplateConfigStep reads a source file, replaces {{KEY}} placeholders
	// with values from Vars, and writes the result to Dest. Placeholders
	// without a matching var are left verbatim.
	TemplateConfigStep struct {
		Source string            `json:"source"`
		Dest   string            `json:"dest"`
		Vars   map[string]string `json:"vars,omitempty"`
	}
)

// Kind returns the step's variant kind.
func (s *Step) Kind() StepKind {
	switch {
	case s.Run != nil:
		return StepRun
	case s.Download != nil:
		return StepDownload
	case s.Extract != nil:
		return StepExtract
	case s.TemplateConfig != nil:
		return StepTemplateConfig
	default:
		return StepUnknown
	}
}

// UnknownKeys returns the wire keys of an unrecognized step in document
// order, or nil for recognized steps.
func (s *Step) UnknownKeys() []string {
	if s.Kind() != StepUnknown {
		return nil
	}
	return s.unknownKeys
}

// IsEmpty reports whether the step object carried no fields at all.
// An empty object is not a forward-compatible unknown variant; it is a
// malformed step.
func (s *Step) IsEmpty() bool {
	return s.Kind() == StepUnknown && len(s.unknownKeys) == 0
}

// Description returns a short human-readable label for plan listings.
func (s *Step) Description() string {
	switch s.Kind() {
	case StepRun:
		return "Run: " + s.Run.Command
	case StepDownload:
		return fmt.Sprintf("Download %s -> %s", s.Download.URL, s.Download.Dest)
	case StepExtract:
		return fmt.Sprintf("Extract %s -> %s", s.Extract.Archive, s.Extract.Dest)
	case StepTemplateConfig:
		return fmt.Sprintf("Template %s -> %s", s.TemplateConfig.Source, s.TemplateConfig.Dest)
	default:
		if len(s.unknownKeys) > 0 {
			return "Unknown step: " + strings.Join(s.unknownKeys, ", ")
		}
		return "Unknown step"
	}
}

// UnmarshalJSON decodes a step object. The first recognized wire key
// determines the variant; objects without any recognized key are kept
// as opaque unknown steps for forward compatibility.
func (s *Step) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("step must be a JSON object, got %v", tok)
	}

	keys := make([]string, 0, 1)
	raws := make(map[string]json.RawMessage, 1)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("step object has non-string key %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("step key %q: %w", key, err)
		}
		keys = append(keys, key)
		raws[key] = raw
	}

	*s = Step{}
	for _, key := range keys {
		raw := raws[key]
		switch StepKind(key) {
		case StepRun:
			var cmd string
			if err := json.Unmarshal(raw, &cmd); err != nil {
				return fmt.Errorf("run step: %w", err)
			}
			s.Run = &RunStep{Command: cmd}
			return nil
		case StepDownload:
			var dl DownloadStep
			if err := json.Unmarshal(raw, &dl); err != nil {
				return fmt.Errorf("download step: %w", err)
			}
			s.Download = &dl
			return nil
		case StepExtract:
			var ex ExtractStep
			if err := json.Unmarshal(raw, &ex); err != nil {
				return fmt.Errorf("extract step: %w", err)
			}
			s.Extract = &ex
			return nil
		case StepTemplateConfig:
			var tc TemplateConfigStep
			if err := json.Unmarshal(raw, &tc); err != nil {
				return fmt.Errorf("template_config step: %w", err)
			}
			s.TemplateConfig = &tc
			return nil
		}
	}

	s.unknownKeys = keys
	s.unknownRaw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON re-emits the step in its wire form. Unknown steps emit
// their original bytes unchanged.
func (s Step) MarshalJSON() ([]byte, error) {
	switch s.Kind() {
	case StepRun:
		return json.Marshal(map[string]string{string(StepRun): s.Run.Command})
	case StepDownload:
		return json.Marshal(map[string]*DownloadStep{string(StepDownload): s.Download})
	case StepExtract:
		return json.Marshal(map[string]*ExtractStep{string(StepExtract): s.Extract})
	case StepTemplateConfig:
		return json.Marshal(map[string]*TemplateConfigStep{string(StepTemplateConfig): s.TemplateConfig})
	default:
		if s.unknownRaw != nil {
			return append([]byte(nil), s.unknownRaw...), nil
		}
		return []byte("{}"), nil
	}
}
