// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestStepUnmarshalRecognizedVariants(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
		want StepKind
	}{
		{"run", `{"run": "brew install demo"}`, StepRun},
		{"download", `{"download": {"url": "https://example.com/a.zip", "dest": "a.zip"}}`, StepDownload},
		{"extract", `{"extract": {"archive": "a.zip", "dest": "unpacked"}}`, StepExtract},
		{"template_config", `{"template_config": {"source": "cfg.tmpl", "dest": "cfg.ini", "vars": {"APP": "demo"}}}`, StepTemplateConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var step Step
			if err := json.Unmarshal([]byte(tt.data), &step); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if step.Kind() != tt.want {
				t.Errorf("Kind() = %q, want %q", step.Kind(), tt.want)
			}
		})
	}
}

func TestStepUnmarshalFieldValues(t *testing.T) {
	t.Parallel()

	var step Step
	data := `{"template_config": {"source": "app.conf.tmpl", "dest": "app.conf", "vars": {"PORT": "8080", "HOST": "localhost"}}}`
	if err := json.Unmarshal([]byte(data), &step); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	tc := step.TemplateConfig
	if tc == nil {
		t.Fatal("TemplateConfig = nil, want populated variant")
	}
	if tc.Source != "app.conf.tmpl" || tc.Dest != "app.conf" {
		t.Errorf("TemplateConfig = {%q %q}, want {app.conf.tmpl app.conf}", tc.Source, tc.Dest)
	}
	want := map[string]string{"PORT": "8080", "HOST": "localhost"}
	if !reflect.DeepEqual(tc.Vars, want) {
		t.Errorf("Vars = %v, want %v", tc.Vars, want)
	}
}

func TestStepUnmarshalFirstRecognizedKeyWins(t *testing.T) {
	t.Parallel()

	// A future manifest might pair an unknown key with a recognized one;
	// the recognized key decides the variant regardless of position.
	var step Step
	data := `{"retries": 3, "run": "echo hi"}`
	if err := json.Unmarshal([]byte(data), &step); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if step.Kind() != StepRun {
		t.Fatalf("Kind() = %q, want %q", step.Kind(), StepRun)
	}
	if step.Run.Command != "echo hi" {
		t.Errorf("Run.Command = %q, want %q", step.Run.Command, "echo hi")
	}
}

func TestStepUnmarshalUnknownVariant(t *testing.T) {
	t.Parallel()

	var step Step
	data := `{"reboot": {"delay_seconds": 5}}`
	if err := json.Unmarshal([]byte(data), &step); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if step.Kind() != StepUnknown {
		t.Fatalf("Kind() = %q, want %q", step.Kind(), StepUnknown)
	}
	if keys := step.UnknownKeys(); len(keys) != 1 || keys[0] != "reboot" {
		t.Errorf("UnknownKeys() = %v, want [reboot]", keys)
	}
	if step.IsEmpty() {
		t.Error("IsEmpty() = true, want false for an unknown variant with keys")
	}
}

func TestStepUnknownRoundTripsVerbatim(t *testing.T) {
	t.Parallel()

	data := `{"reboot":{"delay_seconds":5}}`

	var step Step
	if err := json.Unmarshal([]byte(data), &step); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	out, err := json.Marshal(step)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(out) != data {
		t.Errorf("Marshal() = %s, want original bytes %s", out, data)
	}
}

func TestStepUnmarshalEmptyObject(t *testing.T) {
	t.Parallel()

	var step Step
	if err := json.Unmarshal([]byte(`{}`), &step); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !step.IsEmpty() {
		t.Error("IsEmpty() = false, want true for {}")
	}
}

func TestStepUnmarshalBadPayload(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{"run with object payload", `{"run": {"command": "echo"}}`},
		{"download with string payload", `{"download": "https://example.com"}`},
		{"step not an object", `["run"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var step Step
			if err := json.Unmarshal([]byte(tt.data), &step); err == nil {
				t.Errorf("Unmarshal(%s) error = nil, want payload error", tt.data)
			}
		})
	}
}

func TestStepDescription(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		step Step
		want string
	}{
		{"run", Step{Run: &RunStep{Command: "brew install demo"}}, "Run: brew install demo"},
		{"download", Step{Download: &DownloadStep{URL: "https://example.com/a.zip", Dest: "a.zip"}}, "Download https://example.com/a.zip -> a.zip"},
		{"extract", Step{Extract: &ExtractStep{Archive: "a.zip", Dest: "unpacked"}}, "Extract a.zip -> unpacked"},
		{"template", Step{TemplateConfig: &TemplateConfigStep{Source: "s.tmpl", Dest: "s.ini"}}, "Template s.tmpl -> s.ini"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.step.Description(); got != tt.want {
				t.Errorf("Description() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStepMarshalRecognizedVariants(t *testing.T) {
	t.Parallel()

	step := Step{Run: &RunStep{Command: "echo hi"}}
	out, err := json.Marshal(step)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(out) != `{"run":"echo hi"}` {
		t.Errorf("Marshal() = %s, want {\"run\":\"echo hi\"}", out)
	}
}
