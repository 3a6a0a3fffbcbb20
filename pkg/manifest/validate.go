// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"mvdan.cc/sh/v3/syntax"

	"tailor-cli/pkg/platform"
	"tailor-cli/pkg/types"
)

const (
	// IssueTypeStructure categorizes structural issues (missing fields, no modes).
	IssueTypeStructure ValidationIssueType = "structure"
	// IssueTypeSteps categorizes step list and step content issues.
	IssueTypeSteps ValidationIssueType = "steps"
	// IssueTypeRequirements categorizes malformed requirement predicates.
	IssueTypeRequirements ValidationIssueType = "requirements"
	// IssueTypeRuntime categorizes runtime environment specification issues.
	IssueTypeRuntime ValidationIssueType = "runtime"
)

type (
	// ValidationIssueType categorizes manifest validation issues.
	ValidationIssueType string

	// ValidationIssue represents a single domain-level validation problem in a
	// manifest. Use ValidationIssue for problems that are collected and reported
	// as a batch via ValidationResult. Use error returns for I/O or
	// infrastructure failures that prevent validation from continuing.
	//
	//nolint:errname // Intentionally named Issue, not Error - semantic domain type
	ValidationIssue struct {
		// Type categorizes the issue (structure, steps, requirements, runtime).
		Type ValidationIssueType `json:"-"`
		// Message describes the specific problem
		Message string `json:"-"`
		// Path locates the issue within the manifest document (optional)
		Path string `json:"-"`
	}

	// ValidationResult contains the result of manifest validation.
	ValidationResult struct {
		// Valid is true if the manifest passed all validation checks
		Valid bool `json:"-"`
		// ManifestPath is the path of the validated manifest file
		ManifestPath types.FilesystemPath `json:"-"`
		// AppName is the application name declared by the manifest
		AppName string `json:"-"`
		// Modes lists the declared mode names in declaration order
		Modes []string `json:"-"`
		// Issues contains all validation problems found
		Issues []ValidationIssue `json:"-"`
	}

	// ValidationError is returned when a manifest fails validation. It
	// carries every problem found in a single pass, not just the first.
	ValidationError struct {
		// ManifestPath is the path of the offending manifest file.
		ManifestPath string
		// Issues holds all problems in document order.
		Issues []ValidationIssue
	}
)

// Error implements the error interface for ValidationIssue.
func (v ValidationIssue) Error() string {
	if v.Path != "" {
		return fmt.Sprintf("[%s] %s: %s", v.Type, v.Path, v.Message)
	}
	return fmt.Sprintf("[%s] %s", v.Type, v.Message)
}

// AddIssue adds a validation issue to the result.
func (r *ValidationResult) AddIssue(issueType ValidationIssueType, message, path string) {
	r.Issues = append(r.Issues, ValidationIssue{
		Type:    issueType,
		Message: message,
		Path:    path,
	})
	r.Valid = false
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		msgs = append(msgs, issue.Error())
	}
	return fmt.Sprintf("invalid manifest: %s", strings.Join(msgs, "; "))
}

// Validate performs comprehensive validation of the manifest and returns
// a ValidationResult with all issues found. It never stops at the first
// problem; a manifest with several authoring mistakes reports them all in
// one pass.
func (m *Manifest) Validate() *ValidationResult {
	result := &ValidationResult{
		Valid:        true,
		ManifestPath: types.FilesystemPath(m.FilePath),
		AppName:      m.AppName,
		Modes:        m.ModeNames(),
		Issues:       []ValidationIssue{},
	}

	if strings.TrimSpace(m.AppName) == "" {
		result.AddIssue(IssueTypeStructure, "app_name is missing or empty", "app_name")
	}
	if strings.TrimSpace(m.Version) == "" {
		result.AddIssue(IssueTypeStructure, "version is missing or empty", "version")
	}

	if len(m.Modes) == 0 {
		result.AddIssue(IssueTypeStructure, "manifest declares no modes", "modes")
		return result
	}

	for i := range m.Modes {
		m.Modes[i].validate(result)
	}

	return result
}

// validate collects this mode's issues into the result.
func (mode *Mode) validate(result *ValidationResult) {
	path := "modes." + mode.Name

	if len(mode.Steps) == 0 {
		result.AddIssue(IssueTypeSteps, "mode declares no step lists", path)
	} else if !mode.supportsAnyPlatform() {
		result.AddIssue(IssueTypeSteps,
			fmt.Sprintf("mode has no steps for any supported platform (%s)",
				strings.Join(platform.SupportedFamilies, ", ")),
			path+".steps")
	}

	for _, family := range sortedStepFamilies(mode.Steps) {
		for i, step := range mode.Steps[family] {
			validateStep(result, step, family, fmt.Sprintf("%s.steps.%s[%d]", path, family, i))
		}
	}

	if mode.Requirements != nil {
		mode.Requirements.validate(result, path+".requirements")
	}

	if mode.RuntimeEnv != nil {
		mode.RuntimeEnv.validate(result, path+".runtime_env")
	}
}

// sortedStepFamilies returns the step map's OS family keys in sorted
// order so that issue enumeration is deterministic across runs.
func sortedStepFamilies(steps map[string][]Step) []string {
	return slices.Sorted(maps.Keys(steps))
}

// supportsAnyPlatform reports whether the mode declares at least one
// step for at least one supported platform. Step lists keyed by other
// platforms are tolerated but never selectable.
func (mode *Mode) supportsAnyPlatform() bool {
	for family, steps := range mode.Steps {
		if platform.IsSupportedFamily(family) && len(steps) > 0 {
			return true
		}
	}
	return false
}

// validateStep collects content issues for a single step. Unknown step
// variants are not an issue here: they must keep parsing and validating
// cleanly so that manifests written for newer releases stay loadable.
func validateStep(result *ValidationResult, step Step, family, path string) {
	switch step.Kind() {
	case StepRun:
		if strings.TrimSpace(step.Run.Command) == "" {
			result.AddIssue(IssueTypeSteps, "run step has an empty command", path)
			return
		}
		// Steps destined for a POSIX shell get a syntax check so unclosed
		// quotes and dangling operators surface at validation time instead
		// of mid-install.
		if family == platform.FamilyMacOS {
			if _, err := syntax.NewParser().Parse(strings.NewReader(step.Run.Command), "command"); err != nil {
				result.AddIssue(IssueTypeSteps, fmt.Sprintf("run step has a shell syntax error: %v", err), path)
			}
		}
	case StepDownload:
		if strings.TrimSpace(step.Download.URL) == "" {
			result.AddIssue(IssueTypeSteps, "download step is missing url", path)
		}
		if strings.TrimSpace(step.Download.Dest) == "" {
			result.AddIssue(IssueTypeSteps, "download step is missing dest", path)
		}
	case StepExtract:
		if strings.TrimSpace(step.Extract.Archive) == "" {
			result.AddIssue(IssueTypeSteps, "extract step is missing archive", path)
		}
		if strings.TrimSpace(step.Extract.Dest) == "" {
			result.AddIssue(IssueTypeSteps, "extract step is missing dest", path)
		}
	case StepTemplateConfig:
		if strings.TrimSpace(step.TemplateConfig.Source) == "" {
			result.AddIssue(IssueTypeSteps, "template_config step is missing source", path)
		}
		if strings.TrimSpace(step.TemplateConfig.Dest) == "" {
			result.AddIssue(IssueTypeSteps, "template_config step is missing dest", path)
		}
	case StepUnknown:
		if step.IsEmpty() {
			result.AddIssue(IssueTypeSteps, "step object has no fields", path)
		}
	}

	// Destinations created on a Windows target must avoid reserved device
	// names; Windows refuses CON, NUL, COM1 and friends regardless of
	// extension, so they surface here instead of mid-install.
	if family == platform.FamilyWindows {
		validateWindowsDest(result, stepDest(step), path)
	}
}

// stepDest returns the filesystem path a step creates, if any.
func stepDest(step Step) string {
	switch step.Kind() {
	case StepDownload:
		return step.Download.Dest
	case StepExtract:
		return step.Extract.Dest
	case StepTemplateConfig:
		return step.TemplateConfig.Dest
	default:
		return ""
	}
}

// validateWindowsDest flags destination path segments that name reserved
// Windows devices.
func validateWindowsDest(result *ValidationResult, dest, path string) {
	for _, segment := range strings.Split(dest, "/") {
		if platform.IsWindowsReservedName(segment) {
			result.AddIssue(IssueTypeSteps,
				fmt.Sprintf("dest %q uses the reserved Windows name %q", dest, segment),
				path)
			return
		}
	}
}

// validate collects requirement predicate issues.
func (r *Requirements) validate(result *ValidationResult, path string) {
	for i, constraint := range r.OS {
		if err := constraint.Validate(); err != nil {
			result.AddIssue(IssueTypeRequirements, err.Error(), fmt.Sprintf("%s.os[%d]", path, i))
		}
	}
	for i, arch := range r.CPUArch {
		if strings.TrimSpace(arch) == "" {
			result.AddIssue(IssueTypeRequirements, "cpu_arch entry is empty", fmt.Sprintf("%s.cpu_arch[%d]", path, i))
		}
	}
	for i, mgr := range r.PackageManagers {
		if strings.TrimSpace(mgr) == "" {
			result.AddIssue(IssueTypeRequirements, "package_managers entry is empty", fmt.Sprintf("%s.package_managers[%d]", path, i))
		}
	}
}

// validate collects runtime environment specification issues.
func (s *RuntimeEnvSpec) validate(result *ValidationResult, path string) {
	switch {
	case s.Type == "":
		result.AddIssue(IssueTypeRuntime, "runtime_env is missing its type tag", path+".type")
	case !s.Type.IsValid():
		result.AddIssue(IssueTypeRuntime,
			fmt.Sprintf("unknown runtime type %q (expected %s or %s)", s.Type, RuntimeNodeLocal, RuntimePythonVenv),
			path+".type")
	case !s.ValidStrategy():
		valid := make([]string, 0, 3)
		for _, strategy := range StrategiesFor(s.Type) {
			valid = append(valid, string(strategy))
		}
		result.AddIssue(IssueTypeRuntime,
			fmt.Sprintf("install strategy %q is not valid for runtime type %q (valid: %s)",
				s.InstallStrategy, s.Type, strings.Join(valid, ", ")),
			path+".install_strategy")
	}
}
