// SPDX-License-Identifier: MPL-2.0

package platform

// OS name constants for runtime.GOOS comparisons.
// Centralizes the string literals to avoid scattered magic strings.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)

// Manifest OS family identifiers. Manifests and plans never speak GOOS;
// they use these families, which also appear in requirement strings
// such as "macos>=13.0".
const (
	FamilyMacOS   = "macos"
	FamilyWindows = "windows"
)

// SupportedFamilies lists every OS family a manifest may target, in the
// order they are reported in diagnostics.
var SupportedFamilies = []string{FamilyMacOS, FamilyWindows}

// IsSupportedFamily reports whether family names an OS family manifests
// may target.
func IsSupportedFamily(family string) bool {
	for _, f := range SupportedFamilies {
		if f == family {
			return true
		}
	}
	return false
}

// FamilyForGOOS maps a runtime.GOOS value to its manifest OS family.
// The second return is false for hosts no manifest can target.
func FamilyForGOOS(goos string) (string, bool) {
	switch goos {
	case Darwin:
		return FamilyMacOS, true
	case Windows:
		return FamilyWindows, true
	default:
		return "", false
	}
}

// PathListSeparator returns the PATH entry separator for the given OS
// family. Plans record the separator of their target, not of the host
// compiling them.
func PathListSeparator(family string) string {
	if family == FamilyWindows {
		return ";"
	}
	return ":"
}

// ExecutableSuffix returns the filename suffix executables carry on the
// given OS family ("" everywhere except windows).
func ExecutableSuffix(family string) string {
	if family == FamilyWindows {
		return ".exe"
	}
	return ""
}
