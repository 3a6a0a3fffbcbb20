// SPDX-License-Identifier: MPL-2.0

package platform

import "strings"

// Canonical CPU architecture identifiers used by manifests and host
// profiles.
const (
	ArchX64   = "x86_64"
	ArchARM64 = "arm64"
)

// NormalizeArch canonicalizes a CPU architecture string. Vendors and
// runtimes disagree on spelling (amd64, x86_64, x64, AMD64, aarch64);
// the profile vocabulary uses x86_64 and arm64. Unrecognized values are
// lowercased and passed through so comparisons stay case-insensitive.
func NormalizeArch(arch string) string {
	switch a := strings.ToLower(strings.TrimSpace(arch)); a {
	case "amd64", "x86_64", "x64":
		return ArchX64
	case "arm64", "aarch64":
		return ArchARM64
	default:
		return a
	}
}
