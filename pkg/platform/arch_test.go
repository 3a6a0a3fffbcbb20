// SPDX-License-Identifier: MPL-2.0

package platform

import "testing"

func TestNormalizeArch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"amd64", "amd64", ArchX64},
		{"x86_64", "x86_64", ArchX64},
		{"x86_64 uppercase", "X86_64", ArchX64},
		{"x64 passthrough", "x64", ArchX64},
		{"aarch64", "aarch64", ArchARM64},
		{"arm64", "arm64", ArchARM64},
		{"ARM64 uppercase", "ARM64", ArchARM64},
		{"whitespace trimmed", "  amd64  ", ArchX64},
		{"unknown lowercased", "RISCV64", "riscv64"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := NormalizeArch(tt.input); got != tt.expected {
				t.Errorf("NormalizeArch(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
