// SPDX-License-Identifier: MPL-2.0

// Package platform provides cross-platform compatibility utilities.
//
// This package centralizes the operating-system vocabulary shared by
// manifests, plans, and the host profile: manifest OS families, the
// mapping from runtime.GOOS to a family, CPU architecture
// normalization, and Windows filename restrictions.
package platform
