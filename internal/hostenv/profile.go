// SPDX-License-Identifier: MPL-2.0

package hostenv

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// hostnameSentinel encodes an absent hostname in the fingerprint input.
// Absence must hash differently from the empty string being a field
// separator artifact, and identically across runs, so the hash domain
// stays stable.
const hostnameSentinel = "<none>"

// Profile is an immutable snapshot of the host taken at invocation time.
type Profile struct {
	// OSFamily is the manifest-facing OS family ("macos" or "windows").
	OSFamily string `json:"os_family"`
	// OSVersion is the host OS version as reported by the platform.
	OSVersion string `json:"os_version"`
	// Arch is the normalized CPU architecture ("x86_64", "arm64", ...).
	Arch string `json:"arch"`
	// RAMBytes is the total physical memory in bytes.
	RAMBytes uint64 `json:"ram_bytes"`
	// PackageManagers lists the detected package manager commands, sorted.
	PackageManagers []string `json:"package_managers"`
	// Hostname is the host's name; empty when it could not be determined.
	Hostname string `json:"hostname,omitempty"`
	// Fingerprint is the hex sha256 digest identifying this profile.
	Fingerprint string `json:"fingerprint"`
}

// RAMGB returns the total memory in whole gigabytes, rounded down. This
// is the unit requirement predicates are written in.
func (p *Profile) RAMGB() uint64 {
	return p.RAMBytes >> 30
}

// HasPackageManager reports whether the named package manager was
// detected on the host.
func (p *Profile) HasPackageManager(name string) bool {
	for _, mgr := range p.PackageManagers {
		if mgr == name {
			return true
		}
	}
	return false
}

// Fingerprint computes the profile's identity digest: the sha256 of an
// ordered, fixed field list. Identical field values always produce the
// identical digest. Package managers are excluded; installing a package
// manager must not change the machine's identity.
func Fingerprint(p *Profile) string {
	var b strings.Builder
	hostname := p.Hostname
	if hostname == "" {
		hostname = hostnameSentinel
	}
	fmt.Fprintf(&b, "os_family=%s\n", p.OSFamily)
	fmt.Fprintf(&b, "os_version=%s\n", p.OSVersion)
	fmt.Fprintf(&b, "arch=%s\n", p.Arch)
	fmt.Fprintf(&b, "ram_bytes=%d\n", p.RAMBytes)
	fmt.Fprintf(&b, "hostname=%s\n", hostname)

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
