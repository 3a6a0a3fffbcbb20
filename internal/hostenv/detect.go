// SPDX-License-Identifier: MPL-2.0

package hostenv

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"sort"
	"strings"

	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"

	"tailor-cli/pkg/platform"
)

// ErrUnsupportedHost is returned when the current operating system is not
// one manifests can target. Callers can check for it using errors.Is.
var ErrUnsupportedHost = errors.New("unsupported host operating system")

var (
	// hostInfo is a test seam for host.InfoWithContext. Production code uses
	// the real implementation; tests replace it to simulate hosts.
	//
	//nolint:gochecknoglobals // Test seam requires a package-level variable.
	hostInfo = host.InfoWithContext

	// virtualMemory is a test seam for mem.VirtualMemoryWithContext.
	//
	//nolint:gochecknoglobals // Test seam requires a package-level variable.
	virtualMemory = mem.VirtualMemoryWithContext

	// lookPath is a test seam for exec.LookPath.
	//
	//nolint:gochecknoglobals // Test seam requires a package-level variable.
	lookPath = exec.LookPath

	// goos and goarch are test seams for the runtime constants.
	//
	//nolint:gochecknoglobals // Test seam requires a package-level variable.
	goos = runtime.GOOS
	//nolint:gochecknoglobals // Test seam requires a package-level variable.
	goarch = runtime.GOARCH
)

// packageManagerProbes maps each OS family to the package manager
// commands probed on it.
var packageManagerProbes = map[string][]string{
	platform.FamilyMacOS:   {"brew"},
	platform.FamilyWindows: {"winget", "choco", "scoop"},
}

// UnsupportedHostError reports a host OS that no manifest can target.
type UnsupportedHostError struct {
	// GOOS is the runtime.GOOS value of the host.
	GOOS string
}

// Error implements the error interface.
func (e *UnsupportedHostError) Error() string {
	return fmt.Sprintf("unsupported host operating system %q (supported: %s)",
		e.GOOS, strings.Join(platform.SupportedFamilies, ", "))
}

// Unwrap returns the sentinel error for errors.Is checks.
func (e *UnsupportedHostError) Unwrap() error {
	return ErrUnsupportedHost
}

// Detect probes the current host and returns its Profile. The profile is
// computed fresh on every call; nothing is cached between invocations.
func Detect(ctx context.Context) (*Profile, error) {
	family, ok := platform.FamilyForGOOS(goos)
	if !ok {
		return nil, &UnsupportedHostError{GOOS: goos}
	}

	info, err := hostInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read host information: %w", err)
	}

	vm, err := virtualMemory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read memory information: %w", err)
	}

	profile := &Profile{
		OSFamily:        family,
		OSVersion:       info.PlatformVersion,
		Arch:            platform.NormalizeArch(goarch),
		RAMBytes:        vm.Total,
		PackageManagers: detectPackageManagers(family),
		Hostname:        info.Hostname,
	}
	profile.Fingerprint = Fingerprint(profile)

	return profile, nil
}

// detectPackageManagers probes PATH for the family's package manager
// commands and returns the hits sorted.
func detectPackageManagers(family string) []string {
	found := []string{}
	for _, name := range packageManagerProbes[family] {
		if _, err := lookPath(name); err == nil {
			found = append(found, name)
		}
	}
	sort.Strings(found)
	return found
}
