// SPDX-License-Identifier: MPL-2.0

package state

import (
	"time"

	"tailor-cli/pkg/types"
)

// Record describes one install run: which application and mode were
// installed, on what kind of machine, and how it ended. The store assigns
// ID when the record is appended; every other field is filled in by the
// caller from the executed plan and its result.
type Record struct {
	ID          string              `json:"id"`
	AppName     string              `json:"app_name"`
	AppVersion  string              `json:"app_version"`
	Mode        string              `json:"mode"`
	OSFamily    string              `json:"os_family"`
	Arch        string              `json:"cpu_arch"`
	Fingerprint string              `json:"fingerprint"`
	Status      types.InstallStatus `json:"status"`
	Timestamp   time.Time           `json:"timestamp"`
}

// stateFile is the on-disk shape of the state store. The wrapper object
// leaves room for future top-level fields without a format break.
type stateFile struct {
	Installs []Record `json:"installs"`
}
