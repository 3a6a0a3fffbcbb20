// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
)

// Install status constants. These are the only values an install outcome
// may carry, both in memory and in the state file on disk.
const (
	// StatusSuccess indicates every plan step completed.
	StatusSuccess InstallStatus = "success"
	// StatusFailed indicates execution halted on a failing step.
	StatusFailed InstallStatus = "failed"
)

// ErrInvalidInstallStatus is the sentinel error wrapped by InvalidInstallStatusError.
var ErrInvalidInstallStatus = errors.New("invalid install status")

type (
	// InstallStatus represents the terminal outcome of a plan execution.
	// The zero value ("") is invalid; an outcome is always success or failed.
	InstallStatus string

	// InvalidInstallStatusError is returned when an InstallStatus value is
	// neither success nor failed.
	InvalidInstallStatusError struct {
		Value InstallStatus
	}
)

// String returns the string representation of the InstallStatus.
func (s InstallStatus) String() string { return string(s) }

// IsValid returns whether the InstallStatus is one of the known values.
func (s InstallStatus) IsValid() (bool, []error) {
	switch s {
	case StatusSuccess, StatusFailed:
		return true, nil
	default:
		return false, []error{&InvalidInstallStatusError{Value: s}}
	}
}

// Error implements the error interface for InvalidInstallStatusError.
func (e *InvalidInstallStatusError) Error() string {
	return fmt.Sprintf("invalid install status %q: must be %q or %q", e.Value, StatusSuccess, StatusFailed)
}

// Unwrap returns ErrInvalidInstallStatus for errors.Is() compatibility.
func (e *InvalidInstallStatusError) Unwrap() error { return ErrInvalidInstallStatus }
