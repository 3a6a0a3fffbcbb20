// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

const (
	// LogLevelDebug logs every runtime probe and resolution detail.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo logs the default operational messages.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn logs only degraded outcomes, such as a virtual
	// environment falling back to a global interpreter.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError logs only failures.
	LogLevelError LogLevel = "error"
)

var (
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidStateDirPath is returned when a StateDirPath value is whitespace-only.
	ErrInvalidStateDirPath = errors.New("invalid state dir path")
	// ErrInvalidWorkRootPath is returned when a WorkRootPath value is whitespace-only.
	ErrInvalidWorkRootPath = errors.New("invalid work root path")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// LogLevel selects the minimum slog level the CLI emits.
	LogLevel string

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	// It wraps ErrInvalidLogLevel for errors.Is() compatibility.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// StateDirPath represents a filesystem path to the directory holding the
	// install history. The zero value ("") is valid and means "use the
	// platform default state directory".
	StateDirPath string

	// InvalidStateDirPathError is returned when a StateDirPath value is
	// non-empty but whitespace-only.
	InvalidStateDirPathError struct {
		Value StateDirPath
	}

	// WorkRootPath represents the default working root for install steps.
	// The zero value ("") is valid and means "use the current directory".
	WorkRootPath string

	// InvalidWorkRootPathError is returned when a WorkRootPath value is
	// non-empty but whitespace-only.
	InvalidWorkRootPathError struct {
		Value WorkRootPath
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all fields.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// LogLevel sets the minimum level for diagnostic logging.
		LogLevel LogLevel `json:"log_level" mapstructure:"log_level"`
		// StateDir overrides the directory that holds the install history.
		StateDir StateDirPath `json:"state_dir" mapstructure:"state_dir"`
		// WorkRoot overrides the default working root for install steps.
		WorkRoot WorkRootPath `json:"work_root" mapstructure:"work_root"`
	}
)

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string { return string(l) }

// IsValid returns whether the LogLevel is one of the defined levels,
// and a list of validation errors if it is not.
func (l LogLevel) IsValid() (bool, []error) {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true, nil
	default:
		return false, []error{&InvalidLogLevelError{Value: l}}
	}
}

// SlogLevel maps the configured level to its slog equivalent. Values that
// fail IsValid map to Info, but validation rejects them before this matters.
func (l LogLevel) SlogLevel() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Error implements the error interface for InvalidLogLevelError.
func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidLogLevelError) Unwrap() error {
	return ErrInvalidLogLevel
}

// String returns the string representation of the StateDirPath.
func (p StateDirPath) String() string { return string(p) }

// IsValid returns whether the StateDirPath is valid.
// The zero value ("") is valid (means "use the platform default").
// Non-zero values must not be whitespace-only.
func (p StateDirPath) IsValid() (bool, []error) {
	if p == "" {
		return true, nil
	}
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidStateDirPathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidStateDirPathError.
func (e *InvalidStateDirPathError) Error() string {
	return fmt.Sprintf("invalid state dir path %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidStateDirPath for errors.Is() compatibility.
func (e *InvalidStateDirPathError) Unwrap() error { return ErrInvalidStateDirPath }

// String returns the string representation of the WorkRootPath.
func (p WorkRootPath) String() string { return string(p) }

// IsValid returns whether the WorkRootPath is valid.
// The zero value ("") is valid (means "use the current directory").
// Non-zero values must not be whitespace-only.
func (p WorkRootPath) IsValid() (bool, []error) {
	if p == "" {
		return true, nil
	}
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidWorkRootPathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidWorkRootPathError.
func (e *InvalidWorkRootPathError) Error() string {
	return fmt.Sprintf("invalid work root path %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidWorkRootPath for errors.Is() compatibility.
func (e *InvalidWorkRootPathError) Unwrap() error { return ErrInvalidWorkRootPath }

// IsValid returns whether the Config has valid fields.
// It delegates to LogLevel.IsValid(), StateDir.IsValid() and
// WorkRoot.IsValid() and collects every field error.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.LogLevel.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.StateDir.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.WorkRoot.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		LogLevel: LogLevelInfo,
		StateDir: "", // Will use the platform default state directory if empty
		WorkRoot: "", // Will use the current directory if empty
	}
}
