// SPDX-License-Identifier: MPL-2.0

package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"tailor-cli/pkg/platform"

	"github.com/google/uuid"
)

// FileName is the name of the state file inside the state directory.
const FileName = "state.json"

// appDirName is the per-application subdirectory under the platform state root.
const appDirName = "tailor"

// StoreError describes a failure to read or write the state file. Callers
// that record installs treat it as a warning: a store failure must never
// change the outcome of the install itself.
type StoreError struct {
	Path string
	Op   string // "load" or "save"
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s install state at %s: %v", e.Op, e.Path, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Store reads and appends install records at a fixed file path.
type Store struct {
	path string
}

// NewStore returns a store backed by the state file at path. The file and
// its directory need not exist yet; they are created on first append.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the state file path the store operates on.
func (s *Store) Path() string { return s.path }

// DefaultPath returns the platform-default location of the state file:
// %APPDATA%\tailor\state.json on Windows, ~/Library/Application
// Support/tailor/state.json on macOS, and $XDG_STATE_HOME/tailor/state.json
// (defaulting to ~/.local/state) elsewhere.
func DefaultPath() (string, error) {
	var stateDir string

	switch runtime.GOOS {
	case platform.Windows:
		stateDir = os.Getenv("APPDATA")
		if stateDir == "" {
			stateDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case platform.Darwin:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		stateDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		stateDir = os.Getenv("XDG_STATE_HOME")
		if stateDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			stateDir = filepath.Join(home, ".local", "state")
		}
	}

	return filepath.Join(stateDir, appDirName, FileName), nil
}

// Load returns every record in the store, oldest first. A missing state
// file is an empty store, not an error; an unreadable or malformed one is
// a *StoreError.
func (s *Store) Load() ([]Record, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &StoreError{Path: s.path, Op: "load", Err: err}
	}

	var file stateFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, &StoreError{Path: s.path, Op: "load", Err: fmt.Errorf("malformed state file: %w", err)}
	}

	return file.Installs, nil
}

// Append persists rec at the end of the store and returns the stored copy.
// A record whose Status is outside the known vocabulary is rejected before
// anything touches disk. The store assigns a fresh record ID and, when the
// caller left Timestamp zero, stamps the current time; timestamps are
// normalized to UTC either way. The rewrite is staged as a sibling .tmp
// file and renamed into place, so readers never observe a partially
// written store.
func (s *Store) Append(rec Record) (Record, error) {
	if valid, errs := rec.Status.IsValid(); !valid {
		return Record{}, &StoreError{Path: s.path, Op: "save", Err: errs[0]}
	}

	records, err := s.Load()
	if err != nil {
		return Record{}, err
	}

	rec.ID = uuid.New().String()
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}
	rec.Timestamp = rec.Timestamp.UTC()

	records = append(records, rec)
	if err := s.write(records); err != nil {
		return Record{}, err
	}

	return rec, nil
}

// write replaces the state file with the given records via a staged
// temporary file.
func (s *Store) write(records []Record) error {
	data, err := json.MarshalIndent(stateFile{Installs: records}, "", "  ")
	if err != nil {
		return &StoreError{Path: s.path, Op: "save", Err: err}
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return &StoreError{Path: s.path, Op: "save", Err: err}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return &StoreError{Path: s.path, Op: "save", Err: err}
	}
	if err := os.Rename(tmp, s.path); err != nil {
		// Best-effort cleanup; the live file is still intact.
		_ = os.Remove(tmp)
		return &StoreError{Path: s.path, Op: "save", Err: err}
	}

	return nil
}
