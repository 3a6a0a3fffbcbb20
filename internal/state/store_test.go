// SPDX-License-Identifier: MPL-2.0

package state

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"tailor-cli/pkg/types"
)

func testRecord(mode string, status types.InstallStatus) Record {
	return Record{
		AppName:     "demo",
		AppVersion:  "1.2.0",
		Mode:        mode,
		OSFamily:    "macos",
		Arch:        "arm64",
		Fingerprint: "f1e2d3c4b5a6",
		Status:      status,
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	store := NewStore(filepath.Join(t.TempDir(), "state.json"))

	records, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v, want nil for a missing file", err)
	}
	if len(records) != 0 {
		t.Errorf("Load() returned %d records, want 0", len(records))
	}
}

func TestAppendAssignsIDAndTimestamp(t *testing.T) {
	t.Parallel()

	store := NewStore(filepath.Join(t.TempDir(), "state.json"))

	before := time.Now()
	stored, err := store.Append(testRecord("full", types.StatusSuccess))
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	if _, err := uuid.Parse(stored.ID); err != nil {
		t.Errorf("Append() assigned ID %q, want a valid uuid: %v", stored.ID, err)
	}
	if stored.Timestamp.IsZero() {
		t.Error("Append() left Timestamp zero, want it stamped")
	}
	if stored.Timestamp.Location() != time.UTC {
		t.Errorf("Append() Timestamp location = %v, want UTC", stored.Timestamp.Location())
	}
	if stored.Timestamp.Before(before.UTC().Add(-time.Second)) {
		t.Errorf("Append() Timestamp = %v, want at or after %v", stored.Timestamp, before)
	}
	if stored.AppName != "demo" || stored.Mode != "full" || stored.Status != types.StatusSuccess {
		t.Errorf("Append() altered caller fields: %+v", stored)
	}
}

func TestAppendPreservesCallerTimestamp(t *testing.T) {
	t.Parallel()

	store := NewStore(filepath.Join(t.TempDir(), "state.json"))

	zone := time.FixedZone("UTC+5", 5*60*60)
	at := time.Date(2026, 3, 14, 15, 9, 26, 0, zone)

	rec := testRecord("full", types.StatusFailed)
	rec.Timestamp = at

	stored, err := store.Append(rec)
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if !stored.Timestamp.Equal(at) {
		t.Errorf("Append() Timestamp = %v, want the same instant as %v", stored.Timestamp, at)
	}
	if stored.Timestamp.Location() != time.UTC {
		t.Errorf("Append() Timestamp location = %v, want UTC", stored.Timestamp.Location())
	}
}

func TestAppendRejectsUnknownStatus(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")

	_, err := NewStore(path).Append(testRecord("full", "exploded"))
	if err == nil {
		t.Fatal("Append() error = nil, want rejection of an unknown status")
	}
	if !errors.Is(err, types.ErrInvalidInstallStatus) {
		t.Errorf("Append() error = %v, want ErrInvalidInstallStatus", err)
	}

	var storeErr *StoreError
	if !errors.As(err, &storeErr) {
		t.Fatalf("Append() error = %T, want *StoreError", err)
	}
	if storeErr.Op != "save" {
		t.Errorf("StoreError.Op = %q, want %q", storeErr.Op, "save")
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Append() wrote a state file for a rejected record")
	}
}

func TestAppendAccumulatesAcrossStores(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")
	modes := []string{"full", "lite", "full"}

	// A fresh Store per append proves the history survives on disk rather
	// than in memory.
	ids := make(map[string]bool)
	for _, mode := range modes {
		stored, err := NewStore(path).Append(testRecord(mode, types.StatusSuccess))
		if err != nil {
			t.Fatalf("Append(%q) error = %v", mode, err)
		}
		if ids[stored.ID] {
			t.Errorf("Append(%q) reused record ID %q", mode, stored.ID)
		}
		ids[stored.ID] = true
	}

	records, err := NewStore(path).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(records) != len(modes) {
		t.Fatalf("Load() returned %d records, want %d", len(records), len(modes))
	}
	for i, rec := range records {
		if rec.Mode != modes[i] {
			t.Errorf("records[%d].Mode = %q, want %q (append order must be preserved)", i, rec.Mode, modes[i])
		}
	}
}

func TestAppendLeavesNoStagingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")
	if _, err := NewStore(path).Append(testRecord("full", types.StatusSuccess)); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("staging file %s.tmp still exists after Append()", path)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := NewStore(path).Load()
	if err == nil {
		t.Fatal("Load() error = nil, want *StoreError for malformed content")
	}

	var storeErr *StoreError
	if !errors.As(err, &storeErr) {
		t.Fatalf("Load() error = %T, want *StoreError", err)
	}
	if storeErr.Op != "load" {
		t.Errorf("StoreError.Op = %q, want %q", storeErr.Op, "load")
	}
	if storeErr.Path != path {
		t.Errorf("StoreError.Path = %q, want %q", storeErr.Path, path)
	}
}

func TestStateFileWireFormat(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")
	if _, err := NewStore(path).Append(testRecord("full", types.StatusSuccess)); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var file map[string]json.RawMessage
	if err := json.Unmarshal(data, &file); err != nil {
		t.Fatalf("state file is not valid JSON: %v", err)
	}
	if _, ok := file["installs"]; !ok {
		t.Fatalf("state file has no %q key: %s", "installs", data)
	}

	for _, field := range []string{`"id"`, `"app_name"`, `"app_version"`, `"mode"`, `"os_family"`, `"cpu_arch"`, `"fingerprint"`, `"status"`, `"timestamp"`} {
		if !strings.Contains(string(data), field) {
			t.Errorf("state file is missing wire field %s", field)
		}
	}
}

func TestDefaultPath(t *testing.T) {
	path, err := DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath() error = %v", err)
	}

	want := filepath.Join("tailor", "state.json")
	if !strings.HasSuffix(path, want) {
		t.Errorf("DefaultPath() = %q, want suffix %q", path, want)
	}

	if runtime.GOOS == "linux" {
		dir := t.TempDir()
		t.Setenv("XDG_STATE_HOME", dir)

		path, err := DefaultPath()
		if err != nil {
			t.Fatalf("DefaultPath() error = %v", err)
		}
		if got, want := path, filepath.Join(dir, "tailor", "state.json"); got != want {
			t.Errorf("DefaultPath() = %q, want %q", got, want)
		}
	}
}
