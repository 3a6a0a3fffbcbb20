// SPDX-License-Identifier: MPL-2.0

// Package state persists the outcome of install runs.
//
// Every completed execution appends one Record to a single JSON state file
// ($XDG_STATE_HOME/tailor/state.json or the XDG default on Linux,
// ~/Library/Application Support/tailor/state.json on macOS,
// %APPDATA%\tailor\state.json on Windows). Writes are atomic: the updated
// file is staged as state.json.tmp and renamed over the live file, so a
// crash mid-write never corrupts existing history. Concurrent writers are
// last-writer-wins; the store takes no locks.
//
// The store is an audit trail, not a bookkeeping system: records are only
// ever appended, and a failed install is recorded just like a successful
// one.
package state
