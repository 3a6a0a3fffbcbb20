// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/tailor/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/tailor/config.cue on macOS, %APPDATA%\tailor\config.cue
// on Windows). A missing file is not an error; every key has a built-in default. The
// --config flag points at an explicit file and bypasses the directory lookup.
//
// Configuration validation is performed against a CUE schema (config_schema.cue) to ensure
// type safety and provide clear error messages for invalid configurations.
package config
