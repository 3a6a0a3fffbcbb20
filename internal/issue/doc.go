// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// This package defines error types that include remediation steps, plus a
// catalog of Markdown-formatted guidance cards for the failures an install
// run can hit, improving the user experience when errors occur during CLI
// operations.
package issue
