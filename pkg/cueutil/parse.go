// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// ParseResult contains the result of a successful CUE parse operation.
type ParseResult[T any] struct {
	// Value is the decoded Go struct.
	Value *T

	// Unified is the unified CUE value, available for advanced use cases
	// such as extracting additional metadata or performing custom validation.
	Unified cue.Value
}

// unify implements the shared schema-unification flow:
//
//  1. Compile the embedded schema
//  2. Compile user data and unify with the schema root definition
//  3. Validate the unified value
//
// It returns the unified value and the filename used for error messages.
func unify(schema, data []byte, schemaPath string, options parseOptions) (cue.Value, string, error) {
	// Determine filename for error messages
	filename := options.filename
	if filename == "" {
		filename = "<input>"
	}

	// Early file size check to prevent OOM attacks from large files
	if err := CheckFileSize(data, options.maxFileSize, filename); err != nil {
		return cue.Value{}, filename, err
	}

	ctx := cuecontext.New()

	// Step 1: Compile the schema
	schemaValue := ctx.CompileBytes(schema)
	if schemaValue.Err() != nil {
		return cue.Value{}, filename, fmt.Errorf("internal error: failed to compile schema: %w", schemaValue.Err())
	}

	// Step 2: Compile the user data
	userValue := ctx.CompileBytes(data, cue.Filename(filename))
	if userValue.Err() != nil {
		return cue.Value{}, filename, FormatError(userValue.Err(), filename)
	}

	// Look up the root definition in the schema
	schemaRoot := schemaValue.LookupPath(cue.ParsePath(schemaPath))
	if schemaRoot.Err() != nil {
		return cue.Value{}, filename, fmt.Errorf("internal error: schema definition %s not found: %w", schemaPath, schemaRoot.Err())
	}

	// Unify user data with schema
	unified := schemaRoot.Unify(userValue)

	// Step 3: Validate
	if options.concrete {
		if err := unified.Validate(cue.Concrete(true)); err != nil {
			return cue.Value{}, filename, FormatError(err, filename)
		}
	} else {
		if err := unified.Validate(); err != nil {
			return cue.Value{}, filename, FormatError(err, filename)
		}
	}

	return unified, filename, nil
}

// ParseAndDecode performs the 3-step CUE parsing flow and decodes the
// unified value into a Go struct.
//
// Parameters:
//   - schema: The embedded CUE schema bytes (from //go:embed)
//   - data: The user-provided CUE or JSON file bytes
//   - schemaPath: The path to the root definition (e.g., "#Manifest", "#Config")
//   - opts: Optional configuration
//
// Returns:
//   - *ParseResult[T] containing the decoded struct and unified CUE value
//   - error with formatted path information if parsing fails
func ParseAndDecode[T any](schema, data []byte, schemaPath string, opts ...Option) (*ParseResult[T], error) {
	// Apply options
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	unified, filename, err := unify(schema, data, schemaPath, options)
	if err != nil {
		return nil, err
	}

	// Decode into struct
	var result T
	if err := unified.Decode(&result); err != nil {
		return nil, FormatError(err, filename)
	}

	return &ParseResult[T]{
		Value:   &result,
		Unified: unified,
	}, nil
}

// ParseAndDecodeString is a convenience wrapper that accepts schema as string.
// Useful when the schema is embedded as a string constant rather than bytes.
func ParseAndDecodeString[T any](schema string, data []byte, schemaPath string, opts ...Option) (*ParseResult[T], error) {
	return ParseAndDecode[T]([]byte(schema), data, schemaPath, opts...)
}

// Validate runs the schema-unification flow without decoding into a Go
// struct. Callers that need custom decoding (for example to preserve
// document order with encoding/json) use this for schema-backed
// structural validation and decode the raw bytes themselves.
func Validate(schema, data []byte, schemaPath string, opts ...Option) (cue.Value, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	unified, _, err := unify(schema, data, schemaPath, options)
	return unified, err
}

// ValidateString is a convenience wrapper that accepts schema as string.
func ValidateString(schema string, data []byte, schemaPath string, opts ...Option) (cue.Value, error) {
	return Validate([]byte(schema), data, schemaPath, opts...)
}
