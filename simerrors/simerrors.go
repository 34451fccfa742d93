// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package simerrors implements the error taxonomy shared by the mesh, force
// and fluid packages
package simerrors

import (
	"fmt"

	"github.com/cpmech/gosl/chk"
)

// Kind classifies a core error so callers can branch on it with errors.As
type Kind int

// error kinds
const (
	ConfigError Kind = iota
	MalformedMeshError
	GeometryError
	DivisionSpacingError
	NumericError
	AttributeMismatch
)

// names of the kinds, used by Error.Error
var kindNames = map[Kind]string{
	ConfigError:          "ConfigError",
	MalformedMeshError:   "MalformedMeshError",
	GeometryError:        "GeometryError",
	DivisionSpacingError: "DivisionSpacingError",
	NumericError:         "NumericError",
	AttributeMismatch:    "AttributeMismatch",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "UnknownError"
}

// Error is a single error object naming its kind and a short contextual string
type Error struct {
	Kind    Kind
	Context string
	Cause   error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Context, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Context)
}

// Unwrap allows errors.Is/errors.As to reach the underlying cause
func (e *Error) Unwrap() error {
	return e.Cause
}

// New builds a new *Error, formatting Context the way gosl/chk.Err does
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Context: chk.Err(format, args...).Error()}
}

// Wrap builds a new *Error around an existing cause
func Wrap(kind Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Context: chk.Err(format, args...).Error(), Cause: cause}
}
