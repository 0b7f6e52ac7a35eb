// grid/errors.go
// Copyright(c) 2024-2026 gridcase contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package grid

import (
	"errors"
	"fmt"
)

// Every parse failure is fatal: the caller gets a fully validated System
// or exactly one of the errors below, describing the first failure in
// source order. Line numbers are 1-based within the source; field
// positions are 1-based within the record.

var (
	ErrUnknownFormat    = errors.New("unrecognized case file format")
	ErrUnknownExtension = errors.New("cannot determine case format from file extension")
)

// MalformedFieldError reports a token that could not be coerced to its
// expected scalar kind, or a bounded code outside the accepted set.
type MalformedFieldError struct {
	Section string
	Line    int
	Field   int
	Token   string
	Want    string
}

func (e *MalformedFieldError) Error() string {
	return fmt.Sprintf("%s line %d, field %d: %q is not a valid %s",
		e.Section, e.Line, e.Field, e.Token, e.Want)
}

// MalformedRecordError reports a decoded record that failed a
// section-local semantic rule.
type MalformedRecordError struct {
	Section string
	Line    int
	Cause   string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("%s line %d: %s", e.Section, e.Line, e.Cause)
}

// UnknownSectionError reports a marker line naming a section outside the
// recognized set. Position tracking cannot be trusted past this point, so
// parsing stops immediately.
type UnknownSectionError struct {
	Line int
	Name string
}

func (e *UnknownSectionError) Error() string {
	return fmt.Sprintf("line %d: unknown section %q in end-of-section marker", e.Line, e.Name)
}

// DuplicateKeyError reports a second bus record reusing an existing id.
type DuplicateKeyError struct {
	Section string
	Line    int
	BusID   int
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s line %d: duplicate bus id %d", e.Section, e.Line, e.BusID)
}

// DanglingReferenceError reports a non-bus element referencing a bus id
// that was never defined.
type DanglingReferenceError struct {
	Element string
	BusID   int
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("%s references undefined bus %d", e.Element, e.BusID)
}

// TruncatedInputError reports end-of-input while a section still expected
// data or a terminator.
type TruncatedInputError struct {
	Section string
	Line    int
}

func (e *TruncatedInputError) Error() string {
	return fmt.Sprintf("unexpected end of input in %s section at line %d", e.Section, e.Line)
}
