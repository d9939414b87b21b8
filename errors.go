package dbf

import (
	"errors"
	"fmt"
	"io"
)

// Sentinel error kinds. Callers use errors.Is against these, not type
// assertions, so a wrapped error still classifies correctly.
var (
	// ErrNotFound is returned when a path or a required sidecar file is missing.
	ErrNotFound = errors.New("dbf: not found")

	// ErrInvalidData is returned when bytes do not match the expected layout:
	// an unrecognized field tag, a non-UTF-8 field name, a malformed date, an
	// unparseable numeric, or a short memo read.
	ErrInvalidData = errors.New("dbf: invalid data")

	// ErrIO is returned when the underlying stream fails outside of EOF.
	ErrIO = errors.New("dbf: io error")
)

// ErrIncomplete is a more specific sentinel wrapping ErrIO, so both
// errors.Is(err, ErrIncomplete) and errors.Is(err, ErrIO) succeed on the
// same error value.
var ErrIncomplete = fmt.Errorf("dbf: incomplete read: %w", ErrIO)

// wrapf annotates err with a context message while preserving errors.Is
// against the kind(s) err already wraps.
func wrapf(context string, err error) error {
	return fmt.Errorf("%s: %w", context, err)
}

// invalidData builds an ErrInvalidData with context, e.g. invalidData("field NAME", "bad date").
func invalidData(context, reason string) error {
	return fmt.Errorf("%s: %s: %w", context, reason, ErrInvalidData)
}

// liftReadErr classifies a failed io.ReadFull: a short read (fewer bytes
// than requested, reported as io.ErrUnexpectedEOF) is ErrIncomplete; any
// other stream failure is the more general ErrIO.
func liftReadErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %w", ErrIncomplete, err)
	}
	return fmt.Errorf("%w: %w", ErrIO, err)
}
