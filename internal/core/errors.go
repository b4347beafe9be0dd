// Package core implements the path, dtype, metadata, and chunk-grid
// primitives shared by the Zarr array engine.
package core

import (
	"errors"
	"fmt"
)

// Kind classifies the errors the core can return, so callers can branch
// on error class instead of matching strings.
type Kind uint8

// Error kinds covering the failure modes this package can report.
const (
	KindInvalidPath Kind = iota
	KindInvalidMetadata
	KindPathExists
	KindPathConflict
	KindOutOfBounds
	KindShapeMismatch
	KindCodecError
	KindStoreError
)

func (k Kind) String() string {
	switch k {
	case KindInvalidPath:
		return "INVALID_PATH"
	case KindInvalidMetadata:
		return "INVALID_METADATA"
	case KindPathExists:
		return "PATH_EXISTS"
	case KindPathConflict:
		return "PATH_CONFLICT"
	case KindOutOfBounds:
		return "OUT_OF_BOUNDS"
	case KindShapeMismatch:
		return "SHAPE_MISMATCH"
	case KindCodecError:
		return "CODEC_ERROR"
	case KindStoreError:
		return "STORE_ERROR"
	default:
		return fmt.Sprintf("UNKNOWN_KIND(%d)", uint8(k))
	}
}

// Error is the structured error type returned by this module. It wraps a
// cause with the operation that failed and the error kind.
type Error struct {
	Op    string
	Kind  Kind
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Cause)
}

// Unwrap provides compatibility with errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WrapError builds a contextual, kind-tagged error. Returns nil if cause
// is nil, so call sites can wrap unconditionally.
func WrapError(op string, kind Kind, cause error) error {
	if cause == nil {
		return nil
	}
	return &Error{Op: op, Kind: kind, Cause: cause}
}

// NewError builds a kind-tagged error from a plain message.
func NewError(op string, kind Kind, msg string) error {
	return &Error{Op: op, Kind: kind, Cause: errors.New(msg)}
}

// KindOf extracts the Kind from err if it (or something it wraps) is a
// *Error, and ok=false otherwise.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// Is reports whether err carries the given Kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
