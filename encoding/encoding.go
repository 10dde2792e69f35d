// Package encoding contains the errors shared by the value encodings of
// parquet pages. The encodings themselves live in the sub-packages.
package encoding

import (
	"errors"
	"fmt"

	"github.com/segmentio/parquet-flat/format"
)

var (
	// ErrNotSupported is an error returned when the underlying encoding does
	// not support the type of values being encoded or decoded.
	//
	// This error may be wrapped with type information, applications must use
	// errors.Is rather than equality comparisons to test the error values
	// returned by encoders and decoders.
	ErrNotSupported = errors.New("encoding not supported")

	// ErrInvalidArgument is an error returned one or more arguments passed to
	// the encoding functions are incorrect.
	//
	// As with ErrNotSupported, this error may be wrapped with specific
	// information about the problem and applications are expected to use
	// errors.Is for comparisons.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Error constructs an error which wraps err and indicates that it originated
// from the given encoding.
func Error(e format.Encoding, err error) error {
	return fmt.Errorf("%s: %w", e, err)
}

// Errorf is like Error but constructs the error message from the given format
// and arguments.
func Errorf(e format.Encoding, msg string, args ...interface{}) error {
	return Error(e, fmt.Errorf(msg, args...))
}

// ErrDecodeInvalidInputSize constructs an error indicating that decoding failed
// due to the size of the input.
func ErrDecodeInvalidInputSize(e format.Encoding, typ string, size int) error {
	return Errorf(e, "cannot decode %s from input of size %d: %w", typ, size, ErrInvalidArgument)
}

// NotSupported constructs an error indicating that e has no support for
// values of type t.
func NotSupported(e format.Encoding, t format.Type) error {
	return Errorf(e, "%w for type %s", ErrNotSupported, t)
}
