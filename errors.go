package parquet

import (
	"errors"
	"fmt"

	"github.com/segmentio/parquet-flat/cursor"
	"github.com/segmentio/parquet-flat/encoding"
	"github.com/segmentio/parquet-flat/format"
)

var (
	// ErrUnsupportedEncoding is returned when a page uses an encoding that
	// has no decoder for the column type, including the legacy BIT_PACKED
	// encoding of definition levels.
	ErrUnsupportedEncoding = encoding.ErrNotSupported

	// ErrUnderrun is returned when a read or skip asks for more values than
	// remain in the column chunk, or when a level or index run is truncated.
	ErrUnderrun = errors.New("not enough values remaining in column chunk")

	// ErrPrecondition is returned when the methods of a column reader are
	// called out of order.
	ErrPrecondition = errors.New("column reader method called out of order")

	// ErrMissingDictionary is returned when a data page is dictionary encoded
	// but the column chunk has no dictionary page.
	ErrMissingDictionary = errors.New("missing dictionary page")

	// ErrOutOfBounds is returned when a read goes past the end of a page
	// buffer, which indicates a corrupted page.
	ErrOutOfBounds = cursor.ErrOutOfBounds

	// ErrCorrupted is returned when the content of a column chunk does not
	// match what its metadata describe: checksum or size mismatches, invalid
	// dictionary indexes and bit widths.
	ErrCorrupted = errors.New("corrupted parquet column")

	// ErrUnexpectedNull is returned when a null value is found while reading
	// values that were expected to be all present.
	ErrUnexpectedNull = errors.New("unexpected null value")

	// ErrNotFlat is returned when opening a file whose schema has nested or
	// repeated columns.
	ErrNotFlat = errors.New("schema is not flat")
)

func errUnsupportedEncoding(e format.Encoding, t format.Type) error {
	return encoding.NotSupported(e, t)
}

// underrun classifies errors of truncated level and index streams as both
// under-runs and out of bounds reads.
func underrun(what string, err error) error {
	if errors.Is(err, ErrOutOfBounds) {
		return fmt.Errorf("%w: %s: %w", ErrUnderrun, what, err)
	}
	return fmt.Errorf("%s: %w", what, err)
}
