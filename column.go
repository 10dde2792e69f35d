package parquet

import (
	"fmt"

	"github.com/segmentio/parquet-flat/format"
)

// Column is the type-erased view of the batches produced by column readers.
type Column interface {
	// Returns the number of positions in the column.
	Len() int

	// Returns false if no position holds a null.
	MayHaveNull() bool

	// Returns true if position i holds a null.
	IsNull(i int) bool

	// Returns the value at position i, or nil if it holds a null.
	Any(i int) any
}

// ColumnReader is the type-erased interface of FlatColumnReader, used by
// programs that handle columns of any physical type.
type ColumnReader interface {
	// Returns the descriptor of the column.
	Field() Field

	// Binds the reader to a new column chunk.
	SetPageSource(PageSource)

	// Declares the number of values consumed by the next call to Skip or
	// ReadColumn.
	PrepareNextRead(n int) error

	// Discards the prepared values.
	Skip() error

	// Reads the prepared values.
	ReadColumn() (Column, error)
}

// NewColumnReader returns a reader for the column described by field, using
// the decoders of its physical type.
func NewColumnReader(field Field, options ...ReaderOption) (ColumnReader, error) {
	switch field.Type {
	case format.Boolean:
		return newColumnReader(field, BooleanDecoders, options)
	case format.Int32:
		return newColumnReader(field, Int32Decoders, options)
	case format.Int64:
		return newColumnReader(field, Int64Decoders, options)
	case format.Int96:
		return newColumnReader(field, Int96Decoders, options)
	case format.Float:
		return newColumnReader(field, FloatDecoders, options)
	case format.Double:
		return newColumnReader(field, DoubleDecoders, options)
	case format.ByteArray:
		return newColumnReader(field, ByteArrayDecoders, options)
	case format.FixedLenByteArray:
		return newColumnReader(field, FixedLenByteArrayDecoders, options)
	default:
		return nil, fmt.Errorf("field %q: invalid physical type %d", field.Name, field.Type)
	}
}

func newColumnReader[T any](field Field, decoders Decoders[T], options []ReaderOption) (ColumnReader, error) {
	r, err := NewFlatColumnReader(field, decoders, options...)
	if err != nil {
		return nil, err
	}
	return r, nil
}

var (
	_ ColumnReader = (*FlatColumnReader[int32])(nil)
)
