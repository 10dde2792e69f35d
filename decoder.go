package parquet

import (
	"fmt"

	"github.com/segmentio/parquet-flat/deprecated"
	"github.com/segmentio/parquet-flat/encoding/bytestreamsplit"
	"github.com/segmentio/parquet-flat/encoding/plain"
	"github.com/segmentio/parquet-flat/encoding/rle"
	"github.com/segmentio/parquet-flat/format"
)

// ValuesDecoder is the interface implemented by the decoders of the values
// section of data pages.
type ValuesDecoder[T any] interface {
	// Decode fills dst with the next len(dst) values.
	Decode(dst []T) error
	// Skip discards the next n values.
	Skip(n int) error
}

// Decoders holds the decoding strategies of one physical type. The values are
// selected once per column when constructing readers.
type Decoders[T any] struct {
	typ        format.Type
	newDecoder func(f Field, e format.Encoding, data []byte) (ValuesDecoder[T], error)
}

var (
	BooleanDecoders = Decoders[bool]{
		typ: format.Boolean,
		newDecoder: func(f Field, e format.Encoding, data []byte) (ValuesDecoder[bool], error) {
			switch e {
			case format.Plain:
				return plain.NewBooleanDecoder(data), nil
			case format.RLE:
				d, _, err := rle.NewLengthPrefixedDecoder(data, 1)
				if err != nil {
					return nil, err
				}
				return booleanDecoder{d}, nil
			}
			return nil, errUnsupportedEncoding(e, format.Boolean)
		},
	}

	Int32Decoders = Decoders[int32]{
		typ: format.Int32,
		newDecoder: func(f Field, e format.Encoding, data []byte) (ValuesDecoder[int32], error) {
			if e == format.Plain {
				return plain.NewInt32Decoder(data), nil
			}
			return nil, errUnsupportedEncoding(e, format.Int32)
		},
	}

	Int64Decoders = Decoders[int64]{
		typ: format.Int64,
		newDecoder: func(f Field, e format.Encoding, data []byte) (ValuesDecoder[int64], error) {
			if e == format.Plain {
				return plain.NewInt64Decoder(data), nil
			}
			return nil, errUnsupportedEncoding(e, format.Int64)
		},
	}

	Int96Decoders = Decoders[deprecated.Int96]{
		typ: format.Int96,
		newDecoder: func(f Field, e format.Encoding, data []byte) (ValuesDecoder[deprecated.Int96], error) {
			if e == format.Plain {
				return plain.NewInt96Decoder(data), nil
			}
			return nil, errUnsupportedEncoding(e, format.Int96)
		},
	}

	FloatDecoders = Decoders[float32]{
		typ: format.Float,
		newDecoder: func(f Field, e format.Encoding, data []byte) (ValuesDecoder[float32], error) {
			switch e {
			case format.Plain:
				return plain.NewFloatDecoder(data), nil
			case format.ByteStreamSplit:
				return nonNil[float32](bytestreamsplit.NewFloatDecoder(data))
			}
			return nil, errUnsupportedEncoding(e, format.Float)
		},
	}

	DoubleDecoders = Decoders[float64]{
		typ: format.Double,
		newDecoder: func(f Field, e format.Encoding, data []byte) (ValuesDecoder[float64], error) {
			switch e {
			case format.Plain:
				return plain.NewDoubleDecoder(data), nil
			case format.ByteStreamSplit:
				return nonNil[float64](bytestreamsplit.NewDoubleDecoder(data))
			}
			return nil, errUnsupportedEncoding(e, format.Double)
		},
	}

	ByteArrayDecoders = Decoders[[]byte]{
		typ: format.ByteArray,
		newDecoder: func(f Field, e format.Encoding, data []byte) (ValuesDecoder[[]byte], error) {
			if e == format.Plain {
				return plain.NewByteArrayDecoder(data), nil
			}
			return nil, errUnsupportedEncoding(e, format.ByteArray)
		},
	}

	FixedLenByteArrayDecoders = Decoders[[]byte]{
		typ: format.FixedLenByteArray,
		newDecoder: func(f Field, e format.Encoding, data []byte) (ValuesDecoder[[]byte], error) {
			if e == format.Plain {
				return nonNil[[]byte](plain.NewFixedLenByteArrayDecoder(data, f.TypeLength))
			}
			return nil, errUnsupportedEncoding(e, format.FixedLenByteArray)
		},
	}
)

// Type returns the physical type decoded by d.
func (d Decoders[T]) Type() format.Type { return d.typ }

// NewDecoder returns a decoder for the values section of a page using the
// non-dictionary encoding e.
func (d Decoders[T]) NewDecoder(f Field, e format.Encoding, data []byte) (ValuesDecoder[T], error) {
	return d.newDecoder(f, e, data)
}

// DecodeDictionary decodes the values of a dictionary page.
func (d Decoders[T]) DecodeDictionary(f Field, page *DictionaryPage) ([]T, error) {
	e := page.Encoding()
	if e == format.PlainDictionary {
		e = format.Plain
	}
	if e != format.Plain {
		return nil, fmt.Errorf("dictionary page: %w", errUnsupportedEncoding(page.Encoding(), d.typ))
	}
	if page.NumValues() < 0 {
		return nil, fmt.Errorf("%w: dictionary page has %d values", ErrCorrupted, page.NumValues())
	}
	dec, err := d.newDecoder(f, e, page.Data())
	if err != nil {
		return nil, err
	}
	table := make([]T, page.NumValues())
	if err := dec.Decode(table); err != nil {
		return nil, fmt.Errorf("decoding dictionary page: %w", err)
	}
	return table, nil
}

// NewDictionaryDecoder returns a decoder of the index stream of a dictionary
// encoded page, looking up values in table.
func NewDictionaryDecoder[T any](table []T, data []byte) (ValuesDecoder[T], error) {
	indexes, err := rle.NewIndexDecoder(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupted, err)
	}
	return &dictionaryDecoder[T]{table: table, indexes: indexes}, nil
}

func isDictionaryEncoding(e format.Encoding) bool {
	return e == format.RLEDictionary || e == format.PlainDictionary
}

type dictionaryDecoder[T any] struct {
	table   []T
	indexes *rle.Decoder
	buffer  []uint32
}

func (d *dictionaryDecoder[T]) Decode(dst []T) error {
	if cap(d.buffer) < len(dst) {
		d.buffer = make([]uint32, len(dst))
	}
	indexes := d.buffer[:len(dst)]
	if err := d.indexes.DecodeUint32(indexes); err != nil {
		return underrun("decoding dictionary indexes", err)
	}
	for i, j := range indexes {
		if int64(j) >= int64(len(d.table)) {
			return fmt.Errorf("%w: dictionary index %d out of range [0:%d]", ErrCorrupted, j, len(d.table))
		}
		dst[i] = d.table[j]
	}
	return nil
}

func (d *dictionaryDecoder[T]) Skip(n int) error {
	if err := d.indexes.Skip(n); err != nil {
		return underrun("skipping dictionary indexes", err)
	}
	return nil
}

func nonNil[T any, D ValuesDecoder[T]](d D, err error) (ValuesDecoder[T], error) {
	if err != nil {
		return nil, err
	}
	return d, nil
}

type booleanDecoder struct{ *rle.Decoder }

func (d booleanDecoder) Decode(dst []bool) error { return d.DecodeBoolean(dst) }
