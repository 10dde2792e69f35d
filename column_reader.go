package parquet

import (
	"errors"
	"fmt"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/segmentio/parquet-flat/encoding/rle"
	"github.com/segmentio/parquet-flat/format"
)

type readerState int

const (
	stateIdle readerState = iota
	statePrepared
	stateExhausted
)

func (s readerState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case statePrepared:
		return "prepared"
	default:
		return "exhausted"
	}
}

// FlatColumnReader reads the values of a flat column, one column chunk at a
// time, in batches of the sizes requested by the application regardless of
// how values are split in pages.
//
// Each batch is declared with PrepareNextRead, then produced by one of the
// Read methods or discarded with Skip:
//
//	for remaining > 0 {
//		n := min(remaining, batchSize)
//		if err := reader.PrepareNextRead(n); err != nil {
//			...
//		}
//		batch, err := reader.ReadPrimitive()
//		if err != nil {
//			...
//		}
//		remaining -= n
//	}
//
// Decoding errors are sticky: once a read or skip has failed, all following
// calls return the same error until SetPageSource binds a new column chunk.
//
// FlatColumnReader values are not safe for concurrent use.
type FlatColumnReader[T any] struct {
	field    Field
	decoders Decoders[T]
	logger   log.Logger
	metrics  *Metrics

	source  PageSource
	state   readerState
	pending int
	err     error

	pageIndex  int
	remaining  int
	levels     *rle.Decoder
	values     ValuesDecoder[T]
	dictionary []T
	loaded     bool
	levelBuf   []byte
}

// NewFlatColumnReader constructs a reader of the column described by field,
// decoding values with the given strategies.
func NewFlatColumnReader[T any](field Field, decoders Decoders[T], options ...ReaderOption) (*FlatColumnReader[T], error) {
	config, err := NewReaderConfig(options...)
	if err != nil {
		return nil, err
	}
	if err := field.Validate(); err != nil {
		return nil, err
	}
	if decoders.Type() != field.Type {
		return nil, fmt.Errorf("field %q: cannot decode values of type %s with decoders of type %s", field.Name, field.Type, decoders.Type())
	}
	return &FlatColumnReader[T]{
		field:    field,
		decoders: decoders,
		logger:   log.With(config.Logger, "column", field.Name),
		metrics:  config.Metrics,
	}, nil
}

// Field returns the descriptor of the column read by r.
func (r *FlatColumnReader[T]) Field() Field { return r.field }

// SetPageSource binds the reader to a new column chunk. The state of the
// previous chunk, including errors, is discarded.
func (r *FlatColumnReader[T]) SetPageSource(source PageSource) {
	r.source = source
	r.state = stateIdle
	r.pending = 0
	r.err = nil
	r.pageIndex = 0
	r.remaining = 0
	r.levels = nil
	r.values = nil
	r.dictionary = nil
	r.loaded = false
}

// PrepareNextRead declares the number of values consumed by the next call to
// Skip or one of the Read methods.
func (r *FlatColumnReader[T]) PrepareNextRead(n int) error {
	if r.err != nil {
		return r.err
	}
	switch {
	case r.source == nil:
		return fmt.Errorf("%w: no page source", ErrPrecondition)
	case r.state == statePrepared:
		return fmt.Errorf("%w: read of %d values already prepared", ErrPrecondition, r.pending)
	case n < 0:
		return fmt.Errorf("%w: negative read size %d", ErrPrecondition, n)
	}
	r.state, r.pending = statePrepared, n
	return nil
}

// Skip discards the values declared by the last call to PrepareNextRead.
func (r *FlatColumnReader[T]) Skip() error {
	n, err := r.consume()
	if err != nil {
		return err
	}
	if err := r.skip(n); err != nil {
		return r.fail(err)
	}
	r.metrics.valuesSkipped(n)
	return nil
}

// ReadNoNull reads the values declared by the last call to PrepareNextRead,
// none of which may be null. When the column is optional the definition levels
// are still verified and a null fails the read with ErrUnexpectedNull.
func (r *FlatColumnReader[T]) ReadNoNull() (*Batch[T], error) {
	n, err := r.consume()
	if err != nil {
		return nil, err
	}
	batch, err := r.readNoNull(n)
	if err != nil {
		return nil, r.fail(err)
	}
	r.metrics.valuesRead(n)
	return batch, nil
}

// ReadNullable reads the values declared by the last call to PrepareNextRead,
// and the null mask of the batch.
func (r *FlatColumnReader[T]) ReadNullable() (*Batch[T], error) {
	n, err := r.consume()
	if err != nil {
		return nil, err
	}
	batch, err := r.readNullable(n)
	if err != nil {
		return nil, r.fail(err)
	}
	r.metrics.valuesRead(n)
	return batch, nil
}

// ReadPrimitive calls ReadNoNull for required columns and ReadNullable for
// optional ones.
func (r *FlatColumnReader[T]) ReadPrimitive() (*Batch[T], error) {
	if r.field.Required {
		return r.ReadNoNull()
	}
	return r.ReadNullable()
}

// ReadColumn is like ReadPrimitive but returns the batch as a Column.
func (r *FlatColumnReader[T]) ReadColumn() (Column, error) {
	b, err := r.ReadPrimitive()
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *FlatColumnReader[T]) consume() (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	if r.state != statePrepared {
		return 0, fmt.Errorf("%w: no read prepared", ErrPrecondition)
	}
	n := r.pending
	r.state, r.pending = stateIdle, 0
	return n, nil
}

func (r *FlatColumnReader[T]) fail(err error) error {
	err = fmt.Errorf("column %q: %w", r.field.Name, err)
	r.err = err
	if errors.Is(err, ErrUnderrun) {
		r.state = stateExhausted
	}
	level.Debug(r.logger).Log("msg", "column read failed", "state", r.state, "err", err)
	return err
}

func (r *FlatColumnReader[T]) readNoNull(n int) (*Batch[T], error) {
	values := make([]T, n)

	for offset := 0; offset < n; {
		if err := r.ensurePage(); err != nil {
			return nil, err
		}
		k := min(n-offset, r.remaining)

		if r.levels != nil {
			levels, err := r.decodeLevels(k)
			if err != nil {
				return nil, err
			}
			for i, lvl := range levels {
				if lvl == 0 {
					return nil, fmt.Errorf("%w: %w: position %d of required read", ErrPrecondition, ErrUnexpectedNull, offset+i)
				}
			}
		}

		if err := r.values.Decode(values[offset : offset+k]); err != nil {
			return nil, r.pageError("decoding values", err)
		}
		r.remaining -= k
		offset += k
	}

	return &Batch[T]{values: values}, nil
}

func (r *FlatColumnReader[T]) readNullable(n int) (*Batch[T], error) {
	values := make([]T, n)
	var nulls []bool

	for offset := 0; offset < n; {
		if err := r.ensurePage(); err != nil {
			return nil, err
		}
		k := min(n-offset, r.remaining)
		present := k

		if r.levels != nil {
			levels, err := r.decodeLevels(k)
			if err != nil {
				return nil, err
			}
			for i, lvl := range levels {
				if lvl == 0 {
					if nulls == nil {
						nulls = make([]bool, n)
					}
					nulls[offset+i] = true
					present--
				}
			}
		}

		dst := values[offset : offset+k]
		if err := r.values.Decode(dst[:present]); err != nil {
			return nil, r.pageError("decoding values", err)
		}

		if present < k {
			// Move the dense values to their positions, walking backward so
			// values are never overwritten before being moved.
			var zero T
			for i, j := present-1, k-1; j >= 0; j-- {
				if nulls[offset+j] {
					dst[j] = zero
				} else {
					dst[j] = dst[i]
					i--
				}
			}
		}

		r.remaining -= k
		offset += k
	}

	return &Batch[T]{values: values, nulls: nulls}, nil
}

func (r *FlatColumnReader[T]) skip(n int) error {
	for n > 0 {
		if r.remaining == 0 {
			page, err := r.nextPage()
			if err != nil {
				return err
			}
			// Pages are validated even when dropped whole, so skipping fails
			// on the pages that reading would fail on.
			if err := r.setPage(page); err != nil {
				return err
			}
			if numValues := page.NumValues(); numValues <= n {
				level.Debug(r.logger).Log("msg", "skipped page", "index", r.pageIndex-1, "values", numValues)
				r.remaining, r.levels, r.values = 0, nil, nil
				n -= numValues
				continue
			}
		}

		k := min(n, r.remaining)
		present := k

		if r.levels != nil {
			levels, err := r.decodeLevels(k)
			if err != nil {
				return err
			}
			for _, lvl := range levels {
				if lvl == 0 {
					present--
				}
			}
		}

		if err := r.values.Skip(present); err != nil {
			return r.pageError("skipping values", err)
		}
		r.remaining -= k
		n -= k
	}
	return nil
}

// ensurePage makes sure that the current page has values left to read.
func (r *FlatColumnReader[T]) ensurePage() error {
	for r.remaining == 0 {
		page, err := r.nextPage()
		if err != nil {
			return err
		}
		if err := r.setPage(page); err != nil {
			return err
		}
	}
	return nil
}

func (r *FlatColumnReader[T]) nextPage() (DataPage, error) {
	r.levels, r.values = nil, nil
	if !r.source.HasNext() {
		return nil, fmt.Errorf("%w: read past the last page", ErrUnderrun)
	}
	page, err := r.source.NextPage()
	if err != nil {
		return nil, err
	}
	r.pageIndex++
	return page, nil
}

func (r *FlatColumnReader[T]) setPage(page DataPage) error {
	var data []byte
	var levels *rle.Decoder
	var err error
	optional := !r.field.Required

	switch p := page.(type) {
	case *DataPageV1:
		data = p.Data()
		if optional {
			// The legacy BIT_PACKED encoding of levels is not supported;
			// required columns have no levels so the encoding is ignored.
			if e := p.DefinitionLevelEncoding(); e != format.RLE {
				return fmt.Errorf("invalid definition level encoding: %w", errUnsupportedEncoding(e, r.field.Type))
			}
			levels, data, err = rle.NewLengthPrefixedDecoder(data, 1)
			if err != nil {
				return r.pageError("reading definition levels", err)
			}
		}
	case *DataPageV2:
		data = p.Data()
		if optional && p.NumNulls() != 0 {
			if levels, err = rle.NewDecoder(p.DefinitionLevels(), 1); err != nil {
				return r.pageError("reading definition levels", err)
			}
		}
	default:
		return fmt.Errorf("unsupported page of type %T", page)
	}

	if r.source.HasNoNulls() {
		levels = nil
	}

	values, err := r.newValuesDecoder(page.Encoding(), data)
	if err != nil {
		return err
	}

	level.Debug(r.logger).Log("msg", "reading page", "index", r.pageIndex-1, "page", page)
	r.remaining = page.NumValues()
	r.levels = levels
	r.values = values
	return nil
}

func (r *FlatColumnReader[T]) newValuesDecoder(e format.Encoding, data []byte) (ValuesDecoder[T], error) {
	if !isDictionaryEncoding(e) {
		return r.decoders.NewDecoder(r.field, e, data)
	}
	if !r.loaded {
		page, err := r.source.DictionaryPage()
		if err != nil {
			return nil, err
		}
		if page == nil {
			return nil, fmt.Errorf("%w: data page %d is %s encoded", ErrMissingDictionary, r.pageIndex-1, e)
		}
		table, err := r.decoders.DecodeDictionary(r.field, page)
		if err != nil {
			return nil, err
		}
		level.Debug(r.logger).Log("msg", "loaded dictionary", "values", len(table))
		r.dictionary, r.loaded = table, true
	}
	return NewDictionaryDecoder(r.dictionary, data)
}

func (r *FlatColumnReader[T]) decodeLevels(n int) ([]byte, error) {
	if cap(r.levelBuf) < n {
		r.levelBuf = make([]byte, n)
	}
	levels := r.levelBuf[:n]
	if err := r.levels.DecodeLevels(levels); err != nil {
		return nil, underrun(fmt.Sprintf("data page %d: decoding definition levels", r.pageIndex-1), err)
	}
	return levels, nil
}

func (r *FlatColumnReader[T]) pageError(what string, err error) error {
	return fmt.Errorf("data page %d: %s: %w", r.pageIndex-1, what, err)
}
