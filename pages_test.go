package parquet_test

import (
	"testing"

	"github.com/segmentio/encoding/thrift"
	"github.com/segmentio/parquet-flat"
	"github.com/segmentio/parquet-flat/encoding/plain"
	"github.com/segmentio/parquet-flat/encoding/rle"
	"github.com/segmentio/parquet-flat/format"
	"github.com/stretchr/testify/require"
)

// pageBuilder produces the data pages of a flat column in the layouts written
// by parquet writers.
type pageBuilder[T any] struct {
	optional bool
	plain    func([]byte, []T) []byte
}

var (
	int32Pages = pageBuilder[int32]{
		optional: true,
		plain:    func(b []byte, v []int32) []byte { return plain.AppendInt32(b, v...) },
	}
	requiredInt32Pages = pageBuilder[int32]{
		plain: func(b []byte, v []int32) []byte { return plain.AppendInt32(b, v...) },
	}
)

func definitionLevels(n int, nulls []bool) []byte {
	levels := make([]byte, n)
	for i := range levels {
		if nulls == nil || !nulls[i] {
			levels[i] = 1
		}
	}
	return levels
}

func presentValues[T any](values []T, nulls []bool) []T {
	if nulls == nil {
		return values
	}
	present := make([]T, 0, len(values))
	for i, v := range values {
		if !nulls[i] {
			present = append(present, v)
		}
	}
	return present
}

func countNulls(nulls []bool) int {
	n := 0
	for _, null := range nulls {
		if null {
			n++
		}
	}
	return n
}

// v1 returns a PLAIN encoded data page v1 of values. Values at null positions
// are not written.
func (b pageBuilder[T]) v1(values []T, nulls []bool) *parquet.DataPageV1 {
	var data []byte
	if b.optional {
		data = rle.AppendLevels(data, definitionLevels(len(values), nulls), 1)
	}
	data = b.plain(data, presentValues(values, nulls))
	return parquet.NewDataPageV1(data, len(values), len(data), format.RLE, format.RLE, format.Plain)
}

// v1Dict returns a RLE_DICTIONARY encoded data page v1 holding n values, with
// indexes for the non-null positions.
func (b pageBuilder[T]) v1Dict(indexes []uint32, nulls []bool) *parquet.DataPageV1 {
	n := len(indexes)
	if nulls != nil {
		n = len(nulls)
	}
	var data []byte
	if b.optional {
		data = rle.AppendLevels(data, definitionLevels(n, nulls), 1)
	}
	data = rle.AppendIndexes(data, indexes)
	return parquet.NewDataPageV1(data, n, len(data), format.RLE, format.RLE, format.RLEDictionary)
}

// v2Levels returns the definition levels of a data page v2, which have no
// length prefix.
func (b pageBuilder[T]) v2Levels(n int, nulls []bool) []byte {
	if !b.optional {
		return nil
	}
	lvl := definitionLevels(n, nulls)
	u := make([]uint32, len(lvl))
	for i := range lvl {
		u[i] = uint32(lvl[i])
	}
	return rle.AppendUint32(nil, u, 1)
}

// v2 returns a PLAIN encoded data page v2 of values.
func (b pageBuilder[T]) v2(values []T, nulls []bool) *parquet.DataPageV2 {
	levels := b.v2Levels(len(values), nulls)
	data := b.plain(nil, presentValues(values, nulls))
	numNulls := countNulls(nulls)
	return parquet.NewDataPageV2(nil, levels, data, len(values), numNulls, len(values), len(levels)+len(data), format.Plain, false)
}

// v2Dict returns a RLE_DICTIONARY encoded data page v2, the counterpart of
// v1Dict.
func (b pageBuilder[T]) v2Dict(indexes []uint32, nulls []bool) *parquet.DataPageV2 {
	n := len(indexes)
	if nulls != nil {
		n = len(nulls)
	}
	levels := b.v2Levels(n, nulls)
	data := rle.AppendIndexes(nil, indexes)
	return parquet.NewDataPageV2(nil, levels, data, n, countNulls(nulls), n, len(levels)+len(data), format.RLEDictionary, false)
}

func (b pageBuilder[T]) dictionary(values []T) *parquet.DictionaryPage {
	data := b.plain(nil, values)
	return parquet.NewDictionaryPage(data, len(values), len(data), format.Plain)
}

func newPageReader(t *testing.T, dictionary *parquet.DictionaryPage, pages ...parquet.DataPage) *parquet.PageReader {
	t.Helper()
	numValues := int64(0)
	for _, p := range pages {
		numValues += int64(p.NumValues())
	}
	r, err := parquet.NewPageReader(format.Uncompressed, pages, dictionary, numValues, false)
	require.NoError(t, err)
	return r
}

// appendPage appends the thrift encoded header of a page followed by its data
// to b, the way pages are laid out in column chunks.
func appendPage(t *testing.T, b []byte, header format.PageHeader, data []byte) []byte {
	t.Helper()
	header.CompressedPageSize = int32(len(data))
	if header.UncompressedPageSize == 0 {
		header.UncompressedPageSize = int32(len(data))
	}
	h, err := thrift.Marshal(new(thrift.CompactProtocol), &header)
	require.NoError(t, err)
	return append(append(b, h...), data...)
}

type readResult[T any] struct {
	values []T
	nulls  []bool
}

// readBatches reads the column chunk bound to r in batches of the given sizes,
// cycling through sizes until n values have been read.
func readBatches[T any](t *testing.T, r *parquet.FlatColumnReader[T], n int, sizes ...int) readResult[T] {
	t.Helper()
	var result readResult[T]
	for i := 0; n > 0; i++ {
		size := min(sizes[i%len(sizes)], n)
		require.NoError(t, r.PrepareNextRead(size))
		batch, err := r.ReadPrimitive()
		require.NoError(t, err)
		require.Equal(t, size, batch.Len())
		for j := 0; j < batch.Len(); j++ {
			result.values = append(result.values, batch.Value(j))
			result.nulls = append(result.nulls, batch.IsNull(j))
		}
		n -= size
	}
	return result
}

func nullMask(n int, positions ...int) []bool {
	nulls := make([]bool, n)
	for _, i := range positions {
		nulls[i] = true
	}
	return nulls
}
