package parquet_test

import (
	"testing"
	"time"

	"github.com/segmentio/parquet-flat"
	"github.com/segmentio/parquet-flat/deprecated"
	"github.com/segmentio/parquet-flat/encoding/bytestreamsplit"
	"github.com/segmentio/parquet-flat/encoding/plain"
	"github.com/segmentio/parquet-flat/encoding/rle"
	"github.com/segmentio/parquet-flat/format"
	"github.com/stretchr/testify/require"
)

func mustAppend(b []byte, err error) []byte {
	if err != nil {
		panic(err)
	}
	return b
}

func booleanPlain(values ...bool) []byte {
	var b []byte
	for i, v := range values {
		b = plain.AppendBoolean(b, i, v)
	}
	return b
}

func TestColumnReaderTypes(t *testing.T) {
	int96 := deprecated.Int96FromTime(time.Date(2022, 3, 14, 15, 9, 26, 0, time.UTC))

	// Each column holds a null at position 1, the encoded values only contain
	// the present ones.
	tests := []struct {
		scenario string
		field    parquet.Field
		encoding format.Encoding
		data     []byte
		expect   []any
	}{
		{
			scenario: "boolean plain",
			field:    parquet.OptionalField("b", format.Boolean),
			encoding: format.Plain,
			data:     booleanPlain(true, false, true, true, false, false, false, false, true, true),
			expect:   []any{true, nil, false, true, true, false, false, false, false, true, true},
		},
		{
			scenario: "boolean rle",
			field:    parquet.OptionalField("b", format.Boolean),
			encoding: format.RLE,
			data:     rle.AppendBoolean(nil, []bool{false, true, true}),
			expect:   []any{false, nil, true, true},
		},
		{
			scenario: "int32",
			field:    parquet.OptionalField("i32", format.Int32),
			encoding: format.Plain,
			data:     plain.AppendInt32(nil, -1, 0, 1<<30),
			expect:   []any{int32(-1), nil, int32(0), int32(1 << 30)},
		},
		{
			scenario: "int64",
			field:    parquet.OptionalField("i64", format.Int64),
			encoding: format.Plain,
			data:     plain.AppendInt64(nil, -1, 1<<40),
			expect:   []any{int64(-1), nil, int64(1 << 40)},
		},
		{
			scenario: "int96",
			field:    parquet.OptionalField("i96", format.Int96),
			encoding: format.Plain,
			data:     plain.AppendInt96(nil, int96, deprecated.Int96{1, 2, 3}),
			expect:   []any{int96, nil, deprecated.Int96{1, 2, 3}},
		},
		{
			scenario: "float plain",
			field:    parquet.OptionalField("f", format.Float),
			encoding: format.Plain,
			data:     plain.AppendFloat(nil, 1.5, -0.25),
			expect:   []any{float32(1.5), nil, float32(-0.25)},
		},
		{
			scenario: "float byte stream split",
			field:    parquet.OptionalField("f", format.Float),
			encoding: format.ByteStreamSplit,
			data:     bytestreamsplit.AppendFloat(nil, []float32{1.5, -0.25, 3}),
			expect:   []any{float32(1.5), nil, float32(-0.25), float32(3)},
		},
		{
			scenario: "double byte stream split",
			field:    parquet.OptionalField("d", format.Double),
			encoding: format.ByteStreamSplit,
			data:     bytestreamsplit.AppendDouble(nil, []float64{1e100, -2}),
			expect:   []any{1e100, nil, float64(-2)},
		},
		{
			scenario: "double plain",
			field:    parquet.OptionalField("d", format.Double),
			encoding: format.Plain,
			data:     plain.AppendDouble(nil, 0.5),
			expect:   []any{0.5, nil},
		},
		{
			scenario: "byte array",
			field:    parquet.OptionalField("s", format.ByteArray),
			encoding: format.Plain,
			data:     mustAppend(plain.AppendByteArray(nil, []byte("hello"), []byte{}, []byte("world"))),
			expect:   []any{[]byte("hello"), nil, []byte{}, []byte("world")},
		},
		{
			scenario: "fixed length byte array",
			field: parquet.Field{
				Name:               "id",
				Type:               format.FixedLenByteArray,
				TypeLength:         4,
				MaxDefinitionLevel: 1,
			},
			encoding: format.Plain,
			data:     mustAppend(plain.AppendFixedLenByteArray(nil, 4, []byte("abcd"), []byte("efgh"))),
			expect:   []any{[]byte("abcd"), nil, []byte("efgh")},
		},
	}

	for _, test := range tests {
		t.Run(test.scenario, func(t *testing.T) {
			levels := make([]byte, len(test.expect))
			for i, v := range test.expect {
				if v != nil {
					levels[i] = 1
				}
			}
			data := rle.AppendLevels(nil, levels, 1)
			data = append(data, test.data...)
			page := parquet.NewDataPageV1(data, len(levels), len(data), format.RLE, format.RLE, test.encoding)

			r, err := parquet.NewColumnReader(test.field)
			require.NoError(t, err)
			require.Equal(t, test.field, r.Field())
			r.SetPageSource(newPageReader(t, nil, page))

			require.NoError(t, r.PrepareNextRead(len(levels)))
			column, err := r.ReadColumn()
			require.NoError(t, err)
			require.Equal(t, len(test.expect), column.Len())
			require.True(t, column.MayHaveNull())

			for i, want := range test.expect {
				require.Equal(t, want == nil, column.IsNull(i), "position %d", i)
				if b, ok := want.([]byte); ok {
					require.Equal(t, string(b), string(column.Any(i).([]byte)), "position %d", i)
				} else {
					require.Equal(t, want, column.Any(i), "position %d", i)
				}
			}
		})
	}
}

func TestColumnReaderDictionaryTypes(t *testing.T) {
	field := parquet.RequiredField("s", format.ByteArray)
	dict := mustAppend(plain.AppendByteArray(nil, []byte("a"), []byte("bc"), []byte("def")))
	dictionary := parquet.NewDictionaryPage(dict, 3, len(dict), format.PlainDictionary)

	page1 := rle.AppendIndexes(nil, []uint32{2, 2, 0})
	page2 := rle.AppendIndexes(nil, []uint32{1})
	source := newPageReader(t, dictionary,
		parquet.NewDataPageV1(page1, 3, len(page1), format.RLE, format.RLE, format.PlainDictionary),
		parquet.NewDataPageV1(page2, 1, len(page2), format.RLE, format.RLE, format.RLEDictionary),
	)

	r, err := parquet.NewFlatColumnReader(field, parquet.ByteArrayDecoders)
	require.NoError(t, err)
	r.SetPageSource(source)

	require.NoError(t, r.PrepareNextRead(4))
	batch, err := r.ReadNoNull()
	require.NoError(t, err)

	values := make([]string, batch.Len())
	for i, v := range batch.Values() {
		values[i] = string(v)
	}
	require.Equal(t, []string{"def", "def", "a", "bc"}, values)
}

func TestColumnReaderInvalidType(t *testing.T) {
	_, err := parquet.NewColumnReader(parquet.Field{Name: "x", Type: format.Type(42), Required: true})
	require.Error(t, err)
}

func TestFieldValidate(t *testing.T) {
	require.NoError(t, parquet.RequiredField("x", format.Int32).Validate())
	require.NoError(t, parquet.OptionalField("x", format.Double).Validate())
	require.Error(t, parquet.OptionalField("x", format.FixedLenByteArray).Validate())
	require.ErrorIs(t, parquet.Field{Name: "x", Type: format.Int32, MaxDefinitionLevel: 2}.Validate(), parquet.ErrNotFlat)

	require.Equal(t, "REQUIRED INT32 x", parquet.RequiredField("x", format.Int32).String())
	require.Equal(t, "OPTIONAL FIXED_LEN_BYTE_ARRAY(16) id",
		parquet.Field{Name: "id", Type: format.FixedLenByteArray, TypeLength: 16, MaxDefinitionLevel: 1}.String())
}
