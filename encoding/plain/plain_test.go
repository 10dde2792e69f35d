package plain_test

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/segmentio/parquet-flat/cursor"
	"github.com/segmentio/parquet-flat/deprecated"
	"github.com/segmentio/parquet-flat/encoding/plain"
)

func TestAppendBoolean(t *testing.T) {
	values := []byte{}

	for i := 0; i < 100; i++ {
		values = plain.AppendBoolean(values, i, (i%2) != 0)
	}

	if !bytes.Equal(values, []byte{
		0b10101010,
		0b10101010,
		0b10101010,
		0b10101010,
		0b10101010,
		0b10101010,
		0b10101010,
		0b10101010,
		0b10101010,
		0b10101010,
		0b10101010,
		0b10101010,
		0b00001010,
	}) {
		t.Errorf("%08b\n", values)
	}
}

type decoder[T any] interface {
	Decode([]T) error
	Skip(int) error
}

// testDecoder decodes values in batches of every size from 1 to len(values),
// interleaving skips, and compares the output with the original sequence.
func testDecoder[T any](t *testing.T, values []T, newDecoder func() decoder[T], equal func(a, b T) bool) {
	t.Helper()

	for batchSize := 1; batchSize <= len(values); batchSize++ {
		t.Run(fmt.Sprintf("batchSize=%d", batchSize), func(t *testing.T) {
			d := newDecoder()
			buf := make([]T, batchSize)

			for i, skip := 0, false; i < len(values); i, skip = i+batchSize, !skip {
				n := min(batchSize, len(values)-i)
				if skip {
					if err := d.Skip(n); err != nil {
						t.Fatal(err)
					}
					continue
				}
				if err := d.Decode(buf[:n]); err != nil {
					t.Fatal(err)
				}
				for j := 0; j < n; j++ {
					if !equal(values[i+j], buf[j]) {
						t.Fatalf("value at index %d mismatch: want=%v got=%v", i+j, values[i+j], buf[j])
					}
				}
			}

			if err := d.Decode(make([]T, 1)); !errors.Is(err, cursor.ErrOutOfBounds) {
				t.Errorf("decoding past the end did not fail with an out of bounds error: %v", err)
			}
		})
	}
}

func equal[T comparable](a, b T) bool { return a == b }

func TestBooleanDecoder(t *testing.T) {
	values := make([]bool, 24)
	data := []byte{}
	for i := range values {
		values[i] = i%3 == 0
		data = plain.AppendBoolean(data, i, values[i])
	}
	testDecoder(t, values, func() decoder[bool] { return plain.NewBooleanDecoder(data) }, equal[bool])
}

func TestInt32Decoder(t *testing.T) {
	values := []int32{0, 1, -1, math.MaxInt32, math.MinInt32, 42, 7}
	data := plain.AppendInt32(nil, values...)
	testDecoder(t, values, func() decoder[int32] { return plain.NewInt32Decoder(data) }, equal[int32])
}

func TestInt64Decoder(t *testing.T) {
	values := []int64{0, 1, -1, math.MaxInt64, math.MinInt64, 1 << 40}
	data := plain.AppendInt64(nil, values...)
	testDecoder(t, values, func() decoder[int64] { return plain.NewInt64Decoder(data) }, equal[int64])
}

func TestInt96Decoder(t *testing.T) {
	values := []deprecated.Int96{{}, {0: 1}, {1: 2}, {2: 3}, {0xFFFFFFFF, 0xFFFFFFFF, 0xFFFFFFFF}}
	data := plain.AppendInt96(nil, values...)
	testDecoder(t, values, func() decoder[deprecated.Int96] { return plain.NewInt96Decoder(data) }, equal[deprecated.Int96])
}

func TestFloatDecoder(t *testing.T) {
	values := []float32{0, -1.5, math.MaxFloat32, math.SmallestNonzeroFloat32, 3.25}
	data := plain.AppendFloat(nil, values...)
	testDecoder(t, values, func() decoder[float32] { return plain.NewFloatDecoder(data) }, equal[float32])
}

func TestDoubleDecoder(t *testing.T) {
	values := []float64{0, -1.5, math.MaxFloat64, math.SmallestNonzeroFloat64, math.Inf(1)}
	data := plain.AppendDouble(nil, values...)
	testDecoder(t, values, func() decoder[float64] { return plain.NewDoubleDecoder(data) }, equal[float64])
}

func TestByteArrayDecoder(t *testing.T) {
	values := [][]byte{[]byte("hello"), {}, []byte("world"), []byte("!"), nil, []byte("parquet")}
	data, err := plain.AppendByteArray(nil, values...)
	if err != nil {
		t.Fatal(err)
	}
	testDecoder(t, values, func() decoder[[]byte] { return plain.NewByteArrayDecoder(data) }, bytes.Equal)
}

func TestFixedLenByteArrayDecoder(t *testing.T) {
	values := [][]byte{[]byte("abc"), []byte("def"), []byte("ghi"), []byte("jkl")}
	data, err := plain.AppendFixedLenByteArray(nil, 3, values...)
	if err != nil {
		t.Fatal(err)
	}
	testDecoder(t, values, func() decoder[[]byte] {
		d, err := plain.NewFixedLenByteArrayDecoder(data, 3)
		if err != nil {
			t.Fatal(err)
		}
		return d
	}, bytes.Equal)

	if _, err := plain.AppendFixedLenByteArray(nil, 3, []byte("ab")); err == nil {
		t.Error("encoding a value of the wrong size did not fail")
	}
	if _, err := plain.NewFixedLenByteArrayDecoder(data, 0); err == nil {
		t.Error("creating a decoder with a zero size did not fail")
	}
}

func TestByteArrayDecoderTruncated(t *testing.T) {
	data, _ := plain.AppendByteArray(nil, []byte("hello"))
	d := plain.NewByteArrayDecoder(data[:len(data)-1])

	err := d.Decode(make([][]byte, 1))
	if !errors.Is(err, cursor.ErrOutOfBounds) {
		t.Errorf("decoding a truncated value did not fail with an out of bounds error: %v", err)
	}
}
