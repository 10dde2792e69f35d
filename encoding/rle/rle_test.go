package rle_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/segmentio/parquet-flat/cursor"
	"github.com/segmentio/parquet-flat/encoding"
	"github.com/segmentio/parquet-flat/encoding/rle"
)

func TestDecodeRunLength(t *testing.T) {
	// 5 repetitions of 0x0102 on 9 bits, then 3 repetitions of 7
	data := []byte{5 << 1, 0x02, 0x01, 3 << 1, 0x07, 0x00}

	d, err := rle.NewDecoder(data, 9)
	if err != nil {
		t.Fatal(err)
	}

	values := make([]uint32, 8)
	if err := d.DecodeUint32(values); err != nil {
		t.Fatal(err)
	}

	want := []uint32{0x102, 0x102, 0x102, 0x102, 0x102, 7, 7, 7}
	for i := range want {
		if values[i] != want[i] {
			t.Errorf("value at index %d: want=%d got=%d", i, want[i], values[i])
		}
	}
}

func TestDecodeBitPacked(t *testing.T) {
	// one group of values 0..7 on 3 bits
	data := []byte{1<<1 | 1, 0x88, 0xC6, 0xFA}

	d, err := rle.NewDecoder(data, 3)
	if err != nil {
		t.Fatal(err)
	}

	values := make([]int32, 8)
	if err := d.DecodeInt32(values); err != nil {
		t.Fatal(err)
	}
	for i, v := range values {
		if v != int32(i) {
			t.Errorf("value at index %d: want=%d got=%d", i, i, v)
		}
	}
}

var testValues = map[string][]uint32{
	"empty":          {},
	"one":            {1},
	"long run":       repeat(1, 100),
	"short runs":     {1, 1, 0, 0, 1, 0, 1, 1, 1, 0, 0},
	"mixed":          append(append([]uint32{0, 1, 0, 1, 1}, repeat(0, 20)...), 1, 0, 1),
	"alternating":    alternating(67),
	"run then short": append(repeat(3, 9), 1, 2, 3),
	"sequence":       sequence(1000, 1<<20),
}

func repeat(v uint32, n int) []uint32 {
	values := make([]uint32, n)
	for i := range values {
		values[i] = v
	}
	return values
}

func alternating(n int) []uint32 {
	values := make([]uint32, n)
	for i := range values {
		values[i] = uint32(i % 2)
	}
	return values
}

func sequence(n int, mod uint32) []uint32 {
	values := make([]uint32, n)
	for i := range values {
		values[i] = (uint32(i) * 7919) % mod
	}
	return values
}

func maxBitWidth(values []uint32) uint {
	w := uint(0)
	for _, v := range values {
		for v>>w != 0 {
			w++
		}
	}
	return w
}

func TestEncodeDecode(t *testing.T) {
	for name, values := range testValues {
		for _, extra := range []uint{0, 3} {
			bitWidth := maxBitWidth(values) + extra
			t.Run(fmt.Sprintf("%s/bitWidth=%d", name, bitWidth), func(t *testing.T) {
				data := rle.AppendUint32(nil, values, bitWidth)

				d, err := rle.NewDecoder(data, bitWidth)
				if err != nil {
					t.Fatal(err)
				}
				got := make([]uint32, len(values))
				if err := d.DecodeUint32(got); err != nil {
					t.Fatal(err)
				}
				for i := range values {
					if values[i] != got[i] {
						t.Fatalf("value at index %d: want=%d got=%d", i, values[i], got[i])
					}
				}
			})
		}
	}
}

func TestDecodeAndSkipAcrossRuns(t *testing.T) {
	for name, values := range testValues {
		bitWidth := maxBitWidth(values)
		data := rle.AppendUint32(nil, values, bitWidth)

		for _, step := range []int{1, 3, 8, 13} {
			t.Run(fmt.Sprintf("%s/step=%d", name, step), func(t *testing.T) {
				d, err := rle.NewDecoder(data, bitWidth)
				if err != nil {
					t.Fatal(err)
				}
				buf := make([]uint32, step)

				for i, skip := 0, true; i < len(values); i, skip = i+step, !skip {
					n := min(step, len(values)-i)
					if skip {
						if err := d.Skip(n); err != nil {
							t.Fatal(err)
						}
						continue
					}
					if err := d.DecodeUint32(buf[:n]); err != nil {
						t.Fatal(err)
					}
					for j := 0; j < n; j++ {
						if values[i+j] != buf[j] {
							t.Fatalf("value at index %d: want=%d got=%d", i+j, values[i+j], buf[j])
						}
					}
				}
			})
		}
	}
}

func TestLengthPrefixedLevels(t *testing.T) {
	levels := []byte{0, 1, 0, 1, 0}
	data := rle.AppendLevels(nil, levels, 1)
	data = append(data, "values"...)

	d, rest, err := rle.NewLengthPrefixedDecoder(data, 1)
	if err != nil {
		t.Fatal(err)
	}
	if string(rest) != "values" {
		t.Errorf("wrong bytes after the levels: %q", rest)
	}

	got := make([]byte, len(levels))
	if err := d.DecodeLevels(got); err != nil {
		t.Fatal(err)
	}
	if string(got) != string(levels) {
		t.Errorf("levels mismatch: want=%v got=%v", levels, got)
	}
}

func TestLengthPrefixTooLong(t *testing.T) {
	data := []byte{10, 0, 0, 0, 1, 2}
	_, _, err := rle.NewLengthPrefixedDecoder(data, 1)
	if !errors.Is(err, cursor.ErrOutOfBounds) {
		t.Errorf("wrong error: %v", err)
	}
}

func TestBoolean(t *testing.T) {
	values := []bool{true, false, true, true, true, true, true, true, true, true, false}
	data := rle.AppendBoolean(nil, values)

	d, _, err := rle.NewLengthPrefixedDecoder(data, 1)
	if err != nil {
		t.Fatal(err)
	}
	got := make([]bool, len(values))
	if err := d.DecodeBoolean(got); err != nil {
		t.Fatal(err)
	}
	for i := range values {
		if values[i] != got[i] {
			t.Errorf("value at index %d: want=%t got=%t", i, values[i], got[i])
		}
	}
}

func TestIndexes(t *testing.T) {
	indexes := []uint32{0, 3, 2, 2, 2, 2, 2, 2, 2, 2, 2, 1}
	data := rle.AppendIndexes(nil, indexes)
	if data[0] != 2 {
		t.Fatalf("wrong bit width: %d", data[0])
	}

	d, err := rle.NewIndexDecoder(data)
	if err != nil {
		t.Fatal(err)
	}
	got := make([]uint32, len(indexes))
	if err := d.DecodeUint32(got); err != nil {
		t.Fatal(err)
	}
	for i := range indexes {
		if indexes[i] != got[i] {
			t.Errorf("index at position %d: want=%d got=%d", i, indexes[i], got[i])
		}
	}
}

func TestBitWidthTooLarge(t *testing.T) {
	if _, err := rle.NewIndexDecoder([]byte{33, 0}); !errors.Is(err, encoding.ErrInvalidArgument) {
		t.Errorf("wrong error: %v", err)
	}
}

func TestTruncatedStream(t *testing.T) {
	data := rle.AppendUint32(nil, repeat(1, 10), 1)

	d, err := rle.NewDecoder(data, 1)
	if err != nil {
		t.Fatal(err)
	}
	err = d.DecodeUint32(make([]uint32, 11))
	if !errors.Is(err, cursor.ErrOutOfBounds) {
		t.Errorf("decoding past the end of the stream did not fail with an out of bounds error: %v", err)
	}
}

func TestTruncatedLastGroup(t *testing.T) {
	// a bit-packed run of 2 groups on 8 bits where only 10 of the 16 bytes
	// were written
	data := []byte{2<<1 | 1, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	d, err := rle.NewDecoder(data, 8)
	if err != nil {
		t.Fatal(err)
	}
	got := make([]uint32, 10)
	if err := d.DecodeUint32(got); err != nil {
		t.Fatal(err)
	}
	for i, v := range got {
		if v != uint32(i+1) {
			t.Errorf("value at index %d: want=%d got=%d", i, i+1, v)
		}
	}

	// the missing bytes of the group do not produce values
	if err := d.Skip(1); !errors.Is(err, cursor.ErrOutOfBounds) {
		t.Errorf("wrong error: %v", err)
	}
}

func TestTruncatedGroupPartialValues(t *testing.T) {
	// values 7..0 on 3 bits need 3 bytes, the first byte holds the first 2
	// values and 2 bits of the third one
	data := []byte{1<<1 | 1, 0x77, 0x39, 0x05}

	d, err := rle.NewDecoder(data[:2], 3)
	if err != nil {
		t.Fatal(err)
	}
	got := make([]uint32, 2)
	if err := d.DecodeUint32(got); err != nil {
		t.Fatal(err)
	}
	if got[0] != 7 || got[1] != 6 {
		t.Errorf("wrong values: %v", got)
	}
	if err := d.DecodeUint32(got[:1]); !errors.Is(err, cursor.ErrOutOfBounds) {
		t.Errorf("wrong error: %v", err)
	}

	d, err = rle.NewDecoder(data[:2], 9)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Skip(1); !errors.Is(err, cursor.ErrOutOfBounds) {
		t.Errorf("group with no complete value did not fail: %v", err)
	}
}

func TestZeroBitWidth(t *testing.T) {
	data := rle.AppendUint32(nil, repeat(0, 20), 0)

	d, err := rle.NewDecoder(data, 0)
	if err != nil {
		t.Fatal(err)
	}
	got := repeat(1, 20)
	if err := d.DecodeUint32(got); err != nil {
		t.Fatal(err)
	}
	for i, v := range got {
		if v != 0 {
			t.Errorf("value at index %d: want=0 got=%d", i, v)
		}
	}
}
