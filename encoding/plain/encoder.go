package plain

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/segmentio/parquet-flat/deprecated"
	"github.com/segmentio/parquet-flat/encoding"
	"github.com/segmentio/parquet-flat/format"
)

// AppendBoolean sets the bit of the n-th boolean of b, growing the slice when
// needed.
func AppendBoolean(b []byte, n int, v bool) []byte {
	i := n / 8
	j := n % 8

	if cap(b) > i {
		b = b[:i+1]
	} else {
		tmp := make([]byte, i+1, 2*(i+1))
		copy(tmp, b)
		b = tmp
	}

	k := uint(j)
	x := byte(0)
	if v {
		x = 1
	}

	b[i] = (b[i] & ^(1 << k)) | (x << k)
	return b
}

func AppendInt32(b []byte, values ...int32) []byte {
	for _, v := range values {
		b = binary.LittleEndian.AppendUint32(b, uint32(v))
	}
	return b
}

func AppendInt64(b []byte, values ...int64) []byte {
	for _, v := range values {
		b = binary.LittleEndian.AppendUint64(b, uint64(v))
	}
	return b
}

func AppendInt96(b []byte, values ...deprecated.Int96) []byte {
	for _, v := range values {
		b = deprecated.AppendInt96(b, v)
	}
	return b
}

func AppendFloat(b []byte, values ...float32) []byte {
	for _, v := range values {
		b = binary.LittleEndian.AppendUint32(b, math.Float32bits(v))
	}
	return b
}

func AppendDouble(b []byte, values ...float64) []byte {
	for _, v := range values {
		b = binary.LittleEndian.AppendUint64(b, math.Float64bits(v))
	}
	return b
}

func AppendByteArray(b []byte, values ...[]byte) ([]byte, error) {
	for _, v := range values {
		if len(v) > MaxByteArrayLength {
			return b, encoding.Error(format.Plain, fmt.Errorf("byte slice is too large to be represented by the PLAIN encoding: %d", len(v)))
		}
		b = binary.LittleEndian.AppendUint32(b, uint32(len(v)))
		b = append(b, v...)
	}
	return b, nil
}

func AppendFixedLenByteArray(b []byte, size int, values ...[]byte) ([]byte, error) {
	for _, v := range values {
		if len(v) != size {
			return b, encoding.Errorf(format.Plain, "cannot encode value of length %d as FIXED_LEN_BYTE_ARRAY(%d): %w", len(v), size, encoding.ErrInvalidArgument)
		}
		b = append(b, v...)
	}
	return b, nil
}
