package deprecated

import (
	"encoding/binary"
	"math/big"
	"time"
)

// Int96 is an implementation of the deprecated INT96 parquet type.
//
// The value is stored as three little-endian 32 bits words, the least
// significant word first.
type Int96 [3]uint32

// Int96Size is the size in bytes of the PLAIN representation of an Int96.
const Int96Size = 12

// Int96FromBytes reads an Int96 from the 12 first bytes of b.
func Int96FromBytes(b []byte) Int96 {
	_ = b[11]
	return Int96{
		0: binary.LittleEndian.Uint32(b[0:]),
		1: binary.LittleEndian.Uint32(b[4:]),
		2: binary.LittleEndian.Uint32(b[8:]),
	}
}

// AppendInt96 appends the PLAIN representation of i to b.
func AppendInt96(b []byte, i Int96) []byte {
	b = binary.LittleEndian.AppendUint32(b, i[0])
	b = binary.LittleEndian.AppendUint32(b, i[1])
	b = binary.LittleEndian.AppendUint32(b, i[2])
	return b
}

// Negative returns true if i is a negative value.
func (i Int96) Negative() bool {
	return (i[2] >> 31) != 0
}

// Less returns true if i < j.
//
// The method implements a signed comparison between the two operands.
func (i Int96) Less(j Int96) bool {
	if i.Negative() {
		if !j.Negative() {
			return true
		}
	} else {
		if j.Negative() {
			return false
		}
	}
	for k := 2; k >= 0; k-- {
		a, b := i[k], j[k]
		switch {
		case a < b:
			return true
		case a > b:
			return false
		}
	}
	return false
}

// Int converts i to a big.Int representation.
func (i Int96) Int() *big.Int {
	z := new(big.Int)
	z.Or(z, big.NewInt(int64(int32(i[2]))))
	z.Lsh(z, 32)
	z.Or(z, big.NewInt(int64(i[1])))
	z.Lsh(z, 32)
	z.Or(z, big.NewInt(int64(i[0])))
	return z
}

// String returns a string representation of i.
func (i Int96) String() string {
	return i.Int().String()
}

// julianUnixEpoch is the julian day number of 1970-01-01.
const julianUnixEpoch = 2440588

// Time interprets i as the legacy timestamp layout written by Impala and Hive:
// nanoseconds within the day in the first 8 bytes, followed by the julian day
// number.
func (i Int96) Time() time.Time {
	nanos := int64(uint64(i[1])<<32 | uint64(i[0]))
	days := int64(i[2]) - julianUnixEpoch
	return time.Unix(days*86400, nanos).UTC()
}

// Int96FromTime is the inverse of Int96.Time.
func Int96FromTime(t time.Time) Int96 {
	t = t.UTC()
	secs := t.Unix()
	days := secs / 86400
	if secs%86400 < 0 {
		days--
	}
	nanos := uint64((secs-days*86400)*int64(time.Second) + int64(t.Nanosecond()))
	return Int96{
		0: uint32(nanos),
		1: uint32(nanos >> 32),
		2: uint32(days + julianUnixEpoch),
	}
}
