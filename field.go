package parquet

import (
	"fmt"

	"github.com/segmentio/parquet-flat/format"
)

// Field describes a flat column.
type Field struct {
	// Name of the column.
	Name string
	// Physical type of the column values.
	Type format.Type
	// Size of FIXED_LEN_BYTE_ARRAY values, zero for other types.
	TypeLength int
	// Required is true if the column cannot hold null values.
	Required bool
	// MaxDefinitionLevel is 0 for required columns and 1 for optional ones.
	MaxDefinitionLevel int
	// LogicalType annotates the physical type, it may be nil.
	LogicalType *format.LogicalType
}

// RequiredField returns a descriptor of a required column.
func RequiredField(name string, typ format.Type) Field {
	return Field{Name: name, Type: typ, Required: true}
}

// OptionalField returns a descriptor of an optional column.
func OptionalField(name string, typ format.Type) Field {
	return Field{Name: name, Type: typ, MaxDefinitionLevel: 1}
}

// Validate returns an error if f does not describe a flat column.
func (f Field) Validate() error {
	switch {
	case f.MaxDefinitionLevel < 0 || f.MaxDefinitionLevel > 1:
		return fmt.Errorf("field %q: %w: max definition level %d", f.Name, ErrNotFlat, f.MaxDefinitionLevel)
	case f.Type == format.FixedLenByteArray && f.TypeLength <= 0:
		return fmt.Errorf("field %q: invalid FIXED_LEN_BYTE_ARRAY length %d", f.Name, f.TypeLength)
	case f.Type < format.Boolean || f.Type > format.FixedLenByteArray:
		return fmt.Errorf("field %q: invalid physical type %d", f.Name, f.Type)
	}
	return nil
}

func (f Field) String() string {
	repetition := format.Optional
	if f.Required {
		repetition = format.Required
	}
	typ := f.Type.String()
	if f.Type == format.FixedLenByteArray {
		typ = fmt.Sprintf("%s(%d)", typ, f.TypeLength)
	}
	return fmt.Sprintf("%s %s %s", repetition, typ, f.Name)
}
