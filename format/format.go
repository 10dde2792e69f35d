// Package format contains the thrift definitions of the parquet file format
// structures read by this module.
//
// Only the subset of the parquet-format definitions needed to locate and
// decode the pages of flat columns is declared; the thrift decoder skips the
// fields that have no counterpart here.
//
// https://github.com/apache/parquet-format/blob/master/src/main/thrift/parquet.thrift
package format

// NullCountIsZero reports whether the statistics guarantee that there are no
// null values. Missing statistics or a missing null count guarantee nothing.
func (s *Statistics) NullCountIsZero() bool {
	return s != nil && s.NullCount != nil && *s.NullCount == 0
}

// IsLeaf returns true if the schema element describes a primitive column.
func (e *SchemaElement) IsLeaf() bool {
	return e.NumChildren == 0 && e.Type != nil
}

// Repetition returns the repetition type of e, defaulting to Required when
// the field was omitted.
func (e *SchemaElement) Repetition() FieldRepetitionType {
	if e.RepetitionType == nil {
		return Required
	}
	return *e.RepetitionType
}

// IsDataPage reports whether the page header is one of the data page variants.
func (h *PageHeader) IsDataPage() bool {
	return h.Type == DataPage || h.Type == DataPageV2
}
