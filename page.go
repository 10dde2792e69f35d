package parquet

import (
	"fmt"

	"github.com/segmentio/parquet-flat/format"
)

// DataPage is an interface implemented by the two versions of parquet data
// pages, *DataPageV1 and *DataPageV2.
//
// Pages are immutable, the byte slices they expose must not be modified.
type DataPage interface {
	fmt.Stringer

	// Returns the page type.
	Type() format.PageType

	// Returns the number of values in the page, including nulls.
	NumValues() int

	// Returns the encoding of the values section.
	Encoding() format.Encoding

	// Returns the size of the page once decompressed.
	UncompressedSize() int
}

// DataPageV1 is a data page in the original layout, where the repetition and
// definition levels are stored before the values in a single buffer that is
// compressed as a whole.
//
// For optional columns of a flat schema the buffer holds the length prefixed
// definition levels followed by the values; required columns only have values.
type DataPageV1 struct {
	numValues               int
	uncompressedSize        int
	definitionLevelEncoding format.Encoding
	repetitionLevelEncoding format.Encoding
	encoding                format.Encoding
	data                    []byte
}

// NewDataPageV1 constructs a data page v1 holding numValues values in data.
func NewDataPageV1(data []byte, numValues, uncompressedSize int, definitionLevelEncoding, repetitionLevelEncoding, encoding format.Encoding) *DataPageV1 {
	return &DataPageV1{
		numValues:               numValues,
		uncompressedSize:        uncompressedSize,
		definitionLevelEncoding: definitionLevelEncoding,
		repetitionLevelEncoding: repetitionLevelEncoding,
		encoding:                encoding,
		data:                    data,
	}
}

func (page *DataPageV1) Type() format.PageType { return format.DataPage }

func (page *DataPageV1) NumValues() int { return page.numValues }

func (page *DataPageV1) UncompressedSize() int { return page.uncompressedSize }

func (page *DataPageV1) DefinitionLevelEncoding() format.Encoding {
	return page.definitionLevelEncoding
}

func (page *DataPageV1) RepetitionLevelEncoding() format.Encoding {
	return page.repetitionLevelEncoding
}

func (page *DataPageV1) Encoding() format.Encoding { return page.encoding }

// Data returns the levels and values of the page.
func (page *DataPageV1) Data() []byte { return page.data }

func (page *DataPageV1) withData(data []byte) *DataPageV1 {
	p := *page
	p.data = data
	return &p
}

func (page *DataPageV1) String() string {
	return fmt.Sprintf("DATA_PAGE{NumValues=%d,Encoding=%s,DefinitionLevelEncoding=%s,RepetitionLevelEncoding=%s,UncompressedSize=%d}",
		page.numValues,
		page.encoding,
		page.definitionLevelEncoding,
		page.repetitionLevelEncoding,
		page.uncompressedSize)
}

// DataPageV2 is a data page where the repetition and definition levels are
// stored uncompressed in their own sections, without length prefix. Only the
// values section may be compressed.
type DataPageV2 struct {
	numValues        int
	numNulls         int
	numRows          int
	repetitionLevels []byte
	definitionLevels []byte
	encoding         format.Encoding
	data             []byte
	uncompressedSize int
	isCompressed     bool
}

// NewDataPageV2 constructs a data page v2. The uncompressed size includes the
// sizes of the level sections.
func NewDataPageV2(repetitionLevels, definitionLevels, data []byte, numValues, numNulls, numRows, uncompressedSize int, encoding format.Encoding, isCompressed bool) *DataPageV2 {
	return &DataPageV2{
		numValues:        numValues,
		numNulls:         numNulls,
		numRows:          numRows,
		repetitionLevels: repetitionLevels,
		definitionLevels: definitionLevels,
		encoding:         encoding,
		data:             data,
		uncompressedSize: uncompressedSize,
		isCompressed:     isCompressed,
	}
}

func (page *DataPageV2) Type() format.PageType { return format.DataPageV2 }

func (page *DataPageV2) NumValues() int { return page.numValues }

func (page *DataPageV2) NumNulls() int { return page.numNulls }

func (page *DataPageV2) NumRows() int { return page.numRows }

func (page *DataPageV2) RepetitionLevels() []byte { return page.repetitionLevels }

func (page *DataPageV2) DefinitionLevels() []byte { return page.definitionLevels }

func (page *DataPageV2) Encoding() format.Encoding { return page.encoding }

// Data returns the values section of the page.
func (page *DataPageV2) Data() []byte { return page.data }

func (page *DataPageV2) UncompressedSize() int { return page.uncompressedSize }

func (page *DataPageV2) IsCompressed() bool { return page.isCompressed }

// dataSize returns the size of the values section once decompressed.
func (page *DataPageV2) dataSize() int {
	return page.uncompressedSize - len(page.repetitionLevels) - len(page.definitionLevels)
}

func (page *DataPageV2) withData(data []byte) *DataPageV2 {
	p := *page
	p.data = data
	p.isCompressed = false
	return &p
}

func (page *DataPageV2) String() string {
	return fmt.Sprintf("DATA_PAGE_V2{NumValues=%d,NumNulls=%d,NumRows=%d,Encoding=%s,UncompressedSize=%d,IsCompressed=%t}",
		page.numValues,
		page.numNulls,
		page.numRows,
		page.encoding,
		page.uncompressedSize,
		page.isCompressed)
}

// DictionaryPage holds the distinct values of a column chunk referenced by the
// indexes of dictionary encoded data pages.
type DictionaryPage struct {
	data             []byte
	numValues        int
	uncompressedSize int
	encoding         format.Encoding
}

func NewDictionaryPage(data []byte, numValues, uncompressedSize int, encoding format.Encoding) *DictionaryPage {
	return &DictionaryPage{
		data:             data,
		numValues:        numValues,
		uncompressedSize: uncompressedSize,
		encoding:         encoding,
	}
}

func (page *DictionaryPage) Type() format.PageType { return format.DictionaryPage }

func (page *DictionaryPage) Data() []byte { return page.data }

func (page *DictionaryPage) NumValues() int { return page.numValues }

func (page *DictionaryPage) UncompressedSize() int { return page.uncompressedSize }

func (page *DictionaryPage) Encoding() format.Encoding { return page.encoding }

func (page *DictionaryPage) withData(data []byte) *DictionaryPage {
	p := *page
	p.data = data
	return &p
}

func (page *DictionaryPage) String() string {
	return fmt.Sprintf("DICTIONARY_PAGE{NumValues=%d,Encoding=%s,UncompressedSize=%d}",
		page.numValues,
		page.encoding,
		page.uncompressedSize)
}

var (
	_ DataPage = (*DataPageV1)(nil)
	_ DataPage = (*DataPageV2)(nil)
)
