package parquet

import (
	"fmt"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/segmentio/parquet-flat/compress"
	"github.com/segmentio/parquet-flat/format"
)

// PageSource is the interface implemented by the sequences of pages of a
// column chunk consumed by column readers.
type PageSource interface {
	// Returns the next data page of the chunk, with its payload decompressed.
	// The method returns an error wrapping ErrUnderrun when called after the
	// last page.
	NextPage() (DataPage, error)

	// Returns true if NextPage has more pages to return.
	HasNext() bool

	// Returns the dictionary page of the chunk, or nil if the chunk has none.
	DictionaryPage() (*DictionaryPage, error)

	// Returns true if the chunk is known to contain no null values.
	HasNoNulls() bool
}

// PageReader is the PageSource implementation over the pages of a column chunk
// held in memory. Page payloads are decompressed when the pages are handed out.
type PageReader struct {
	codec      compress.Codec
	pages      []DataPage
	index      int
	dictionary *DictionaryPage
	loaded     bool
	numValues  int64
	hasNoNulls bool
	logger     log.Logger
	metrics    *Metrics
}

// NewPageReader constructs a page source over pages, which are compressed
// with codec. The dictionary may be nil. numValues is the total number of
// values of the chunk, and must match the sum of the values of all pages.
// The pages slice is copied, the page payloads are not.
func NewPageReader(codec format.CompressionCodec, pages []DataPage, dictionary *DictionaryPage, numValues int64, hasNoNulls bool, options ...ReaderOption) (*PageReader, error) {
	config, err := NewReaderConfig(options...)
	if err != nil {
		return nil, err
	}
	c, err := LookupCompressionCodec(codec)
	if err != nil {
		return nil, err
	}
	return &PageReader{
		codec:      c,
		pages:      append([]DataPage(nil), pages...),
		dictionary: dictionary,
		numValues:  numValues,
		hasNoNulls: hasNoNulls,
		logger:     config.Logger,
		metrics:    config.Metrics,
	}, nil
}

// Codec returns the compression codec of the pages.
func (r *PageReader) Codec() compress.Codec { return r.codec }

// NumValues returns the total number of values of the column chunk.
func (r *PageReader) NumValues() int64 { return r.numValues }

// NumPages returns the number of data pages of the column chunk.
func (r *PageReader) NumPages() int { return len(r.pages) }

func (r *PageReader) HasNext() bool { return r.index < len(r.pages) }

func (r *PageReader) HasNoNulls() bool { return r.hasNoNulls }

func (r *PageReader) NextPage() (DataPage, error) {
	if r.index >= len(r.pages) {
		return nil, fmt.Errorf("%w: no pages left after %d data pages", ErrUnderrun, len(r.pages))
	}
	i := r.index
	page := r.pages[i]
	r.pages[i] = nil
	r.index++

	page, err := r.decompressPage(page)
	if err != nil {
		return nil, fmt.Errorf("data page %d: %w", i, err)
	}
	r.metrics.pageRead(page.Type())
	level.Debug(r.logger).Log("msg", "next page", "index", i, "page", page)
	return page, nil
}

func (r *PageReader) DictionaryPage() (*DictionaryPage, error) {
	if r.loaded || r.dictionary == nil {
		return r.dictionary, nil
	}
	dict := r.dictionary
	if r.compressed() {
		data, err := r.decompress(dict.data, dict.uncompressedSize)
		if err != nil {
			return nil, fmt.Errorf("dictionary page: %w", err)
		}
		dict = dict.withData(data)
	}
	r.dictionary, r.loaded = dict, true
	r.metrics.pageRead(format.DictionaryPage)
	level.Debug(r.logger).Log("msg", "loaded dictionary page", "page", dict)
	return dict, nil
}

func (r *PageReader) compressed() bool {
	return r.codec.CompressionCodec() != format.Uncompressed
}

func (r *PageReader) decompressPage(page DataPage) (DataPage, error) {
	if !r.compressed() {
		return page, nil
	}
	switch p := page.(type) {
	case *DataPageV1:
		data, err := r.decompress(p.data, p.uncompressedSize)
		if err != nil {
			return nil, err
		}
		return p.withData(data), nil
	case *DataPageV2:
		if !p.isCompressed {
			return p, nil
		}
		data, err := r.decompress(p.data, p.dataSize())
		if err != nil {
			return nil, err
		}
		return p.withData(data), nil
	default:
		return page, nil
	}
}

func (r *PageReader) decompress(data []byte, size int) ([]byte, error) {
	if size < 0 {
		return nil, fmt.Errorf("%w: negative uncompressed page size %d", ErrCorrupted, size)
	}
	out, err := compress.DecodeSize(r.codec, nil, data, size)
	if err != nil {
		return nil, fmt.Errorf("%w: decompressing %d bytes: %w", ErrCorrupted, len(data), err)
	}
	r.metrics.pageDecompressed(r.codec.CompressionCodec(), len(out))
	return out, nil
}

var (
	_ PageSource = (*PageReader)(nil)
)
