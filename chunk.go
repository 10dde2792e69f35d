package parquet

import (
	"fmt"
	"hash/crc32"
	"io"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/segmentio/encoding/thrift"
	"github.com/segmentio/parquet-flat/format"
)

// ReadColumnChunk reads the pages of a column chunk from r, which must be
// positioned on the first page of the chunk (the dictionary page if there is
// one), and returns a page source yielding them.
//
// Page headers are read until the data pages add up to the number of values
// declared in metadata, so r may extend past the end of the chunk. Index pages
// are skipped. Page payloads are kept compressed until the page source hands
// them out.
func ReadColumnChunk(r io.Reader, metadata *format.ColumnMetaData, options ...ReaderOption) (*PageReader, error) {
	config, err := NewReaderConfig(options...)
	if err != nil {
		return nil, err
	}

	var (
		protocol   thrift.CompactProtocol
		decoder    = thrift.NewDecoder(protocol.NewReader(r))
		logger     = log.With(config.Logger, "path", strings.Join(metadata.PathInSchema, "."))
		pages      []DataPage
		dictionary *DictionaryPage
		numValues  int64
	)

	for numValues < metadata.NumValues {
		header := new(format.PageHeader)
		if err := decoder.Decode(header); err != nil {
			return nil, fmt.Errorf("%w: reading page header after %d of %d values: %w", ErrCorrupted, numValues, metadata.NumValues, err)
		}
		if header.CompressedPageSize < 0 || header.UncompressedPageSize < 0 {
			return nil, fmt.Errorf("%w: invalid %s sizes: compressed=%d uncompressed=%d", ErrCorrupted, header.Type, header.CompressedPageSize, header.UncompressedPageSize)
		}

		data := make([]byte, header.CompressedPageSize)
		if _, err := io.ReadFull(r, data); err != nil {
			return nil, fmt.Errorf("%w: reading %d bytes of %s: %w", ErrCorrupted, len(data), header.Type, err)
		}

		if config.VerifyChecksums && header.CRC != 0 {
			if err := verifyPageChecksum(header, data); err != nil {
				return nil, err
			}
		}

		switch header.Type {
		case format.DictionaryPage:
			if dictionary != nil {
				return nil, fmt.Errorf("%w: column chunk has more than one dictionary page", ErrCorrupted)
			}
			h := header.DictionaryPageHeader
			if h == nil {
				return nil, fmt.Errorf("%w: missing dictionary page header", ErrCorrupted)
			}
			dictionary = NewDictionaryPage(data, int(h.NumValues), int(header.UncompressedPageSize), h.Encoding)

		case format.DataPage:
			h := header.DataPageHeader
			if h == nil {
				return nil, fmt.Errorf("%w: missing data page header", ErrCorrupted)
			}
			pages = append(pages, NewDataPageV1(data, int(h.NumValues), int(header.UncompressedPageSize), h.DefinitionLevelEncoding, h.RepetitionLevelEncoding, h.Encoding))
			numValues += int64(h.NumValues)

		case format.DataPageV2:
			h := header.DataPageHeaderV2
			if h == nil {
				return nil, fmt.Errorf("%w: missing data page v2 header", ErrCorrupted)
			}
			page, err := newDataPageV2(header, h, data)
			if err != nil {
				return nil, err
			}
			pages = append(pages, page)
			numValues += int64(h.NumValues)

		default:
			level.Debug(logger).Log("msg", "skipping page", "type", header.Type, "size", header.CompressedPageSize)
		}
	}

	if numValues != metadata.NumValues {
		return nil, fmt.Errorf("%w: data pages hold %d values but the column chunk has %d", ErrCorrupted, numValues, metadata.NumValues)
	}

	hasNoNulls := metadata.Statistics.NullCountIsZero()
	level.Debug(logger).Log("msg", "read column chunk",
		"codec", metadata.Codec,
		"pages", len(pages),
		"dictionary", dictionary != nil,
		"values", numValues,
		"no_nulls", hasNoNulls,
	)
	return NewPageReader(metadata.Codec, pages, dictionary, numValues, hasNoNulls, config)
}

func newDataPageV2(header *format.PageHeader, h *format.DataPageHeaderV2, data []byte) (*DataPageV2, error) {
	repLen := int(h.RepetitionLevelsByteLength)
	defLen := int(h.DefinitionLevelsByteLength)
	if repLen < 0 || defLen < 0 || repLen+defLen > len(data) {
		return nil, fmt.Errorf("%w: data page v2 levels of %d+%d bytes exceed page size of %d bytes", ErrCorrupted, repLen, defLen, len(data))
	}
	isCompressed := h.IsCompressed == nil || *h.IsCompressed
	return NewDataPageV2(
		data[:repLen:repLen],
		data[repLen:repLen+defLen:repLen+defLen],
		data[repLen+defLen:],
		int(h.NumValues),
		int(h.NumNulls),
		int(h.NumRows),
		int(header.UncompressedPageSize),
		h.Encoding,
		isCompressed,
	), nil
}

func verifyPageChecksum(header *format.PageHeader, data []byte) error {
	if sum, want := crc32.ChecksumIEEE(data), uint32(header.CRC); sum != want {
		return fmt.Errorf("%s crc32 checksum mismatch: 0x%08X != 0x%08X: %w", header.Type, sum, want, ErrCorrupted)
	}
	return nil
}
