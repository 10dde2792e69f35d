package parquet

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/segmentio/encoding/thrift"
	"github.com/segmentio/parquet-flat/format"
)

var (
	ErrMissingRootColumn = errors.New("parquet file is missing a root column")
)

// File represents a parquet file with a flat schema.
type File struct {
	metadata format.FileMetaData
	protocol thrift.CompactProtocol
	reader   io.ReaderAt
	size     int64
	buffer   [8]byte
	fields   []Field
	config   *ReaderConfig
	logger   log.Logger
}

// OpenFile opens a parquet file from the content between offset 0 and the given
// size in r.
//
// Only the parquet magic bytes and footer are read, column chunks and other
// parts of the file are left untouched; this means that successfully opening
// a file does not validate that the pages are not corrupted.
//
// The function returns an error wrapping ErrNotFlat if the schema of the file
// has nested or repeated columns.
func OpenFile(r io.ReaderAt, size int64, options ...ReaderOption) (*File, error) {
	config, err := NewReaderConfig(options...)
	if err != nil {
		return nil, err
	}

	f := &File{
		reader: r,
		size:   size,
		config: config,
		logger: config.Logger,
	}

	if size < 12 {
		return nil, fmt.Errorf("parquet file of %d bytes is too short", size)
	}

	if _, err := r.ReadAt(f.buffer[:4], 0); err != nil {
		return nil, fmt.Errorf("reading magic header of parquet file: %w", err)
	}
	if string(f.buffer[:4]) != "PAR1" {
		return nil, fmt.Errorf("invalid magic header of parquet file: %q", f.buffer[:4])
	}

	if _, err := r.ReadAt(f.buffer[:8], size-8); err != nil {
		return nil, fmt.Errorf("reading magic footer of parquet file: %w", err)
	}
	if string(f.buffer[4:8]) != "PAR1" {
		return nil, fmt.Errorf("invalid magic footer of parquet file: %q", f.buffer[4:8])
	}

	footerSize := int64(binary.LittleEndian.Uint32(f.buffer[:4]))
	if footerSize > size-12 {
		return nil, fmt.Errorf("parquet file footer of %d bytes exceeds file size of %d bytes", footerSize, size)
	}
	footerData := io.NewSectionReader(r, size-(footerSize+8), footerSize)

	buffer := acquireBufioReader(footerData, int(min(footerSize, int64(config.ChunkBufferSize))))
	defer releaseBufioReader(buffer)

	if err := thrift.NewDecoder(f.protocol.NewReader(buffer)).Decode(&f.metadata); err != nil {
		return nil, fmt.Errorf("reading parquet file metadata: %w", err)
	}

	if len(f.metadata.Schema) == 0 {
		return nil, ErrMissingRootColumn
	}

	fields, err := flatFields(f.metadata.Schema)
	if err != nil {
		return nil, fmt.Errorf("opening parquet file columns: %w", err)
	}
	f.fields = fields

	level.Debug(f.logger).Log("msg", "opened parquet file",
		"size", size,
		"columns", len(fields),
		"row_groups", len(f.metadata.RowGroups),
		"rows", f.metadata.NumRows,
		"created_by", f.metadata.CreatedBy,
	)
	return f, nil
}

func flatFields(schema []format.SchemaElement) ([]Field, error) {
	root := &schema[0]
	if int(root.NumChildren) != len(schema)-1 {
		return nil, fmt.Errorf("%w: root column %q has %d children for %d schema elements", ErrNotFlat, root.Name, root.NumChildren, len(schema)-1)
	}

	fields := make([]Field, len(schema)-1)
	for i := range fields {
		elem := &schema[i+1]
		if !elem.IsLeaf() {
			return nil, fmt.Errorf("%w: column %q is a group", ErrNotFlat, elem.Name)
		}
		field := Field{
			Name:        elem.Name,
			Type:        *elem.Type,
			LogicalType: elem.LogicalType,
		}
		if elem.TypeLength != nil {
			field.TypeLength = int(*elem.TypeLength)
		}
		switch elem.Repetition() {
		case format.Required:
			field.Required = true
		case format.Optional:
			field.MaxDefinitionLevel = 1
		default:
			return nil, fmt.Errorf("%w: column %q is repeated", ErrNotFlat, elem.Name)
		}
		if err := field.Validate(); err != nil {
			return nil, err
		}
		fields[i] = field
	}
	return fields, nil
}

// Fields returns the descriptors of the columns of f, in schema order.
func (f *File) Fields() []Field { return f.fields }

// Lookup returns the index of the column with the given name.
func (f *File) Lookup(name string) (int, bool) {
	for i := range f.fields {
		if f.fields[i].Name == name {
			return i, true
		}
	}
	return -1, false
}

// Metadata returns the metadata of f.
func (f *File) Metadata() *format.FileMetaData { return &f.metadata }

// NumRows returns the number of rows in f.
func (f *File) NumRows() int64 { return f.metadata.NumRows }

// NumRowGroups returns the number of row groups in f.
func (f *File) NumRowGroups() int { return len(f.metadata.RowGroups) }

// Size returns the size of f (in bytes).
func (f *File) Size() int64 { return f.size }

// ColumnChunk reads the pages of a column chunk, returning a page source that
// can be bound to a column reader with SetPageSource.
func (f *File) ColumnChunk(rowGroup, column int) (*PageReader, error) {
	if rowGroup < 0 || rowGroup >= len(f.metadata.RowGroups) {
		return nil, fmt.Errorf("row group index out of range: %d/%d", rowGroup, len(f.metadata.RowGroups))
	}
	columns := f.metadata.RowGroups[rowGroup].Columns
	if column < 0 || column >= len(columns) || column >= len(f.fields) {
		return nil, fmt.Errorf("column index out of range: %d/%d", column, len(f.fields))
	}

	chunk := &columns[column]
	if chunk.FilePath != "" {
		return nil, fmt.Errorf("column chunk stored in external file %q: %w", chunk.FilePath, ErrUnsupportedEncoding)
	}

	metadata := &chunk.MetaData
	offset := metadata.DataPageOffset
	if metadata.DictionaryPageOffset > 0 && metadata.DictionaryPageOffset < offset {
		offset = metadata.DictionaryPageOffset
	}
	if offset < 0 || metadata.TotalCompressedSize < 0 || offset+metadata.TotalCompressedSize > f.size {
		return nil, fmt.Errorf("%w: column chunk of %d bytes at offset %d is out of file bounds", ErrCorrupted, metadata.TotalCompressedSize, offset)
	}

	section := io.NewSectionReader(f, offset, metadata.TotalCompressedSize)
	buffer := acquireBufioReader(section, int(min(metadata.TotalCompressedSize, int64(f.config.ChunkBufferSize))))
	defer releaseBufioReader(buffer)

	pages, err := ReadColumnChunk(buffer, metadata, f.config)
	if err != nil {
		return nil, fmt.Errorf("row group %d: column %q: %w", rowGroup, f.fields[column].Name, err)
	}
	return pages, nil
}

// ReadAt reads bytes into b from f at the given offset.
//
// The method satisfies the io.ReaderAt interface.
func (f *File) ReadAt(b []byte, off int64) (int, error) {
	if off < 0 || off >= f.size {
		return 0, io.EOF
	}

	if limit := f.size - off; limit < int64(len(b)) {
		n, err := f.reader.ReadAt(b[:limit], off)
		if err == nil {
			err = io.EOF
		}
		return n, err
	}

	return f.reader.ReadAt(b, off)
}

var bufioReaderPool sync.Pool // *bufio.Reader

// acquireBufioReader returns a buffered reader of r with a buffer of at least
// size bytes.
func acquireBufioReader(r io.Reader, size int) *bufio.Reader {
	if b, _ := bufioReaderPool.Get().(*bufio.Reader); b != nil {
		if b.Size() >= size {
			b.Reset(r)
			return b
		}
	}
	return bufio.NewReaderSize(r, size)
}

func releaseBufioReader(b *bufio.Reader) {
	b.Reset(nil)
	bufioReaderPool.Put(b)
}

var (
	_ io.ReaderAt = (*File)(nil)
)
