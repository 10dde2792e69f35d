/*
Package parquet reads the columns of parquet files with a flat schema.

A flat schema is a list of required or optional primitive columns: there are
no groups and no repeated fields, so values have no repetition levels and at
most one definition level.

Reading

OpenFile parses the footer of a file and exposes the descriptors of its
columns. ColumnChunk returns the pages of a column chunk as a PageSource, which
a FlatColumnReader decodes in batches of arbitrary sizes:

	f, err := parquet.OpenFile(r, size)
	...
	reader, err := parquet.NewFlatColumnReader(f.Fields()[0], parquet.Int64Decoders)
	...
	pages, err := f.ColumnChunk(0, 0)
	...
	reader.SetPageSource(pages)

Tooling

This package additionally provides tooling, similar to parquet-tools. The
program is available at ./cmd/ptools.
*/
package parquet
