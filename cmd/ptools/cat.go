// Command ptools inspects parquet files with a flat schema.
//
// The cat subcommand prints the content of a file one record at a time, in the
// format of parquet-tools' cat command:
//
//	id = 1
//	name = hello
//
// Null values are omitted and records are separated by an empty line.
package main

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"strconv"
	"time"

	"github.com/go-kit/log/level"
	"github.com/google/uuid"
	"github.com/segmentio/parquet-flat"
	"github.com/segmentio/parquet-flat/deprecated"
	"github.com/segmentio/parquet-flat/format"
)

type catFlags struct {
	_               struct{} `help:"Dump the content of the provided parquet file to stdout"`
	Debug           bool     `flag:"--debug" help:"Display debugging logs" default:"false"`
	BatchSize       int      `flag:"--batch-size" help:"Number of values read from columns at a time" default:"1024"`
	VerifyChecksums bool     `flag:"--verify-checksums" help:"Verify the CRC of pages" default:"false"`
	CPUProfile      string   `flag:"--cpu-profile" help:"Record a pprof CPU profile to the given file" default:"-"`
}

func catCommand(flags catFlags, path string) {
	logger := newLogger(flags.Debug)

	if flags.CPUProfile != "" {
		f, err := os.Create(flags.CPUProfile)
		if err != nil {
			perrorf("could not create CPU profile: %s", err)
			return
		}
		defer func() {
			if err := f.Close(); err != nil {
				perrorf("could not close CPU profile: %s", err)
			}
		}()
		if err := pprof.StartCPUProfile(f); err != nil {
			perrorf("could not start CPU profile: %s", err)
			return
		}
		level.Debug(logger).Log("msg", "started CPU profile", "path", flags.CPUProfile)
		defer pprof.StopCPUProfile()
	}

	f, closeFile, err := openFile(path,
		parquet.Logger(logger),
		parquet.VerifyChecksums(flags.VerifyChecksums),
	)
	if err != nil {
		perrorf("%s", err)
		return
	}
	defer closeFile()

	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()

	if err := cat(w, f, flags.BatchSize, parquet.Logger(logger)); err != nil {
		perrorf("error: %s", err)
	}
}

// cat writes the records of f to w, reading batchSize values from each column
// at a time.
func cat(w io.Writer, f *parquet.File, batchSize int, options ...parquet.ReaderOption) error {
	if batchSize <= 0 {
		return fmt.Errorf("invalid batch size: %d", batchSize)
	}

	fields := f.Fields()
	readers := make([]parquet.ColumnReader, len(fields))
	for i, field := range fields {
		r, err := parquet.NewColumnReader(field, options...)
		if err != nil {
			return err
		}
		readers[i] = r
	}

	p := &recordPrinter{writer: w, fields: fields}
	columns := make([]parquet.Column, len(fields))

	for rowGroup := 0; rowGroup < f.NumRowGroups(); rowGroup++ {
		for i, r := range readers {
			source, err := f.ColumnChunk(rowGroup, i)
			if err != nil {
				return err
			}
			r.SetPageSource(source)
		}

		for remaining := f.Metadata().RowGroups[rowGroup].NumRows; remaining > 0; {
			n := int(min(remaining, int64(batchSize)))
			for i, r := range readers {
				if err := r.PrepareNextRead(n); err != nil {
					return err
				}
				column, err := r.ReadColumn()
				if err != nil {
					return err
				}
				columns[i] = column
			}
			for row := 0; row < n; row++ {
				if err := p.printRecord(columns, row); err != nil {
					return err
				}
			}
			remaining -= int64(n)
		}
	}
	return nil
}

type recordPrinter struct {
	writer  io.Writer
	fields  []parquet.Field
	scratch []byte
}

func (p *recordPrinter) printRecord(columns []parquet.Column, row int) error {
	b := p.scratch[:0]
	for i, column := range columns {
		if column.IsNull(row) {
			continue
		}
		b = append(b, p.fields[i].Name...)
		b = append(b, " = "...)
		b = appendValue(b, p.fields[i], column.Any(row))
		b = append(b, '\n')
	}
	b = append(b, '\n')
	p.scratch = b
	_, err := p.writer.Write(b)
	return err
}

func appendValue(b []byte, field parquet.Field, value any) []byte {
	switch v := value.(type) {
	case bool:
		return strconv.AppendBool(b, v)
	case int32:
		if t := field.LogicalType; t != nil && t.Date != nil {
			return time.Unix(int64(v)*86400, 0).UTC().AppendFormat(b, time.DateOnly)
		}
		return strconv.AppendInt(b, int64(v), 10)
	case int64:
		return strconv.AppendInt(b, v, 10)
	case deprecated.Int96:
		return v.Time().UTC().AppendFormat(b, time.RFC3339Nano)
	case float32:
		return strconv.AppendFloat(b, float64(v), 'g', -1, 32)
	case float64:
		return strconv.AppendFloat(b, v, 'g', -1, 64)
	case []byte:
		return appendBytes(b, field, v)
	default:
		return fmt.Appendf(b, "%v", v)
	}
}

func appendBytes(b []byte, field parquet.Field, v []byte) []byte {
	if t := field.LogicalType; t != nil {
		switch {
		case t.UTF8 != nil, t.Enum != nil, t.Json != nil:
			return append(b, v...)
		case t.UUID != nil && field.Type == format.FixedLenByteArray:
			if id, err := uuid.FromBytes(v); err == nil {
				return append(b, id.String()...)
			}
		}
	}
	return base64.StdEncoding.AppendEncode(b, v)
}
