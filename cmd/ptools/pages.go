package main

import (
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/segmentio/parquet-flat"
)

type pagesFlags struct {
	_               struct{} `help:"List the pages of the column chunks of the provided parquet file"`
	Debug           bool     `flag:"--debug" help:"Display debugging logs" default:"false"`
	VerifyChecksums bool     `flag:"--verify-checksums" help:"Verify the CRC of pages" default:"false"`
}

func pagesCommand(flags pagesFlags, path string) {
	logger := newLogger(flags.Debug)

	f, closeFile, err := openFile(path,
		parquet.Logger(logger),
		parquet.VerifyChecksums(flags.VerifyChecksums),
	)
	if err != nil {
		perrorf("%s", err)
		return
	}
	defer closeFile()

	if err := pages(os.Stdout, f); err != nil {
		perrorf("error: %s", err)
	}
}

// pages writes a table describing each page of f to w.
func pages(w io.Writer, f *parquet.File) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"row group", "column", "page", "type", "encoding", "values", "nulls", "size"})
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	for rowGroup := 0; rowGroup < f.NumRowGroups(); rowGroup++ {
		for column, field := range f.Fields() {
			source, err := f.ColumnChunk(rowGroup, column)
			if err != nil {
				return err
			}
			row := func(page, typ, encoding string, values int, nulls string, size int) {
				table.Append([]string{
					strconv.Itoa(rowGroup),
					field.Name,
					page,
					typ,
					encoding,
					strconv.Itoa(values),
					nulls,
					strconv.Itoa(size),
				})
			}

			dict, err := source.DictionaryPage()
			if err != nil {
				return err
			}
			if dict != nil {
				row("-", dict.Type().String(), dict.Encoding().String(), dict.NumValues(), "-", len(dict.Data()))
			}

			for i := 0; source.HasNext(); i++ {
				page, err := source.NextPage()
				if err != nil {
					return err
				}
				nulls := "-"
				if v2, ok := page.(*parquet.DataPageV2); ok {
					nulls = strconv.Itoa(v2.NumNulls())
				}
				row(strconv.Itoa(i), page.Type().String(), page.Encoding().String(), page.NumValues(), nulls, page.UncompressedSize())
			}
		}
	}

	table.Render()
	return nil
}
