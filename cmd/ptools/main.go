package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	color "github.com/logrusorgru/aurora/v3"
	"github.com/segmentio/cli"
	"github.com/segmentio/parquet-flat"
)

func main() {
	cli.Exec(cli.CommandSet{
		"cat":   cli.Command(catCommand),
		"pages": cli.Command(pagesCommand),
	})
}

func perrorf(format string, args ...interface{}) {
	if !strings.HasSuffix(format, "\n") {
		format += "\n"
	}
	_, _ = fmt.Fprintf(os.Stderr, color.Red(format).String(), args...)
}

func newLogger(debug bool) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)
	if debug {
		return level.NewFilter(logger, level.AllowDebug())
	}
	return level.NewFilter(logger, level.AllowInfo())
}

// openFile opens the parquet file at path. The returned function closes it.
func openFile(path string, options ...parquet.ReaderOption) (*parquet.File, func(), error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("could not open file: %w", err)
	}
	closeFile := func() {
		if err := file.Close(); err != nil {
			perrorf("could not close file: %s", err)
		}
	}
	stat, err := file.Stat()
	if err != nil {
		closeFile()
		return nil, nil, err
	}
	f, err := parquet.OpenFile(file, stat.Size(), options...)
	if err != nil {
		closeFile()
		return nil, nil, fmt.Errorf("could not parse parquet file: %w", err)
	}
	return f, closeFile, nil
}
