package parquet

import (
	"fmt"
	"strings"

	"github.com/go-kit/log"
)

const (
	// DefaultChunkBufferSize is the default size of the buffer used to read
	// column chunks from files.
	DefaultChunkBufferSize = 1024 * 1024
)

// The ReaderConfig type carries configuration options for column readers,
// page readers and files.
//
// ReaderConfig implements the ReaderOption interface so it can be used directly
// as argument to the constructors when needed, for example:
//
//	reader, err := parquet.NewFlatColumnReader(field, parquet.Int32Decoders, &parquet.ReaderConfig{
//		Logger: logger,
//	})
type ReaderConfig struct {
	// Logger receives debug lines about page transitions, dictionary loads
	// and page decompression.
	Logger log.Logger
	// Metrics, when not nil, counts the pages and values read.
	Metrics *Metrics
	// VerifyChecksums enables the verification of the page CRCs written in
	// page headers.
	VerifyChecksums bool
	// ChunkBufferSize is the size of the buffered reader used to scan column
	// chunks of files.
	ChunkBufferSize int
}

// DefaultReaderConfig returns a new ReaderConfig value initialized with the
// default reader configuration.
func DefaultReaderConfig() *ReaderConfig {
	return &ReaderConfig{
		Logger:          log.NewNopLogger(),
		ChunkBufferSize: DefaultChunkBufferSize,
	}
}

// NewReaderConfig constructs a new reader configuration applying the options
// passed as arguments on top of the defaults.
//
// The function returns an non-nil error if some of the options carried
// invalid configuration values.
func NewReaderConfig(options ...ReaderOption) (*ReaderConfig, error) {
	config := DefaultReaderConfig()
	config.Apply(options...)
	return config, config.Validate()
}

// Apply applies the given list of options to c.
func (c *ReaderConfig) Apply(options ...ReaderOption) {
	for _, opt := range options {
		opt.ConfigureReader(c)
	}
}

// ConfigureReader applies configuration options from c to config.
func (c *ReaderConfig) ConfigureReader(config *ReaderConfig) {
	*config = ReaderConfig{
		Logger:          coalesceLogger(c.Logger, config.Logger),
		Metrics:         coalesceMetrics(c.Metrics, config.Metrics),
		VerifyChecksums: c.VerifyChecksums || config.VerifyChecksums,
		ChunkBufferSize: coalesceInt(c.ChunkBufferSize, config.ChunkBufferSize),
	}
}

// Validate returns a non-nil error if the configuration of c is invalid.
func (c *ReaderConfig) Validate() error {
	const baseName = "parquet.(*ReaderConfig)."
	return errorInvalidConfiguration(
		validateNotNil(baseName+"Logger", c.Logger),
		validatePositiveInt(baseName+"ChunkBufferSize", c.ChunkBufferSize),
	)
}

// ReaderOption is an interface implemented by types that carry configuration
// options for parquet readers.
type ReaderOption interface {
	ConfigureReader(*ReaderConfig)
}

// Logger configures the logger of readers.
//
// Defaults to a logger discarding all log lines.
func Logger(logger log.Logger) ReaderOption {
	return readerOption(func(config *ReaderConfig) { config.Logger = logger })
}

// WithMetrics configures readers to report their activity to m.
//
// By default, no metrics are collected.
func WithMetrics(m *Metrics) ReaderOption {
	return readerOption(func(config *ReaderConfig) { config.Metrics = m })
}

// VerifyChecksums configures readers to verify the CRC of pages which carry
// one.
//
// Defaults to false.
func VerifyChecksums(verify bool) ReaderOption {
	return readerOption(func(config *ReaderConfig) { config.VerifyChecksums = verify })
}

// ChunkBufferSize configures the size of the buffers used to read column
// chunks from files.
//
// Defaults to 1 MiB.
type ChunkBufferSize int

func (size ChunkBufferSize) ConfigureReader(config *ReaderConfig) {
	config.ChunkBufferSize = int(size)
}

type readerOption func(*ReaderConfig)

func (opt readerOption) ConfigureReader(config *ReaderConfig) { opt(config) }

func coalesceInt(i1, i2 int) int {
	if i1 != 0 {
		return i1
	}
	return i2
}

func coalesceLogger(l1, l2 log.Logger) log.Logger {
	if l1 != nil {
		return l1
	}
	return l2
}

func coalesceMetrics(m1, m2 *Metrics) *Metrics {
	if m1 != nil {
		return m1
	}
	return m2
}

func validatePositiveInt(optionName string, optionValue int) error {
	if optionValue > 0 {
		return nil
	}
	return errorInvalidOptionValue(optionName, optionValue)
}

func validateNotNil(optionName string, optionValue interface{}) error {
	if optionValue != nil {
		return nil
	}
	return errorInvalidOptionValue(optionName, optionValue)
}

func errorInvalidOptionValue(optionName string, optionValue interface{}) error {
	return fmt.Errorf("invalid option value: %s: %v", optionName, optionValue)
}

func errorInvalidConfiguration(reasons ...error) error {
	var err *invalidConfiguration

	for _, reason := range reasons {
		if reason != nil {
			if err == nil {
				err = new(invalidConfiguration)
			}
			err.reasons = append(err.reasons, reason)
		}
	}

	if err != nil {
		return err
	}

	return nil
}

type invalidConfiguration struct {
	reasons []error
}

func (err *invalidConfiguration) Error() string {
	errorMessage := new(strings.Builder)
	for _, reason := range err.reasons {
		errorMessage.WriteString(reason.Error())
		errorMessage.WriteString("\n")
	}
	errorString := errorMessage.String()
	if errorString != "" {
		errorString = errorString[:len(errorString)-1]
	}
	return errorString
}
