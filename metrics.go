package parquet

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/segmentio/parquet-flat/format"
)

// Metrics holds the Prometheus metrics updated by readers.
//
// A nil *Metrics is valid and discards all updates.
type Metrics struct {
	PagesRead             *prometheus.CounterVec
	PageBytesDecompressed *prometheus.CounterVec
	ValuesRead            prometheus.Counter
	ValuesSkipped         prometheus.Counter
}

// NewMetrics creates and registers all metrics with the provided registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	pagesRead := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "parquet_flat_pages_read_total",
		Help: "Total pages handed out by page readers",
	}, []string{"type"})

	pageBytesDecompressed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "parquet_flat_page_bytes_decompressed_total",
		Help: "Total bytes produced by page decompression",
	}, []string{"codec"})

	valuesRead := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "parquet_flat_values_read_total",
		Help: "Total values, including nulls, returned by column readers",
	})

	valuesSkipped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "parquet_flat_values_skipped_total",
		Help: "Total values skipped by column readers",
	})

	reg.MustRegister(pagesRead, pageBytesDecompressed, valuesRead, valuesSkipped)

	return &Metrics{
		PagesRead:             pagesRead,
		PageBytesDecompressed: pageBytesDecompressed,
		ValuesRead:            valuesRead,
		ValuesSkipped:         valuesSkipped,
	}
}

func (m *Metrics) pageRead(t format.PageType) {
	if m != nil {
		m.PagesRead.WithLabelValues(t.String()).Inc()
	}
}

func (m *Metrics) pageDecompressed(codec format.CompressionCodec, size int) {
	if m != nil {
		m.PageBytesDecompressed.WithLabelValues(codec.String()).Add(float64(size))
	}
}

func (m *Metrics) valuesRead(n int) {
	if m != nil {
		m.ValuesRead.Add(float64(n))
	}
}

func (m *Metrics) valuesSkipped(n int) {
	if m != nil {
		m.ValuesSkipped.Add(float64(n))
	}
}
