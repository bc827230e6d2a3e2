package dumpfile

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics for the decoder.
type Metrics struct {
	RowsDecoded    *prometheus.CounterVec
	RowsFailed     *prometheus.CounterVec
	EntriesSkipped prometheus.Counter
	FilesOpened    prometheus.Counter
	FilesRejected  prometheus.Counter
	TablesDecoded  prometheus.Counter
}

// NewMetrics creates and registers all metrics with the provided registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	rowsDecoded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dumpfile_rows_decoded_total",
		Help: "Rows successfully decoded, per table",
	}, []string{"table"})

	rowsFailed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dumpfile_rows_failed_total",
		Help: "Rows that failed to decode, per table",
	}, []string{"table"})

	entriesSkipped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dumpfile_directory_entries_skipped_total",
		Help: "Master table rows skipped as malformed or unsupported",
	})

	filesOpened := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dumpfile_files_opened_total",
		Help: "Export files opened successfully",
	})

	filesRejected := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dumpfile_files_rejected_total",
		Help: "Export files rejected at open time",
	})

	tablesDecoded := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dumpfile_tables_decoded_total",
		Help: "Table row iterations started",
	})

	reg.MustRegister(rowsDecoded, rowsFailed, entriesSkipped, filesOpened, filesRejected, tablesDecoded)

	return &Metrics{
		RowsDecoded:    rowsDecoded,
		RowsFailed:     rowsFailed,
		EntriesSkipped: entriesSkipped,
		FilesOpened:    filesOpened,
		FilesRejected:  filesRejected,
		TablesDecoded:  tablesDecoded,
	}
}
