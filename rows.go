package dumpfile

import (
	"fmt"
	"log/slog"

	"github.com/oseko/dumpfile/internal/blockio"
	"github.com/oseko/dumpfile/internal/directory"
	"github.com/oseko/dumpfile/internal/rowcodec"
)

// Row is one decoded record: one typed value per column in ordinal
// order. NUMBER decodes to decimal.Decimal, DATE to time.Time,
// VARCHAR2/CHAR to string, RAW to []byte; NULL is untyped nil.
type Row = rowcodec.Row

// Column describes one column of an exported table.
type Column = rowcodec.Column

// ColumnType identifies a column's source SQL type.
type ColumnType = rowcodec.Type

// RowIterator streams one table's rows, forward-only and single-pass,
// buffering one row at a time. Abandoning it early is fine; it holds no
// resources beyond its block buffer. An iterator is not safe for
// concurrent use, but every read is positioned, so each goroutine can
// open its own.
type RowIterator struct {
	table string
	inner *rowcodec.Iterator
	f     *DumpFile
}

// Rows returns an iterator over the table's data region.
func (f *DumpFile) Rows(table *TableDescriptor) (*RowIterator, error) {
	if table == nil || table.Kind != directory.KindTable {
		return nil, fmt.Errorf("descriptor %q does not describe a table", entryName(table))
	}
	scanner := blockio.NewRegionScanner(f.reader, table.FirstBlock, table.BlockCount)
	if f.metrics != nil {
		f.metrics.TablesDecoded.Inc()
	}
	f.logger.Debug("streaming table rows",
		slog.String("table", table.Name),
		slog.Uint64("first_block", table.FirstBlock),
		slog.Uint64("block_count", table.BlockCount))
	return &RowIterator{
		table: table.Name,
		inner: rowcodec.NewIterator(table.Name, table.Columns, f.text, scanner),
		f:     f,
	}, nil
}

// RowsNamed is Rows by catalog lookup.
func (f *DumpFile) RowsNamed(name string) (*RowIterator, error) {
	table, err := f.FindTable(name)
	if err != nil {
		return nil, err
	}
	return f.Rows(table)
}

// Next returns the next row. ok reports whether iteration may continue:
// a non-nil err with ok=true is a *TypeDecodingError scoped to one lost
// row, while err with ok=false ends the table (lost row boundary or
// failed block read). Rows already returned remain valid either way.
func (it *RowIterator) Next() (row Row, ok bool, err error) {
	row, ok, err = it.inner.Next()
	switch {
	case err == nil && ok:
		if it.f.metrics != nil {
			it.f.metrics.RowsDecoded.WithLabelValues(it.table).Inc()
		}
	case err != nil:
		if it.f.metrics != nil {
			it.f.metrics.RowsFailed.WithLabelValues(it.table).Inc()
		}
		it.f.logger.Warn("row decode failed",
			slog.String("table", it.table),
			slog.Bool("recovered", ok),
			slog.String("error", err.Error()))
	}
	return row, ok, err
}

func entryName(e *TableDescriptor) string {
	if e == nil {
		return ""
	}
	return e.Name
}
