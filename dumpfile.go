// Package dumpfile decodes proprietary block-structured export files
// produced by a relational database bulk-export utility: the file
// header, the embedded master-table catalog of exported objects, and
// per-table typed row data. It never shells out and never writes; an
// opened file is read-only for its whole lifetime.
package dumpfile

import (
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/oseko/dumpfile/internal/blockio"
	"github.com/oseko/dumpfile/internal/directory"
	"github.com/oseko/dumpfile/internal/format"
)

// BlockSource is the byte source an export file is decoded from. It
// must support positioned reads; see blockio.FileSource for the file
// implementation and Open for the common path.
type BlockSource = blockio.Source

// DirectoryEntry is one exported-object record from the master table.
type DirectoryEntry = directory.Entry

// DirectoryResult is the tagged per-entry decode outcome: a usable
// entry, or the reason the entry was skipped.
type DirectoryResult = directory.Result

// SkipReason records why a directory entry was skipped.
type SkipReason = directory.SkipReason

// TableDescriptor names a table, its ordered column schema, and the
// block range holding its row data. It is a view over the decoded
// directory and holds no row data itself.
type TableDescriptor = directory.Entry

// DumpFile is an opened export file. All accessors are pure reads over
// state decoded once at open; row data is decoded lazily per Rows call.
// A DumpFile may be shared by concurrent readers, but each goroutine
// must use its own RowIterator.
type DumpFile struct {
	id      uuid.UUID
	header  *format.Header
	reader  *blockio.Reader
	text    *format.TextDecoder
	catalog *directory.Catalog
	logger  *slog.Logger
	metrics *Metrics
}

// Open decodes the header and directory of the export file at path.
// The returned DumpFile owns the underlying file; Close releases it.
func Open(path string, opts ...Option) (*DumpFile, error) {
	src, err := blockio.OpenFileSource(path)
	if err != nil {
		return nil, err
	}
	return New(src, opts...)
}

// New is Open for a caller-provided byte source. New takes ownership of
// src: it is closed on every failure path as well as by Close.
func New(src BlockSource, opts ...Option) (*DumpFile, error) {
	o := buildOptions(opts)

	f, err := open(src, o)
	if err != nil {
		src.Close()
		if o.metrics != nil {
			o.metrics.FilesRejected.Inc()
		}
		return nil, err
	}
	if o.metrics != nil {
		o.metrics.FilesOpened.Inc()
		for _, res := range f.catalog.Results() {
			if res.Skip != nil {
				o.metrics.EntriesSkipped.Inc()
			}
		}
	}
	return f, nil
}

func open(src BlockSource, o options) (*DumpFile, error) {
	headerLen := format.MinBlockSize
	if src.Size() < uint64(headerLen) {
		headerLen = int(src.Size())
	}
	headerBlock, err := src.ReadBlock(0, headerLen)
	if err != nil {
		return nil, err
	}
	header, err := format.DecodeHeader(headerBlock)
	if err != nil {
		return nil, err
	}

	text, err := format.NewTextDecoder(header.CharacterSet)
	if err != nil {
		return nil, err
	}

	f := &DumpFile{
		id:      uuid.New(),
		header:  header,
		reader:  blockio.NewReader(src, header.BlockSize),
		text:    text,
		logger:  o.logger,
		metrics: o.metrics,
	}
	f.logger = f.logger.With(slog.String("dump", f.id.String()))

	// The directory decode is a one-time sequential pass; row decoding
	// depends on the schemas it resolves, so it runs eagerly here.
	f.catalog, err = directory.Decode(f.reader, header, text, f.logger)
	if err != nil {
		return nil, err
	}

	f.logger.Info("opened export file",
		slog.String("version", header.Banner),
		slog.String("charset", header.CharacterSet),
		slog.Int("block_size", int(header.BlockSize)),
		slog.Bool("master_table", header.MasterTable))
	return f, nil
}

// Close releases the underlying byte source. The catalog stays readable
// but row iteration fails once the source is gone.
func (f *DumpFile) Close() error {
	return f.reader.Close()
}

// VersionName returns the human-readable version name recorded by the
// exporter, e.g. "Oracle 12c Release 1: 12.1.0".
func (f *DumpFile) VersionName() string {
	return f.header.Banner
}

// ExportDate returns the export timestamp verbatim as the exporter
// wrote it, e.g. "Wed May 23 14:34:07 EDT 2018".
func (f *DumpFile) ExportDate() string {
	return f.header.ExportDate
}

// ExportTime parses ExportDate; ok is false when the recorded string
// does not follow the exporter's usual layout.
func (f *DumpFile) ExportTime() (t time.Time, ok bool) {
	return f.header.ExportTime()
}

// CharacterSet returns the character-set identifier governing text
// column values, e.g. "AL32UTF8".
func (f *DumpFile) CharacterSet() string {
	return f.header.CharacterSet
}

// BlockSize returns the fixed block size in bytes.
func (f *DumpFile) BlockSize() uint32 {
	return f.header.BlockSize
}

// HasMasterTable reports whether the file carries a master table.
func (f *DumpFile) HasMasterTable() bool {
	return f.header.MasterTable
}

// Entries returns the per-entry directory decode outcomes in master
// table order. Each call re-derives the slice from the directory decoded
// at open; the file is never re-read.
func (f *DumpFile) Entries() []DirectoryResult {
	return slices.Clone(f.catalog.Results())
}

// Tables returns the successfully decoded table-kind entries in master
// table order.
func (f *DumpFile) Tables() []*TableDescriptor {
	return f.catalog.Tables()
}

// FindTable returns the table with the exact, case-sensitive name, or
// an *UnknownTableError.
func (f *DumpFile) FindTable(name string) (*TableDescriptor, error) {
	return f.catalog.Find(name)
}
