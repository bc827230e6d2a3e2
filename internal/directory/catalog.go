package directory

import (
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/oseko/dumpfile/internal/blockio"
	"github.com/oseko/dumpfile/internal/format"
	"github.com/oseko/dumpfile/internal/rowcodec"
)

// Entry is one exported-object record decoded from the master table.
type Entry struct {
	Name       string
	Kind       string
	Definition string

	// Table-kind entries only.
	Columns    []rowcodec.Column
	FirstBlock uint64
	BlockCount uint64
	RowCount   int64 // -1 when the exporter did not record it
}

// SkipReason records a master-table row that did not decode into a
// usable entry. Skipped rows never hide the rest of the catalog.
type SkipReason struct {
	Ordinal int    // zero-based master row index
	Name    string // object name, when it was readable
	Reason  string
}

// Result is the tagged outcome of decoding one master-table row:
// exactly one of Entry and Skip is set.
type Result struct {
	Entry *Entry
	Skip  *SkipReason
}

// UnknownTableError reports a lookup for a table name the catalog does
// not contain. Matching is exact and case-sensitive, the way the export
// stores object names.
type UnknownTableError struct {
	Name string
}

func (e *UnknownTableError) Error() string {
	return fmt.Sprintf("no table named %q in export catalog", e.Name)
}

// Catalog is the decoded directory of exported objects. It is built
// once per open file and never re-reads the file afterwards.
type Catalog struct {
	results []Result
	tables  map[string]*Entry // table-kind entries, insertion order preserved in results
}

// Results returns the per-row decode outcomes in master-table order.
// The slice is cached; callers must treat it as read-only.
func (c *Catalog) Results() []Result {
	return c.results
}

// Tables returns the successfully decoded table-kind entries in
// master-table order.
func (c *Catalog) Tables() []*Entry {
	var out []*Entry
	for _, res := range c.results {
		if res.Entry != nil && res.Entry.Kind == KindTable {
			out = append(out, res.Entry)
		}
	}
	return out
}

// Find returns the table-kind entry with the exact given name.
func (c *Catalog) Find(name string) (*Entry, error) {
	e, ok := c.tables[name]
	if !ok {
		return nil, &UnknownTableError{Name: name}
	}
	return e, nil
}

// Decode reads and decodes the master table region. It fails only when
// the directory itself is unlocatable or loses row alignment; individual
// malformed rows are recorded as skips.
func Decode(r *blockio.Reader, h *format.Header, text *format.TextDecoder, logger *slog.Logger) (*Catalog, error) {
	cat := &Catalog{tables: make(map[string]*Entry)}
	if !h.MasterTable {
		return cat, nil
	}

	if h.MasterBlockCount == 0 || h.MasterFirstBlock+h.MasterBlockCount > r.Blocks() {
		return nil, &format.FormatError{
			Reason: fmt.Sprintf("master table region (blocks %d+%d) outside file bounds", h.MasterFirstBlock, h.MasterBlockCount),
		}
	}

	scanner := blockio.NewRegionScanner(r, h.MasterFirstBlock, h.MasterBlockCount)
	it := rowcodec.NewIterator("SYS_EXPORT_MASTER", masterColumns(), text, scanner)

	ordinal := 0
	for {
		row, ok, err := it.Next()
		if !ok {
			if err != nil {
				return nil, err
			}
			break
		}
		if err != nil {
			cat.record(ordinal, Result{Skip: &SkipReason{Ordinal: ordinal, Reason: err.Error()}}, logger)
			ordinal++
			continue
		}
		cat.record(ordinal, entryFromRow(ordinal, row, text, r.Blocks()), logger)
		ordinal++
	}

	logger.Debug("decoded export directory",
		slog.Int("entries", len(cat.results)),
		slog.Int("tables", len(cat.tables)))
	return cat, nil
}

func (c *Catalog) record(ordinal int, res Result, logger *slog.Logger) {
	if res.Entry != nil && res.Entry.Kind == KindTable {
		if _, dup := c.tables[res.Entry.Name]; dup {
			res = Result{Skip: &SkipReason{
				Ordinal: ordinal,
				Name:    res.Entry.Name,
				Reason:  fmt.Sprintf("duplicate table name %q", res.Entry.Name),
			}}
		} else {
			c.tables[res.Entry.Name] = res.Entry
		}
	}
	if res.Skip != nil {
		logger.Warn("skipping directory entry",
			slog.Int("ordinal", res.Skip.Ordinal),
			slog.String("object", res.Skip.Name),
			slog.String("reason", res.Skip.Reason))
	}
	c.results = append(c.results, res)
}

// entryFromRow converts one decoded master row into an Entry, or a skip
// when the row's values do not add up to a usable object record.
func entryFromRow(ordinal int, row rowcodec.Row, text *format.TextDecoder, fileBlocks uint64) Result {
	skip := func(name, reason string) Result {
		return Result{Skip: &SkipReason{Ordinal: ordinal, Name: name, Reason: reason}}
	}

	name, ok := row[0].(string)
	if !ok || name == "" {
		return skip("", "object name missing")
	}
	kind, ok := row[1].(string)
	if !ok || kind == "" {
		return skip(name, "object kind missing")
	}

	entry := &Entry{Name: name, Kind: kind, RowCount: -1}
	if def, ok := row[2].(string); ok {
		entry.Definition = def
	}

	if kind != KindTable {
		return Result{Entry: entry}
	}

	packed, ok := row[3].([]byte)
	if !ok {
		return skip(name, "table entry has no column schema")
	}
	columns, err := decodeColumnSchema(packed, text)
	if err != nil {
		return skip(name, err.Error())
	}
	entry.Columns = columns

	first, ok := asUint64(row[4])
	if !ok {
		return skip(name, "table entry has no data location")
	}
	count, ok := asUint64(row[5])
	if !ok || count == 0 {
		return skip(name, "table entry has no data block count")
	}
	if first+count > fileBlocks {
		return skip(name, fmt.Sprintf("data region (blocks %d+%d) outside file bounds", first, count))
	}
	entry.FirstBlock = first
	entry.BlockCount = count

	if n, ok := asUint64(row[6]); ok {
		entry.RowCount = int64(n)
	}
	return Result{Entry: entry}
}

// asUint64 narrows a decoded NUMBER value to a non-negative integer.
func asUint64(v any) (uint64, bool) {
	d, ok := v.(decimal.Decimal)
	if !ok {
		return 0, false
	}
	if d.IsNegative() || !d.IsInteger() {
		return 0, false
	}
	return uint64(d.IntPart()), true
}
