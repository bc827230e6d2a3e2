// Package dumpgen builds export files in the exact on-disk layout the
// decoder reads. It exists for tests: fixtures built here are bit-exact,
// so decoder tests never depend on binary blobs checked into the tree.
package dumpgen

import (
	"fmt"

	"github.com/oseko/dumpfile/internal/directory"
	"github.com/oseko/dumpfile/internal/format"
	"github.com/oseko/dumpfile/internal/rowcodec"
)

// Object is one exported object to record in the master table.
type Object struct {
	Name       string
	Kind       string // directory.KindTable etc.
	Definition string

	// Table-kind objects only.
	Columns []rowcodec.Column
	Rows    [][]any
}

// Region reports where an object's row data landed in the built file.
type Region struct {
	FirstBlock uint64
	BlockCount uint64
	// RowOffsets holds the absolute byte offset of each row's marker
	// byte, for tests that corrupt specific rows.
	RowOffsets []uint64
}

// Builder assembles an export file block by block.
type Builder struct {
	BlockSize    uint32
	VersionCode  uint16
	Banner       string
	ExportDate   string
	CharacterSet string

	// ExtraFlags is OR-ed into the header flags; tests use it to mark
	// a file compressed, encrypted, or multi-part.
	ExtraFlags uint16

	// NoMasterTable drops the master table and its header flag.
	NoMasterTable bool

	// Master reports where the master table landed; set by Bytes.
	Master Region

	objects []Object
	regions map[string]Region
}

// NewBuilder returns a builder with the defaults the tests share.
func NewBuilder() *Builder {
	return &Builder{
		BlockSize:    4096,
		VersionCode:  0x0C01,
		Banner:       "Oracle 12c Release 1: 12.1.0",
		ExportDate:   "Wed May 23 14:34:07 EDT 2018",
		CharacterSet: "AL32UTF8",
		regions:      make(map[string]Region),
	}
}

// Add appends an object to the export in master-table order.
func (b *Builder) Add(obj Object) *Builder {
	b.objects = append(b.objects, obj)
	return b
}

// AddTable is Add for the common table case.
func (b *Builder) AddTable(name string, columns []rowcodec.Column, rows [][]any) *Builder {
	return b.Add(Object{Name: name, Kind: directory.KindTable, Columns: columns, Rows: rows})
}

// Region returns where the named object's rows were placed. Only valid
// after Bytes.
func (b *Builder) Region(name string) Region {
	return b.regions[name]
}

// Bytes lays the export out and returns the file image: header block,
// one padded region per table, master table region last.
func (b *Builder) Bytes() []byte {
	blockSize := uint64(b.BlockSize)

	// Table data regions, assigned block ranges after block 0.
	nextBlock := uint64(1)
	var regions [][]byte
	for i := range b.objects {
		obj := &b.objects[i]
		if obj.Kind != directory.KindTable {
			continue
		}
		body, rowOffs := EncodeRows(obj.Columns, obj.Rows)
		body = pad(body, blockSize)

		reg := Region{
			FirstBlock: nextBlock,
			BlockCount: uint64(len(body)) / blockSize,
		}
		base := reg.FirstBlock * blockSize
		for _, off := range rowOffs {
			reg.RowOffsets = append(reg.RowOffsets, base+off)
		}
		b.regions[obj.Name] = reg
		regions = append(regions, body)
		nextBlock += reg.BlockCount
	}

	// Master table region.
	var masterBody []byte
	masterFirst, masterCount := uint64(0), uint64(0)
	masterRows := 0
	if !b.NoMasterTable {
		var rows [][]any
		for _, obj := range b.objects {
			rows = append(rows, b.masterRow(obj))
		}
		masterRows = len(rows)
		var rowOffs []uint64
		masterBody, rowOffs = EncodeRows(masterSchema(), rows)
		masterBody = pad(masterBody, blockSize)
		masterFirst = nextBlock
		masterCount = uint64(len(masterBody)) / blockSize

		b.Master = Region{FirstBlock: masterFirst, BlockCount: masterCount}
		for _, off := range rowOffs {
			b.Master.RowOffsets = append(b.Master.RowOffsets, masterFirst*blockSize+off)
		}
	}

	header := b.header(masterFirst, masterCount, uint32(masterRows))

	out := pad(header, blockSize)
	for _, reg := range regions {
		out = append(out, reg...)
	}
	out = append(out, masterBody...)
	return out
}

func (b *Builder) header(masterFirst, masterCount uint64, masterRows uint32) []byte {
	flags := b.ExtraFlags
	if !b.NoMasterTable {
		flags |= format.FlagMasterTable
	}

	h := make([]byte, 36)
	copy(h[0:8], format.Magic[:])
	format.ByteOrder.PutUint16(h[8:10], b.VersionCode)
	format.ByteOrder.PutUint16(h[10:12], flags)
	format.ByteOrder.PutUint32(h[12:16], b.BlockSize)
	format.ByteOrder.PutUint64(h[16:24], masterFirst)
	format.ByteOrder.PutUint64(h[24:32], masterCount)
	format.ByteOrder.PutUint32(h[32:36], masterRows)
	h = appendString(h, b.Banner)
	h = appendString(h, b.ExportDate)
	h = appendString(h, b.CharacterSet)
	if len(h) > format.MinBlockSize {
		panic(fmt.Sprintf("dumpgen: header %d bytes exceeds %d", len(h), format.MinBlockSize))
	}
	return h
}

// masterRow converts an object into its master-table row values.
func (b *Builder) masterRow(obj Object) []any {
	row := []any{obj.Name, obj.Kind, nil, nil, nil, nil, nil}
	if obj.Definition != "" {
		row[2] = obj.Definition
	}
	if obj.Kind == directory.KindTable {
		reg := b.regions[obj.Name]
		if len(obj.Columns) > 0 {
			row[3] = packColumns(obj.Columns)
		}
		row[4] = int64(reg.FirstBlock)
		row[5] = int64(reg.BlockCount)
		row[6] = int64(len(obj.Rows))
	}
	return row
}

// masterSchema mirrors the decoder's built-in master table schema.
func masterSchema() []rowcodec.Column {
	return []rowcodec.Column{
		{Name: "OBJ_NAME", Type: rowcodec.TypeVarchar, Ordinal: 0},
		{Name: "OBJ_KIND", Type: rowcodec.TypeVarchar, Ordinal: 1},
		{Name: "DEFINITION", Type: rowcodec.TypeVarchar, Nullable: true, Ordinal: 2},
		{Name: "COLUMNS", Type: rowcodec.TypeRaw, Nullable: true, Ordinal: 3},
		{Name: "START_BLK", Type: rowcodec.TypeNumber, Nullable: true, Ordinal: 4},
		{Name: "BLK_CNT", Type: rowcodec.TypeNumber, Nullable: true, Ordinal: 5},
		{Name: "ROW_CNT", Type: rowcodec.TypeNumber, Nullable: true, Ordinal: 6},
	}
}

// packColumns writes the COLUMNS payload of a table's master row.
func packColumns(columns []rowcodec.Column) []byte {
	out := make([]byte, 2)
	format.ByteOrder.PutUint16(out, uint16(len(columns)))
	for _, col := range columns {
		out = appendString(out, col.Name)
		out = append(out, byte(col.Type))

		var fixed [9]byte
		format.ByteOrder.PutUint32(fixed[0:4], col.Length)
		precision := uint16(0xFFFF)
		if col.Precision != rowcodec.PrecisionUnspecified {
			precision = uint16(col.Precision)
		}
		format.ByteOrder.PutUint16(fixed[4:6], precision)
		scale := uint16(0x7FFF)
		if col.Scale != rowcodec.ScaleUnspecified {
			scale = uint16(int16(col.Scale))
		}
		format.ByteOrder.PutUint16(fixed[6:8], scale)
		if col.Nullable {
			fixed[8] = 1
		}
		out = append(out, fixed[:]...)
	}
	return out
}

func appendString(out []byte, s string) []byte {
	var n [2]byte
	format.ByteOrder.PutUint16(n[:], uint16(len(s)))
	out = append(out, n[:]...)
	return append(out, s...)
}

// pad extends body with zero bytes to a whole number of blocks. The
// zero byte doubles as the end-of-rows marker, which EncodeRows has
// already written, so padding is inert.
func pad(body []byte, blockSize uint64) []byte {
	rem := uint64(len(body)) % blockSize
	if rem != 0 {
		body = append(body, make([]byte, blockSize-rem)...)
	}
	if len(body) == 0 {
		body = make([]byte, blockSize)
	}
	return body
}
