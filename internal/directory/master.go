package directory

import (
	"fmt"

	"github.com/oseko/dumpfile/internal/format"
	"github.com/oseko/dumpfile/internal/rowcodec"
)

// Object kinds recorded in the master table. Only KindTable entries are
// targets of row decoding; the rest are carried for catalog completeness.
const (
	KindTable      = "TABLE"
	KindIndex      = "INDEX"
	KindConstraint = "CONSTRAINT"
	KindSequence   = "SEQUENCE"
)

// masterColumns is the built-in schema of the master table itself. The
// master table is encoded with the ordinary row codec; this schema is
// what bootstraps decoding it.
func masterColumns() []rowcodec.Column {
	return []rowcodec.Column{
		{Name: "OBJ_NAME", Type: rowcodec.TypeVarchar, Length: 128, Ordinal: 0},
		{Name: "OBJ_KIND", Type: rowcodec.TypeVarchar, Length: 30, Ordinal: 1},
		{Name: "DEFINITION", Type: rowcodec.TypeVarchar, Length: 4000, Nullable: true, Ordinal: 2},
		{Name: "COLUMNS", Type: rowcodec.TypeRaw, Length: 4000, Nullable: true, Ordinal: 3},
		{Name: "START_BLK", Type: rowcodec.TypeNumber, Nullable: true, Ordinal: 4},
		{Name: "BLK_CNT", Type: rowcodec.TypeNumber, Nullable: true, Ordinal: 5},
		{Name: "ROW_CNT", Type: rowcodec.TypeNumber, Nullable: true, Ordinal: 6},
	}
}

// MaxColumns caps the column count a packed schema may declare.
const MaxColumns = 1000

// decodeColumnSchema unpacks the COLUMNS payload of a table entry:
// a u16 column count, then per column a length-prefixed name, a type
// code, the declared length, precision, scale, and a nullability byte.
func decodeColumnSchema(raw []byte, text *format.TextDecoder) ([]rowcodec.Column, error) {
	if len(raw) < 2 {
		return nil, fmt.Errorf("packed column schema too short")
	}
	count := int(format.ByteOrder.Uint16(raw[0:2]))
	if count == 0 || count > MaxColumns {
		return nil, fmt.Errorf("packed column schema declares %d columns", count)
	}
	pos := 2

	columns := make([]rowcodec.Column, 0, count)
	for i := 0; i < count; i++ {
		if pos+2 > len(raw) {
			return nil, fmt.Errorf("packed column schema truncated at column %d", i)
		}
		nameLen := int(format.ByteOrder.Uint16(raw[pos : pos+2]))
		pos += 2
		if pos+nameLen+10 > len(raw) {
			return nil, fmt.Errorf("packed column schema truncated at column %d", i)
		}
		name, ok := text.Decode(raw[pos : pos+nameLen])
		if !ok || name == "" {
			return nil, fmt.Errorf("column %d has an undecodable name", i)
		}
		pos += nameLen

		col := rowcodec.Column{
			Name:    name,
			Type:    rowcodec.Type(raw[pos]),
			Length:  format.ByteOrder.Uint32(raw[pos+1 : pos+5]),
			Ordinal: i,
		}
		precision := format.ByteOrder.Uint16(raw[pos+5 : pos+7])
		if precision == 0xFFFF {
			col.Precision = rowcodec.PrecisionUnspecified
		} else {
			col.Precision = int(precision)
		}
		scale := int16(format.ByteOrder.Uint16(raw[pos+7 : pos+9]))
		if scale == 0x7FFF {
			col.Scale = rowcodec.ScaleUnspecified
		} else {
			col.Scale = int(scale)
		}
		col.Nullable = raw[pos+9] != 0
		pos += 10

		if !col.Type.Known() {
			return nil, fmt.Errorf("column %s has unsupported type code %d", name, col.Type)
		}
		columns = append(columns, col)
	}
	return columns, nil
}
