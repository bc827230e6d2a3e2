package rowcodec

// Type identifies the source SQL type of a column. The numeric values
// are the type codes recorded in the export's packed column schemas.
type Type uint8

const (
	TypeVarchar Type = 1
	TypeNumber  Type = 2
	TypeDate    Type = 12
	TypeRaw     Type = 23
	TypeChar    Type = 96
)

// String returns the SQL spelling of the type.
func (t Type) String() string {
	switch t {
	case TypeVarchar:
		return "VARCHAR2"
	case TypeNumber:
		return "NUMBER"
	case TypeDate:
		return "DATE"
	case TypeRaw:
		return "RAW"
	case TypeChar:
		return "CHAR"
	}
	return "UNKNOWN"
}

// Known reports whether the type code is one this decoder can decode.
func (t Type) Known() bool {
	switch t {
	case TypeVarchar, TypeNumber, TypeDate, TypeRaw, TypeChar:
		return true
	}
	return false
}

// Unspecified marks a precision or scale the schema did not declare.
const (
	PrecisionUnspecified = -1
	ScaleUnspecified     = -32768
)

// Column describes one column of a table exactly as the export's master
// table recorded it. Immutable once parsed.
type Column struct {
	Name      string
	Type      Type
	Length    uint32 // declared byte length for text/raw types
	Precision int    // PrecisionUnspecified when not declared
	Scale     int    // ScaleUnspecified when not declared
	Nullable  bool
	Ordinal   int // zero-based physical position, matches row encoding order
}
