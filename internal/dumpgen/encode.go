package dumpgen

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/oseko/dumpfile/internal/format"
	"github.com/oseko/dumpfile/internal/rowcodec"
)

// EncodeRows encodes rows against columns and terminates with the
// end-of-rows marker. The second result holds each row's marker offset
// relative to the start of the region.
func EncodeRows(columns []rowcodec.Column, rows [][]any) ([]byte, []uint64) {
	var out []byte
	var offsets []uint64
	for _, row := range rows {
		if len(row) != len(columns) {
			panic(fmt.Sprintf("dumpgen: row has %d values for %d columns", len(row), len(columns)))
		}
		offsets = append(offsets, uint64(len(out)))
		out = append(out, rowcodec.RowMarker)

		bitmap := make([]byte, (len(columns)+7)/8)
		for i, v := range row {
			if v == nil {
				bitmap[i/8] |= 1 << (uint(i) % 8)
			}
		}
		out = append(out, bitmap...)

		for i, v := range row {
			if v == nil {
				continue
			}
			out = append(out, encodeValue(columns[i], v)...)
		}
	}
	out = append(out, rowcodec.EndMarker)
	return out, offsets
}

// encodeValue encodes one non-NULL column slot. Text and raw columns
// accept []byte verbatim so tests can plant bytes in any character set,
// valid or not.
func encodeValue(col rowcodec.Column, v any) []byte {
	switch col.Type {
	case rowcodec.TypeVarchar, rowcodec.TypeChar, rowcodec.TypeRaw:
		var raw []byte
		switch val := v.(type) {
		case string:
			raw = []byte(val)
		case []byte:
			raw = val
		default:
			panic(fmt.Sprintf("dumpgen: %T value for column %s", v, col.Name))
		}
		out := make([]byte, 2, 2+len(raw))
		format.ByteOrder.PutUint16(out, uint16(len(raw)))
		return append(out, raw...)

	case rowcodec.TypeNumber:
		num := encodeNumber(asDecimal(col.Name, v))
		return append([]byte{byte(len(num))}, num...)

	case rowcodec.TypeDate:
		t, ok := v.(time.Time)
		if !ok {
			panic(fmt.Sprintf("dumpgen: %T value for DATE column %s", v, col.Name))
		}
		return encodeDate(t)
	}
	panic(fmt.Sprintf("dumpgen: column %s has unsupported type %v", col.Name, col.Type))
}

func asDecimal(column string, v any) decimal.Decimal {
	switch val := v.(type) {
	case decimal.Decimal:
		return val
	case int:
		return decimal.NewFromInt(int64(val))
	case int64:
		return decimal.NewFromInt(val)
	case string:
		d, err := decimal.NewFromString(val)
		if err != nil {
			panic(fmt.Sprintf("dumpgen: bad number %q for column %s", val, column))
		}
		return d
	}
	panic(fmt.Sprintf("dumpgen: %T value for NUMBER column %s", v, column))
}

// encodeNumber writes the packed base-100 NUMBER form rowcodec decodes:
// exponent byte, then one byte per base-100 mantissa digit, with the
// complemented negative form and its 0x66 terminator.
func encodeNumber(d decimal.Decimal) []byte {
	if d.IsZero() {
		return []byte{0x80}
	}
	negative := d.IsNegative()

	intPart, fracPart, _ := strings.Cut(d.Abs().String(), ".")
	intPart = strings.TrimLeft(intPart, "0")
	if len(intPart)%2 == 1 {
		intPart = "0" + intPart
	}
	if len(fracPart)%2 == 1 {
		fracPart += "0"
	}

	var digits []byte
	for i := 0; i < len(intPart); i += 2 {
		digits = append(digits, pairValue(intPart[i:i+2]))
	}
	exp := len(digits) - 1
	if len(digits) == 0 {
		// Pure fraction: leading zero pairs move into the exponent.
		skip := 0
		for skip+2 <= len(fracPart) && fracPart[skip] == '0' && fracPart[skip+1] == '0' {
			skip += 2
		}
		exp = -1 - skip/2
		fracPart = fracPart[skip:]
	}
	for i := 0; i < len(fracPart); i += 2 {
		digits = append(digits, pairValue(fracPart[i:i+2]))
	}
	for len(digits) > 0 && digits[len(digits)-1] == 0 {
		digits = digits[:len(digits)-1]
	}
	if len(digits) > rowcodec.MaxNumberLength-1 {
		panic(fmt.Sprintf("dumpgen: number %s needs %d mantissa digits", d, len(digits)))
	}

	e65 := byte(exp + 65)
	out := make([]byte, 0, len(digits)+2)
	if !negative {
		out = append(out, e65|0x80)
		for _, dig := range digits {
			out = append(out, dig+1)
		}
		return out
	}
	out = append(out, ^e65&0x7f)
	for _, dig := range digits {
		out = append(out, 101-dig)
	}
	if len(digits) < rowcodec.MaxNumberLength-1 {
		out = append(out, 102)
	}
	return out
}

func pairValue(pair string) byte {
	return (pair[0]-'0')*10 + (pair[1] - '0')
}

// encodeDate writes the fixed 7-byte DATE form.
func encodeDate(t time.Time) []byte {
	return []byte{
		byte(t.Year()/100 + 100),
		byte(t.Year()%100 + 100),
		byte(t.Month()),
		byte(t.Day()),
		byte(t.Hour() + 1),
		byte(t.Minute() + 1),
		byte(t.Second() + 1),
	}
}
