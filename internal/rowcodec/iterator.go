package rowcodec

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/oseko/dumpfile/internal/format"
)

// Row markers. Every encoded row starts with RowMarker; EndMarker
// terminates a data region. Any other byte in marker position means the
// stream lost row alignment.
const (
	RowMarker = 0x52
	EndMarker = 0x00
)

// Row is one decoded record: one value per column in ordinal order.
// NULL columns hold untyped nil.
type Row []any

var errBadText = errors.New("text bytes invalid for file character set")

// Iterator decodes a table's data region one row at a time. It is
// forward-only and single-pass: it holds at most one block of region
// bytes plus the row being decoded. Not safe for concurrent use; open
// one Iterator per goroutine instead.
type Iterator struct {
	table   string
	columns []Column
	text    *format.TextDecoder
	br      *bufio.Reader

	rowIndex int
	finished bool
	err      error // terminal error, sticky once set
}

// NewIterator returns an iterator over the rows encoded in r, decoding
// them against the given column schema.
func NewIterator(table string, columns []Column, text *format.TextDecoder, r io.Reader) *Iterator {
	return &Iterator{
		table:   table,
		columns: columns,
		text:    text,
		br:      bufio.NewReader(r),
	}
}

// Next decodes the next row.
//
// ok reports whether iteration may continue. A non-nil err with ok=true
// is a row-scoped *TypeDecodingError: that one row is lost, the stream
// was resynchronized, and the caller may keep iterating. A non-nil err
// with ok=false halts the table: the row boundary could not be
// recovered (FormatError) or a block read failed. Rows already returned
// remain valid either way.
func (it *Iterator) Next() (row Row, ok bool, err error) {
	if it.finished {
		return nil, false, it.err
	}

	row, err = it.decodeRow()
	if err != nil {
		var typeErr *TypeDecodingError
		if errors.As(err, &typeErr) {
			it.rowIndex++
			return nil, true, err
		}
		it.finished = true
		it.err = err
		return nil, false, err
	}
	if row == nil {
		// Clean end-of-rows marker.
		it.finished = true
		return nil, false, nil
	}
	it.rowIndex++
	return row, true, nil
}

// decodeRow returns (nil, nil) at the end-of-rows marker. A
// *TypeDecodingError means the row is bad but the stream is positioned
// at the next row; any other error means row alignment is gone.
func (it *Iterator) decodeRow() (Row, error) {
	marker, err := it.br.ReadByte()
	if err != nil {
		return nil, it.structural(err, "row marker")
	}
	if marker == EndMarker {
		return nil, nil
	}
	if marker != RowMarker {
		return nil, &format.FormatError{
			Reason: fmt.Sprintf("table %s: row boundary lost at row %d (marker 0x%02x)", it.table, it.rowIndex, marker),
		}
	}

	bitmap := make([]byte, (len(it.columns)+7)/8)
	if _, err := io.ReadFull(it.br, bitmap); err != nil {
		return nil, it.structural(err, "null bitmap")
	}

	values := make(Row, len(it.columns))
	var rowErr *TypeDecodingError

	for i := range it.columns {
		col := &it.columns[i]
		if bitmap[i/8]&(1<<(uint(i)%8)) != 0 {
			continue // NULL
		}
		v, err := it.decodeValue(col)
		if err != nil {
			if !recoverable(err) {
				return nil, err
			}
			// Value bytes were consumed, alignment is intact: fail the
			// row, keep walking its remaining columns.
			if rowErr == nil {
				rowErr = &TypeDecodingError{Table: it.table, Column: col.Name, Row: it.rowIndex, Reason: err.Error()}
			}
			continue
		}
		values[i] = v
	}

	if rowErr == nil {
		if stray := strayBits(bitmap, len(it.columns)); stray {
			rowErr = &TypeDecodingError{Table: it.table, Row: it.rowIndex, Reason: "null bitmap marks columns beyond the declared column count"}
		}
	}
	if rowErr != nil {
		return nil, rowErr
	}
	return values, nil
}

// decodeValue decodes one non-NULL column slot. Errors that consumed the
// value's full extent are recoverable; read failures are not.
func (it *Iterator) decodeValue(col *Column) (any, error) {
	switch col.Type {
	case TypeVarchar, TypeChar:
		raw, err := it.readPrefixed()
		if err != nil {
			return nil, err
		}
		s, ok := it.text.Decode(raw)
		if !ok {
			return nil, errBadText
		}
		return s, nil

	case TypeRaw:
		raw, err := it.readPrefixed()
		if err != nil {
			return nil, err
		}
		out := make([]byte, len(raw))
		copy(out, raw)
		return out, nil

	case TypeNumber:
		n, err := it.br.ReadByte()
		if err != nil {
			return nil, it.structural(err, col.Name)
		}
		if n == 0 {
			return nil, errBadNumber
		}
		buf := make([]byte, int(n))
		if _, err := io.ReadFull(it.br, buf); err != nil {
			return nil, it.structural(err, col.Name)
		}
		if n > MaxNumberLength {
			return nil, errBadNumber
		}
		return DecodeNumber(buf)

	case TypeDate:
		buf := make([]byte, DateLength)
		if _, err := io.ReadFull(it.br, buf); err != nil {
			return nil, it.structural(err, col.Name)
		}
		return DecodeDate(buf)
	}

	// The directory skips tables with unknown column types, so this is
	// only reachable through a hand-built schema.
	return nil, &format.FormatError{
		Reason: fmt.Sprintf("table %s: column %s has undecodable type code %d", it.table, col.Name, col.Type),
	}
}

// readPrefixed reads a u16 length prefix and that many bytes.
func (it *Iterator) readPrefixed() ([]byte, error) {
	var lenBuf [2]byte
	if _, err := io.ReadFull(it.br, lenBuf[:]); err != nil {
		return nil, it.structural(err, "length prefix")
	}
	n := int(format.ByteOrder.Uint16(lenBuf[:]))
	buf := make([]byte, n)
	if _, err := io.ReadFull(it.br, buf); err != nil {
		return nil, it.structural(err, "value bytes")
	}
	return buf, nil
}

// structural converts a read failure into the terminal error for this
// table. Block-level errors pass through unchanged so callers can still
// match them; plain EOFs become a FormatError describing where the
// region ran out.
func (it *Iterator) structural(err error, what string) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &format.FormatError{
			Reason: fmt.Sprintf("table %s: data region ended inside %s of row %d", it.table, what, it.rowIndex),
		}
	}
	return err
}

// recoverable reports whether a value decode failure left the stream
// positioned at the next column slot. Only content errors qualify; read
// failures and boundary losses never do.
func recoverable(err error) bool {
	return errors.Is(err, errBadNumber) || errors.Is(err, errBadDate) || errors.Is(err, errBadText)
}

// strayBits reports whether bitmap sets any bit at or beyond ncols.
func strayBits(bitmap []byte, ncols int) bool {
	for i := ncols; i < len(bitmap)*8; i++ {
		if bitmap[i/8]&(1<<(uint(i)%8)) != 0 {
			return true
		}
	}
	return false
}
