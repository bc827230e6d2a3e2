package rowcodec_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/oseko/dumpfile/internal/dumpgen"
	"github.com/oseko/dumpfile/internal/format"
	"github.com/oseko/dumpfile/internal/rowcodec"
)

func utf8Decoder(t *testing.T) *format.TextDecoder {
	t.Helper()
	d, err := format.NewTextDecoder("AL32UTF8")
	require.NoError(t, err)
	return d
}

func testColumns() []rowcodec.Column {
	return []rowcodec.Column{
		{Name: "ID", Type: rowcodec.TypeNumber, Ordinal: 0},
		{Name: "NAME", Type: rowcodec.TypeVarchar, Length: 20, Nullable: true, Ordinal: 1},
		{Name: "HIRED", Type: rowcodec.TypeDate, Nullable: true, Ordinal: 2},
		{Name: "BLOB", Type: rowcodec.TypeRaw, Length: 100, Nullable: true, Ordinal: 3},
	}
}

func TestIteratorDecodesTypedRows(t *testing.T) {
	hired := time.Date(1981, time.February, 20, 8, 30, 0, 0, time.UTC)
	body, _ := dumpgen.EncodeRows(testColumns(), [][]any{
		{1, "ALLEN", hired, []byte{0xDE, 0xAD}},
		{2, nil, nil, nil},
	})

	it := rowcodec.NewIterator("T", testColumns(), utf8Decoder(t), bytes.NewReader(body))

	row, ok, err := it.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, row, 4)
	require.True(t, row[0].(decimal.Decimal).Equal(decimal.NewFromInt(1)))
	require.Equal(t, "ALLEN", row[1])
	require.Equal(t, hired, row[2])
	require.Equal(t, []byte{0xDE, 0xAD}, row[3])

	row, ok, err = it.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, row[0].(decimal.Decimal).Equal(decimal.NewFromInt(2)))
	require.Nil(t, row[1])
	require.Nil(t, row[2])
	require.Nil(t, row[3])

	_, ok, err = it.Next()
	require.False(t, ok)
	require.NoError(t, err)

	// Exhausted iterators stay exhausted.
	_, ok, err = it.Next()
	require.False(t, ok)
	require.NoError(t, err)
}

// splice rebuilds a region as: rows before, raw bytes, rows after, end marker.
func splice(t *testing.T, cols []rowcodec.Column, before [][]any, raw []byte, after [][]any) []byte {
	t.Helper()
	head, _ := dumpgen.EncodeRows(cols, before)
	head = head[:len(head)-1] // drop end marker
	tail, _ := dumpgen.EncodeRows(cols, after)
	out := append(head, raw...)
	return append(out, tail...)
}

func TestIteratorIsolatesBadValueToItsRow(t *testing.T) {
	cols := testColumns()

	// Middle row carries a NUMBER whose exponent byte has no digits.
	corrupt := []byte{rowcodec.RowMarker, 0x0E, 0x01, 0xC1}
	body := splice(t, cols, [][]any{{1, "FIRST", nil, nil}}, corrupt, [][]any{{3, "THIRD", nil, nil}})

	it := rowcodec.NewIterator("T", cols, utf8Decoder(t), bytes.NewReader(body))

	row, ok, err := it.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "FIRST", row[1])

	row, ok, err = it.Next()
	require.True(t, ok, "iteration must continue past the bad row")
	var typeErr *rowcodec.TypeDecodingError
	require.ErrorAs(t, err, &typeErr)
	require.Equal(t, "ID", typeErr.Column)
	require.Equal(t, 1, typeErr.Row)
	require.Nil(t, row)

	row, ok, err = it.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "THIRD", row[1])

	_, ok, err = it.Next()
	require.False(t, ok)
	require.NoError(t, err)
}

func TestIteratorBadTextIsRowScoped(t *testing.T) {
	cols := testColumns()
	body, _ := dumpgen.EncodeRows(cols, [][]any{
		{1, []byte{0xC3, 0x28}, nil, nil}, // invalid UTF-8
		{2, "FINE", nil, nil},
	})

	it := rowcodec.NewIterator("T", cols, utf8Decoder(t), bytes.NewReader(body))

	_, ok, err := it.Next()
	require.True(t, ok)
	var typeErr *rowcodec.TypeDecodingError
	require.ErrorAs(t, err, &typeErr)
	require.Equal(t, "NAME", typeErr.Column)

	row, ok, err := it.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "FINE", row[1])
}

func TestIteratorHaltsOnLostBoundary(t *testing.T) {
	cols := testColumns()
	body := splice(t, cols, [][]any{{1, "FIRST", nil, nil}}, []byte{0xAB}, nil)

	it := rowcodec.NewIterator("T", cols, utf8Decoder(t), bytes.NewReader(body))

	_, ok, err := it.Next()
	require.True(t, ok)
	require.NoError(t, err)

	_, ok, err = it.Next()
	require.False(t, ok)
	var formatErr *format.FormatError
	require.ErrorAs(t, err, &formatErr)
	require.Contains(t, formatErr.Reason, "row boundary lost")

	// The terminal error is sticky.
	_, ok, err = it.Next()
	require.False(t, ok)
	require.ErrorAs(t, err, &formatErr)
}

func TestIteratorHaltsOnTruncatedRegion(t *testing.T) {
	cols := testColumns()
	body, _ := dumpgen.EncodeRows(cols, [][]any{{1, "TRUNCATED-AWAY", nil, nil}})

	it := rowcodec.NewIterator("T", cols, utf8Decoder(t), bytes.NewReader(body[:6]))

	_, ok, err := it.Next()
	require.False(t, ok)
	var formatErr *format.FormatError
	require.ErrorAs(t, err, &formatErr)
	require.Contains(t, formatErr.Reason, "ended inside")
}

func TestIteratorFlagsStrayBitmapBits(t *testing.T) {
	cols := testColumns()[:1] // one column, seven spare bitmap bits

	// Column 0 NULL plus a stray bit 7, then the end marker.
	body := []byte{rowcodec.RowMarker, 0x81, rowcodec.EndMarker}

	it := rowcodec.NewIterator("T", cols, utf8Decoder(t), bytes.NewReader(body))
	_, ok, err := it.Next()
	require.True(t, ok)
	var typeErr *rowcodec.TypeDecodingError
	require.ErrorAs(t, err, &typeErr)
	require.Contains(t, typeErr.Reason, "beyond the declared column count")
}
