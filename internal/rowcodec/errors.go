package rowcodec

import "fmt"

// TypeDecodingError reports one row whose encoded bytes disagree with
// its column schema. The row is lost but the byte stream was
// resynchronized, so iteration may continue with the next row.
type TypeDecodingError struct {
	Table  string
	Column string
	Row    int // zero-based index of the failed row within its table
	Reason string
}

func (e *TypeDecodingError) Error() string {
	return fmt.Sprintf("cannot decode row %d of %s, column %s: %s", e.Row, e.Table, e.Column, e.Reason)
}
