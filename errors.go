package dumpfile

import (
	"github.com/oseko/dumpfile/internal/blockio"
	"github.com/oseko/dumpfile/internal/directory"
	"github.com/oseko/dumpfile/internal/format"
	"github.com/oseko/dumpfile/internal/rowcodec"
)

// Error taxonomy. Each internal package owns the errors it can produce;
// these aliases give callers one import to match against with errors.As.
type (
	// FormatError is file-wide at open time (unrecognized marker,
	// invalid block size, unlocatable directory) and table-wide when a
	// row boundary is lost mid-table.
	FormatError = format.FormatError

	// TruncatedFileError reports a required block beyond the available
	// bytes.
	TruncatedFileError = blockio.TruncatedError

	// UnsupportedFeatureError reports a compressed, encrypted, or
	// multi-part export, which this decoder rejects rather than
	// misdecodes.
	UnsupportedFeatureError = format.UnsupportedFeatureError

	// UnknownTableError reports a table name absent from the catalog.
	UnknownTableError = directory.UnknownTableError

	// TypeDecodingError reports one row whose bytes disagree with its
	// column schema; it is isolated to that row.
	TypeDecodingError = rowcodec.TypeDecodingError
)
