package format

import "fmt"

// FormatError reports bytes that do not decode as the export format
// expects. At open time it is fatal to the whole file; mid-table it is
// fatal to the remainder of that table's rows only.
type FormatError struct {
	Reason string
	Offset uint64 // byte offset where decoding failed, when known
}

func (e *FormatError) Error() string {
	if e.Offset > 0 {
		return fmt.Sprintf("export format error at offset %d: %s", e.Offset, e.Reason)
	}
	return fmt.Sprintf("export format error: %s", e.Reason)
}

// UnsupportedFeatureError reports a file that declares a feature this
// decoder deliberately does not handle (compression, encryption,
// multi-part sets). It is distinct from FormatError so callers can tell
// "valid file we refuse" apart from "broken file".
type UnsupportedFeatureError struct {
	Feature string
}

func (e *UnsupportedFeatureError) Error() string {
	return fmt.Sprintf("unsupported export feature: %s", e.Feature)
}
