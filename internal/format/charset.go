package format

import (
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// charsets maps the character-set identifiers the export header records
// to their text encodings. UTF-8 variants get a nil decoder and take the
// validation-only fast path.
var charsets = map[string]encoding.Encoding{
	"AL32UTF8":      nil,
	"UTF8":          nil,
	"US7ASCII":      charmap.ISO8859_1, // 7-bit subset of Latin-1
	"WE8ISO8859P1":  charmap.ISO8859_1,
	"WE8ISO8859P15": charmap.ISO8859_15,
	"WE8MSWIN1252":  charmap.Windows1252,
	"AL16UTF16":     unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
}

// TextDecoder converts raw column bytes recorded in the named character
// set into Go strings. A decoder is built once per open file and shared
// by all row iterators; Decode is safe for concurrent use.
type TextDecoder struct {
	name string
	enc  encoding.Encoding
}

// NewTextDecoder returns a decoder for the named character set, or a
// FormatError when the identifier is not one the decoder knows.
func NewTextDecoder(name string) (*TextDecoder, error) {
	enc, ok := charsets[name]
	if !ok {
		return nil, &FormatError{Reason: "unknown character set " + name}
	}
	return &TextDecoder{name: name, enc: enc}, nil
}

// Name returns the character-set identifier this decoder was built for.
func (d *TextDecoder) Name() string {
	return d.name
}

// Decode converts raw bytes to a string. Invalid byte sequences for the
// file's character set yield ok=false; the caller turns that into a
// row-scoped decode failure.
func (d *TextDecoder) Decode(raw []byte) (string, bool) {
	if d.enc == nil {
		if !utf8.Valid(raw) {
			return "", false
		}
		return string(raw), true
	}
	out, err := d.enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", false
	}
	return string(out), true
}
