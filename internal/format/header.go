package format

import (
	"bytes"
	"encoding/binary"
	"time"
)

// ===========================================================================
// EXPORT FILE HEADER
// ===========================================================================
//
// Header layout (block 0, all integers big-endian):
// ┌────────────────────────────────────────────────────────────────────────┐
// │ 0   magic "ORAEXPDP" (8 bytes)                                         │
// │ 8   format version code (2 bytes)                                      │
// │ 10  flags (2 bytes)                                                    │
// │ 12  block size in bytes (4 bytes)                                      │
// │ 16  master table first block (8 bytes)                                 │
// │ 24  master table block count (8 bytes)                                 │
// │ 32  master table row count (4 bytes)                                   │
// │ 36  banner, export date, character set (each u16 length + bytes)       │
// └────────────────────────────────────────────────────────────────────────┘
//
// The whole header must fit inside the first 512 bytes (the smallest
// legal block size), so it can be decoded before the block size is
// known. Everything after block 0, to the end of the file, is
// fixed-size blocks of the declared block size.
//
// ===========================================================================

// ByteOrder is the byte order used throughout the export format.
var ByteOrder = binary.BigEndian

// Magic identifies an export dump file (ASCII: "ORAEXPDP").
var Magic = [8]byte{'O', 'R', 'A', 'E', 'X', 'P', 'D', 'P'}

// Fixed-size prefix of the header, before the variable-length strings.
const headerFixedSize = 36

// Header flag bits.
const (
	FlagMasterTable = 1 << 0
	FlagCompressed  = 1 << 1
	FlagEncrypted   = 1 << 2
	FlagMultipart   = 1 << 3
)

// Block size limits. Legal sizes are powers of two within this range.
const (
	MinBlockSize = 512
	MaxBlockSize = 64 * 1024
)

// versionNames maps recognized format version codes to release labels.
// An unknown code rejects the file at open time.
var versionNames = map[uint16]string{
	0x0B02: "11.2",
	0x0C01: "12.1",
}

// Header is the decoded file header. Immutable once decoded.
type Header struct {
	VersionCode  uint16
	Release      string // short release label for the version code
	Banner       string // human-readable version name written by the exporter
	ExportDate   string // export timestamp, verbatim as the exporter wrote it
	CharacterSet string
	BlockSize    uint32
	MasterTable  bool

	// Master table region, meaningful only when MasterTable is true.
	MasterFirstBlock uint64
	MasterBlockCount uint64
	MasterRowCount   uint32
}

// exportDateLayout matches the timestamp convention of the export
// utility, e.g. "Wed May 23 14:34:07 EDT 2018".
const exportDateLayout = "Mon Jan 2 15:04:05 MST 2006"

// ExportTime parses the recorded export date. The second result is false
// when the string does not follow the expected layout; ExportDate stays
// authoritative either way.
func (h *Header) ExportTime() (time.Time, bool) {
	t, err := time.Parse(exportDateLayout, h.ExportDate)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DecodeHeader decodes and validates the header from the first block of
// the file. This is the only decoding step that can reject the whole
// file; every later failure is scoped to one table or one row.
func DecodeHeader(block []byte) (*Header, error) {
	if len(block) < headerFixedSize {
		return nil, &FormatError{Reason: "header block too short"}
	}
	if !bytes.Equal(block[0:8], Magic[:]) {
		return nil, &FormatError{Reason: "unsupported version: unrecognized format marker"}
	}

	h := &Header{
		VersionCode: ByteOrder.Uint16(block[8:10]),
	}
	release, ok := versionNames[h.VersionCode]
	if !ok {
		return nil, &FormatError{Reason: "unsupported version", Offset: 8}
	}
	h.Release = release

	flags := ByteOrder.Uint16(block[10:12])
	switch {
	case flags&FlagCompressed != 0:
		return nil, &UnsupportedFeatureError{Feature: "compressed export stream"}
	case flags&FlagEncrypted != 0:
		return nil, &UnsupportedFeatureError{Feature: "encrypted export stream"}
	case flags&FlagMultipart != 0:
		return nil, &UnsupportedFeatureError{Feature: "multi-part export file set"}
	}
	h.MasterTable = flags&FlagMasterTable != 0

	h.BlockSize = ByteOrder.Uint32(block[12:16])
	if !legalBlockSize(h.BlockSize) {
		return nil, &FormatError{Reason: "invalid block size", Offset: 12}
	}

	h.MasterFirstBlock = ByteOrder.Uint64(block[16:24])
	h.MasterBlockCount = ByteOrder.Uint64(block[24:32])
	h.MasterRowCount = ByteOrder.Uint32(block[32:36])

	pos := headerFixedSize
	var err error
	if h.Banner, pos, err = readString(block, pos); err != nil {
		return nil, err
	}
	if h.ExportDate, pos, err = readString(block, pos); err != nil {
		return nil, err
	}
	if h.CharacterSet, _, err = readString(block, pos); err != nil {
		return nil, err
	}

	return h, nil
}

// legalBlockSize reports whether sz is a power of two within the range
// the format allows.
func legalBlockSize(sz uint32) bool {
	if sz < MinBlockSize || sz > MaxBlockSize {
		return false
	}
	return sz&(sz-1) == 0
}

// readString decodes a u16-length-prefixed string at pos within the
// header block.
func readString(block []byte, pos int) (string, int, error) {
	if pos+2 > len(block) {
		return "", 0, &FormatError{Reason: "header string runs past header block", Offset: uint64(pos)}
	}
	n := int(ByteOrder.Uint16(block[pos : pos+2]))
	pos += 2
	if pos+n > len(block) {
		return "", 0, &FormatError{Reason: "header string runs past header block", Offset: uint64(pos)}
	}
	return string(block[pos : pos+n]), pos + n, nil
}
