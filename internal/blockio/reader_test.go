package blockio

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReaderReadBlock(t *testing.T) {
	data := make([]byte, 3*512)
	for i := range data {
		data[i] = byte(i / 512)
	}
	r := NewReader(&ByteSource{Data: data}, 512)

	require.Equal(t, uint64(3), r.Blocks())

	block, err := r.ReadBlock(1)
	require.NoError(t, err)
	require.Len(t, block, 512)
	require.Equal(t, byte(1), block[0])
	require.Equal(t, byte(1), block[511])
}

func TestReaderTruncated(t *testing.T) {
	r := NewReader(&ByteSource{Data: make([]byte, 1024)}, 512)

	_, err := r.ReadBlock(2)
	var truncated *TruncatedError
	require.ErrorAs(t, err, &truncated)
	require.Equal(t, uint64(2), truncated.Block)
	require.Equal(t, uint64(1024), truncated.FileSize)
}

func TestReaderTruncatedPartialBlock(t *testing.T) {
	// 700 bytes holds block 0 but only part of block 1.
	r := NewReader(&ByteSource{Data: make([]byte, 700)}, 512)

	_, err := r.ReadBlock(0)
	require.NoError(t, err)

	_, err = r.ReadBlock(1)
	var truncated *TruncatedError
	require.ErrorAs(t, err, &truncated)
}

func TestRegionScanner(t *testing.T) {
	data := make([]byte, 4*512)
	for i := range data {
		data[i] = byte(i % 251)
	}
	r := NewReader(&ByteSource{Data: data}, 512)

	// Region covering blocks 1..2, read through a deliberately small
	// buffer so reads straddle the block boundary.
	s := NewRegionScanner(r, 1, 2)
	got, err := io.ReadAll(io.LimitReader(s, 2*512))
	require.NoError(t, err)
	require.Equal(t, data[512:3*512], got)

	// Fully consumed: next read is EOF.
	var one [1]byte
	_, err = s.Read(one[:])
	require.True(t, errors.Is(err, io.EOF))
}

func TestRegionScannerTruncated(t *testing.T) {
	r := NewReader(&ByteSource{Data: make([]byte, 512)}, 512)
	s := NewRegionScanner(r, 0, 2)

	buf := make([]byte, 600)
	n, err := io.ReadFull(s, buf)
	require.Equal(t, 512, n)
	var truncated *TruncatedError
	require.ErrorAs(t, err, &truncated)
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scott.dmp")
	content := []byte("block reader test payload")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	src, err := OpenFileSource(path)
	require.NoError(t, err)
	defer src.Close()

	require.Equal(t, uint64(len(content)), src.Size())

	got, err := src.ReadBlock(6, 6)
	require.NoError(t, err)
	require.Equal(t, []byte("reader"), got)

	require.NoError(t, src.Close())
	require.NoError(t, src.Close()) // idempotent
}
