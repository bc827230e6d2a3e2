package blockio

import (
	"fmt"
	"os"
)

// Source provides positioned, read-only access to the raw bytes of an
// export file. Implementations must support concurrent ReadBlock calls:
// there is no shared cursor, every read names its own offset.
type Source interface {
	// Size returns the total number of bytes available.
	Size() uint64

	// ReadBlock returns size bytes starting at off. The returned slice
	// is only valid until the next call on the same Source value unless
	// the implementation documents otherwise.
	ReadBlock(off uint64, size int) ([]byte, error)

	// Close releases the underlying resource.
	Close() error
}

// ByteSource is an in-memory Source, used for small files and tests.
type ByteSource struct {
	Data []byte
}

func (s *ByteSource) Size() uint64 {
	return uint64(len(s.Data))
}

func (s *ByteSource) ReadBlock(off uint64, size int) ([]byte, error) {
	if off+uint64(size) > uint64(len(s.Data)) {
		return nil, fmt.Errorf("read of %d bytes at offset %d past end of %d-byte source", size, off, len(s.Data))
	}
	return s.Data[off : off+uint64(size)], nil
}

func (s *ByteSource) Close() error {
	return nil
}

// FileSource is a Source backed by an open file. It uses ReadAt, so
// concurrent ReadBlock calls are safe without any locking.
type FileSource struct {
	file *os.File
	size uint64
}

// OpenFileSource opens path read-only and stats it for its size.
func OpenFileSource(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open export file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat export file: %w", err)
	}
	return &FileSource{file: f, size: uint64(info.Size())}, nil
}

func (s *FileSource) Size() uint64 {
	return s.size
}

func (s *FileSource) ReadBlock(off uint64, size int) ([]byte, error) {
	buf := make([]byte, size)
	n, err := s.file.ReadAt(buf, int64(off))
	if err != nil {
		return nil, fmt.Errorf("read of %d bytes at offset %d: %w", size, off, err)
	}
	return buf[:n], nil
}

func (s *FileSource) Close() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}
