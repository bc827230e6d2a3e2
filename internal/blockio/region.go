package blockio

import "io"

// RegionScanner streams a contiguous block range as one forward-only byte
// stream, holding at most one block in memory at a time. Row decoding
// iterates a table's data region through this, so memory use stays
// bounded no matter how large the table is.
type RegionScanner struct {
	r     *Reader
	next  uint64 // next block index to load
	limit uint64 // one past the last block of the region
	buf   []byte // unread remainder of the current block
}

// NewRegionScanner returns a scanner over count blocks starting at first.
func NewRegionScanner(r *Reader, first, count uint64) *RegionScanner {
	return &RegionScanner{r: r, next: first, limit: first + count}
}

func (s *RegionScanner) fill() error {
	if len(s.buf) > 0 {
		return nil
	}
	if s.next >= s.limit {
		return io.EOF
	}
	block, err := s.r.ReadBlock(s.next)
	if err != nil {
		return err
	}
	s.next++
	s.buf = block
	return nil
}

// Read implements io.Reader over the region. It returns io.EOF once the
// last block of the region is consumed.
func (s *RegionScanner) Read(p []byte) (int, error) {
	if err := s.fill(); err != nil {
		return 0, err
	}
	n := copy(p, s.buf)
	s.buf = s.buf[n:]
	return n, nil
}
