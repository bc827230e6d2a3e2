package blockio

import "fmt"

// TruncatedError reports a block read that lies beyond the bytes the
// source actually holds. It is fatal to the read that triggered it.
type TruncatedError struct {
	Block    uint64 // block index that was requested
	FileSize uint64 // total bytes available
	Needed   uint64 // byte offset the read would have ended at
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("truncated export file: block %d needs bytes up to %d, file has %d", e.Block, e.Needed, e.FileSize)
}

// Reader reads fixed-size blocks by index from a Source. The block size
// is fixed for the lifetime of the Reader; all reads are positioned, so
// a single Reader may be shared by concurrent decoders.
type Reader struct {
	src       Source
	blockSize uint32
}

// NewReader wraps src with a block-indexed view using the given block size.
func NewReader(src Source, blockSize uint32) *Reader {
	return &Reader{src: src, blockSize: blockSize}
}

// BlockSize returns the fixed block size in bytes.
func (r *Reader) BlockSize() uint32 {
	return r.blockSize
}

// Blocks returns the number of whole blocks the source holds.
func (r *Reader) Blocks() uint64 {
	return r.src.Size() / uint64(r.blockSize)
}

// ReadBlock returns the bytes of the block at the given index. It fails
// with *TruncatedError if the block extends past the end of the source.
func (r *Reader) ReadBlock(index uint64) ([]byte, error) {
	off := index * uint64(r.blockSize)
	end := off + uint64(r.blockSize)
	if end > r.src.Size() {
		return nil, &TruncatedError{Block: index, FileSize: r.src.Size(), Needed: end}
	}
	return r.src.ReadBlock(off, int(r.blockSize))
}

// Close closes the underlying source.
func (r *Reader) Close() error {
	return r.src.Close()
}
