// Package pool provides a reusable byte-buffer pool, used by the archive
// session to avoid repeated allocation while streaming the (potentially
// very large) data and quality sections.
package pool

import (
	"io"
	"sync"
)

// Default and max-retained sizes for the three buffer roles a session uses:
//   - Section buffers hold a fully-materialized metadata section (ids,
//     names, lengths, mask, title, extended) — these are bounded by the
//     sequence count, not by genome size, so a modest default suffices.
//   - Stream buffers back the sequence/quality StreamDecompressor output
//     and the FASTA/FASTQ print buffer. These are sized off zstd's
//     recommended output block size: the decompressor's "out" buffer at
//     roughly two block sizes, and the print buffer (which also absorbs
//     line-wrapped FASTA text) at double that again.
const (
	SectionBufferDefaultSize  = 1024 * 16  // 16KiB
	SectionBufferMaxThreshold = 1024 * 128 // 128KiB

	StreamBufferDefaultSize  = 1024 * 128 // 128KiB, ~2x zstd's default block size
	StreamBufferMaxThreshold = 1024 * 1024 * 4

	PrintBufferDefaultSize  = StreamBufferDefaultSize * 2
	PrintBufferMaxThreshold = StreamBufferMaxThreshold * 2
)

// ByteBuffer is a growable byte slice wrapper sized for pooling.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified default size.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset resets the buffer to be empty, but retains the allocated memory for reuse.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the capacity of the buffer.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// Grow grows the buffer to ensure it can hold requiredBytes more bytes
// without reallocating. If the buffer has sufficient capacity, Grow does
// nothing.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	available := cap(bb.B) - len(bb.B)
	if available >= requiredBytes {
		return
	}

	growBy := SectionBufferDefaultSize
	if cap(bb.B) > 4*SectionBufferDefaultSize {
		growBy = cap(bb.B) / 4
	}

	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// Write appends the contents of data to the buffer, growing it as needed.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)

	return len(data), nil
}

// WriteByte appends a single byte to the buffer.
func (bb *ByteBuffer) WriteByte(c byte) error {
	bb.B = append(bb.B, c)

	return nil
}

// WriteTo writes the contents of the buffer to w.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)

	return int64(n), err
}

// ByteBufferPool is a pool of ByteBuffers to minimize allocations, backed by
// sync.Pool. A maxThreshold discards overly large buffers instead of
// retaining them, so one unusually large archive doesn't bloat every
// subsequent session's pool.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a new ByteBufferPool with buffers of the
// specified default size.
func NewByteBufferPool(defaultSize, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)

	return bb
}

// Put returns a ByteBuffer to the pool for reuse.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var (
	sectionPool = NewByteBufferPool(SectionBufferDefaultSize, SectionBufferMaxThreshold)
	streamPool  = NewByteBufferPool(StreamBufferDefaultSize, StreamBufferMaxThreshold)
	printPool   = NewByteBufferPool(PrintBufferDefaultSize, PrintBufferMaxThreshold)
)

// GetSectionBuffer retrieves a ByteBuffer sized for a metadata section.
func GetSectionBuffer() *ByteBuffer { return sectionPool.Get() }

// PutSectionBuffer returns a metadata-section buffer to its pool.
func PutSectionBuffer(bb *ByteBuffer) { sectionPool.Put(bb) }

// GetStreamBuffer retrieves a ByteBuffer sized for streaming decompressor output.
func GetStreamBuffer() *ByteBuffer { return streamPool.Get() }

// PutStreamBuffer returns a stream buffer to its pool.
func PutStreamBuffer(bb *ByteBuffer) { streamPool.Put(bb) }

// GetPrintBuffer retrieves a ByteBuffer sized for the output formatter's print buffer.
func GetPrintBuffer() *ByteBuffer { return printPool.Get() }

// PutPrintBuffer returns a print buffer to its pool.
func PutPrintBuffer(bb *ByteBuffer) { printPool.Put(bb) }
