package binary

import "bytes"

// Writer builds a flat image in memory, tracking the current offset so
// callers can pad to absolute positions.
type Writer struct {
	buf *bytes.Buffer
}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{buf: &bytes.Buffer{}}
}

// Bytes returns the written bytes.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// WriteBytes appends a byte slice.
func (w *Writer) WriteBytes(data []byte) {
	w.buf.Write(data)
}

// Zero appends n zero bytes.
func (w *Writer) Zero(n uint64) {
	for i := uint64(0); i < n; i++ {
		w.buf.WriteByte(0)
	}
}

// PadTo appends zero bytes until the writer length reaches offset.
// Offsets behind the current length are ignored.
func (w *Writer) PadTo(offset uint64) {
	for uint64(w.buf.Len()) < offset {
		w.buf.WriteByte(0)
	}
}

// AlignTo appends zero bytes until the writer length is a multiple of align.
// Align must be a power of two; zero and one are no-ops.
func (w *Writer) AlignTo(align uint64) {
	if align <= 1 {
		return
	}
	w.PadTo((uint64(w.buf.Len()) + align - 1) &^ (align - 1))
}
