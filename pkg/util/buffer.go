package util

// Growable byte buffer for offset based encoding. bytes.Buffer hides
// its backing slice behind Read/Write, while message encoders need to
// size the buffer first and then fill it in place. Resize exposes the
// backing slice at the requested length for that purpose.

type Buffer struct {
	buf []byte
}

func NewBuffer(buf []byte) *Buffer { return &Buffer{buf: buf} }

// Bytes returns the backing slice. Valid until the next Grow or Resize.
func (b *Buffer) Bytes() []byte { return b.buf }

func (b *Buffer) Len() int { return len(b.buf) }

func (b *Buffer) Cap() int { return cap(b.buf) }

func (b *Buffer) Reset() { b.buf = b.buf[:0] }

// Grow guarantees space for at least n more bytes.
func (b *Buffer) Grow(n int) {
	if cap(b.buf)-len(b.buf) >= n {
		return
	}
	buf := make([]byte, len(b.buf), 2*cap(b.buf)+n)
	copy(buf, b.buf)
	b.buf = buf
}

// Resize discards the content and sets the length to n, reallocating
// only if the capacity is not enough.
func (b *Buffer) Resize(n int) {
	b.Reset()
	if n > cap(b.buf) {
		b.Grow(n)
	}
	b.buf = b.buf[:n]
}

func (b *Buffer) Write(p []byte) (n int, err error) {
	b.buf = append(b.buf, p...)
	return len(p), nil
}

func (b *Buffer) WriteByte(c byte) error {
	b.buf = append(b.buf, c)
	return nil
}
