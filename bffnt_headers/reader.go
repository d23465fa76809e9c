package bffnt_headers

import "encoding/binary"

// reader walks a raw byte slice with the byte order fixed by the file's
// BOM. The first short read sticks in err and every later read returns
// zero values, so section decoders stay linear and check once at the end.
type reader struct {
	data  []byte
	pos   int
	order binary.ByteOrder
	err   error
}

func newReader(data []byte, order binary.ByteOrder) *reader {
	return &reader{data: data, order: order}
}

func (r *reader) fail() {
	if r.err == nil {
		r.err = &TruncationError{Offset: r.pos}
	}
}

// truncated wraps the sticky error with the section being decoded.
func (r *reader) truncated(section string) error {
	if r.err == nil {
		return nil
	}
	if te, ok := r.err.(*TruncationError); ok && te.Section == "" {
		te.Section = section
	}
	return r.err
}

func (r *reader) take(n int) []byte {
	if r.err != nil || r.pos+n > len(r.data) || n < 0 {
		r.fail()
		return nil
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b
}

func (r *reader) u8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *reader) u16() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return r.order.Uint16(b)
}

// beU16 reads big endian regardless of the file order. Only the byte
// order mark itself is read this way.
func (r *reader) beU16() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint16(b)
}

func (r *reader) s16() int16 {
	return int16(r.u16())
}

func (r *reader) u32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return r.order.Uint32(b)
}

func (r *reader) s64() int64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return int64(r.order.Uint64(b))
}

func (r *reader) tag() string {
	b := r.take(4)
	if b == nil {
		return ""
	}
	return string(b)
}

func (r *reader) bytes(n int) []byte {
	b := r.take(n)
	if b == nil {
		return nil
	}
	out := make([]byte, n)
	copy(out, b)
	return out
}

func (r *reader) seek(pos int) {
	if r.err != nil {
		return
	}
	if pos < 0 || pos > len(r.data) {
		r.fail()
		return
	}
	r.pos = pos
}

func (r *reader) remaining() int {
	return len(r.data) - r.pos
}
