package bffnt_headers

import "encoding/binary"

// writer builds the output stream append-only, with u32 backpatching for
// the size and offset fields that are only known once later sections have
// been laid down. Alignment padding is zero filled.
type writer struct {
	buf   []byte
	order binary.ByteOrder
}

func newWriter(order binary.ByteOrder) *writer {
	return &writer{order: order}
}

func (w *writer) pos() int {
	return len(w.buf)
}

func (w *writer) u8(v uint8) {
	w.buf = append(w.buf, v)
}

func (w *writer) u16(v uint16) {
	var b [2]byte
	w.order.PutUint16(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// beU16 writes big endian regardless of the file order (the BOM field).
func (w *writer) beU16(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *writer) s16(v int16) {
	w.u16(uint16(v))
}

func (w *writer) u32(v uint32) {
	var b [4]byte
	w.order.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *writer) tag(magic string) {
	w.buf = append(w.buf, magic[:4]...)
}

func (w *writer) bytes(b []byte) {
	w.buf = append(w.buf, b...)
}

func (w *writer) zeros(n int) {
	w.buf = append(w.buf, make([]byte, n)...)
}

func (w *writer) alignTo(alignment int) {
	w.zeros(alignUp(len(w.buf), alignment) - len(w.buf))
}

// reserveU32 emits a placeholder and returns its position for patchU32.
func (w *writer) reserveU32() int {
	at := len(w.buf)
	w.u32(0)
	return at
}

func (w *writer) patchU32(at int, v uint32) {
	w.order.PutUint32(w.buf[at:at+4], v)
}
