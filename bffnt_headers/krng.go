package bffnt_headers

import "fmt"

// KRNG is the kerning section. Its internals (a first-char table pointing
// at arrays of (second char, kerning value) pairs) are never interpreted:
// the whole payload rides along verbatim so a rewrite cannot corrupt it.
type KRNG struct { //  Offset  Size  Description
	MagicHeader string // 0x00    0x04  Magic Header (KRNG)
	SectionSize uint32 // 0x04    0x04  Section Size (includes magic and size)

	Data []byte // raw kerning payload, SectionSize - 8 bytes
}

// DecodeKRNG scans forward from the reader's position for the KRNG magic,
// one tag at a time, up to fileSize. The section is optional and the scan
// is best effort: a missing tag or a short read simply means no kerning.
func DecodeKRNG(r *reader, fileSize uint32) *KRNG {
	for r.err == nil && r.pos+4 <= int(fileSize) && r.pos+4 <= len(r.data) {
		pos := r.pos
		magic := r.tag()
		if magic != KRNG_MAGIC_HEADER {
			continue
		}

		sectionSize := r.u32()
		if int(sectionSize) < KRNG_HEADER_SIZE {
			r.seek(pos + 4)
			continue
		}
		data := r.bytes(int(sectionSize) - KRNG_HEADER_SIZE)
		if r.err != nil {
			return nil
		}

		krng := &KRNG{
			MagicHeader: magic,
			SectionSize: sectionSize,
			Data:        data,
		}
		if Debug {
			fmt.Printf("KRNG found at %d, %d bytes\n", pos, sectionSize)
		}
		return krng
	}
	return nil
}

// Encode replays the stored bytes without recomputation.
func (krng *KRNG) Encode(w *writer) {
	w.tag(krng.MagicHeader)
	w.u32(krng.SectionSize)
	w.bytes(krng.Data)
}
