package bffnt_headers

import "fmt"

type CWDH struct { //     Offset  Size  Description
	MagicHeader    string // 0x00    0x04  Magic Header (CWDH)
	SectionSize    uint32 // 0x04    0x04  Section Size
	StartIndex     uint16 // 0x08    0x02  First glyph index covered
	EndIndex       uint16 // 0x0A    0x02  Last glyph index covered (inclusive)
	NextCWDHOffset uint32 // 0x0C    0x04  Next CWDH Offset (0 = end of chain)

	// One 3-byte tuple per glyph index in [StartIndex, EndIndex].
	Glyphs []CharWidth
}

type CharWidth struct {
	LeftWidth  int8 // left spacing
	GlyphWidth uint8
	CharWidth  uint8 // advance
}

func (cwdh *CWDH) decode(r *reader) error {
	headerStart := r.pos

	cwdh.MagicHeader = r.tag()
	if err := r.truncated(CWDH_MAGIC_HEADER); err != nil {
		return err
	}
	if cwdh.MagicHeader != CWDH_MAGIC_HEADER {
		return formatErrf(CWDH_MAGIC_HEADER, "expected CWDH section, got %q", cwdh.MagicHeader)
	}

	cwdh.SectionSize = r.u32()
	cwdh.StartIndex = r.u16()
	cwdh.EndIndex = r.u16()
	cwdh.NextCWDHOffset = r.u32()
	if err := r.truncated(CWDH_MAGIC_HEADER); err != nil {
		return err
	}

	count := int(cwdh.EndIndex) - int(cwdh.StartIndex) + 1
	if count < 0 {
		return formatErrf(CWDH_MAGIC_HEADER, "glyph range [%d, %d] is inverted", cwdh.StartIndex, cwdh.EndIndex)
	}
	cwdh.Glyphs = make([]CharWidth, 0, count)
	for i := 0; i < count; i++ {
		cwdh.Glyphs = append(cwdh.Glyphs, CharWidth{
			LeftWidth:  int8(r.u8()),
			GlyphWidth: r.u8(),
			CharWidth:  r.u8(),
		})
	}
	if err := r.truncated(CWDH_MAGIC_HEADER); err != nil {
		return err
	}

	if Debug {
		pprint(cwdh)
		fmt.Printf("header+data  %-8d to  %d\n", headerStart, r.pos)
	}
	return nil
}

// DecodeCWDHs walks the width chain from startingOffset, following each
// node's NextCWDHOffset until 0. Offsets point past the 8-byte magic and
// size prefix of their target. A visited set rejects offset cycles that
// would otherwise loop forever on a crafted file.
func DecodeCWDHs(r *reader, startingOffset uint32) ([]CWDH, error) {
	res := make([]CWDH, 0)

	visited := make(map[uint32]bool)
	offset := startingOffset
	for offset != 0 {
		if visited[offset] {
			return nil, formatErrf(CWDH_MAGIC_HEADER, "offset cycle at %#x", offset)
		}
		visited[offset] = true

		var cwdh CWDH
		r.seek(int(offset) - 8)
		if err := cwdh.decode(r); err != nil {
			return nil, err
		}
		res = append(res, cwdh)

		offset = cwdh.NextCWDHOffset
	}

	return res, nil
}

// encodeCWDHs lays the chain down at the writer's current position,
// backpatching every node's section size and next offset. Each node is
// padded to a 4-byte boundary; the recorded next offset is the absolute
// position of the following node's body (past its magic+size prefix).
func encodeCWDHs(w *writer, cwdhs []CWDH) {
	for i := range cwdhs {
		cwdh := &cwdhs[i]
		sectionStart := w.pos()

		w.tag(CWDH_MAGIC_HEADER)
		sizePos := w.reserveU32()
		w.u16(cwdh.StartIndex)
		w.u16(cwdh.EndIndex)
		nextPos := w.reserveU32()

		for _, g := range cwdh.Glyphs {
			w.u8(uint8(g.LeftWidth))
			w.u8(g.GlyphWidth)
			w.u8(g.CharWidth)
		}
		w.alignTo(SECTION_ALIGNMENT)

		sectionEnd := w.pos()
		cwdh.SectionSize = uint32(sectionEnd - sectionStart)
		w.patchU32(sizePos, cwdh.SectionSize)

		if i < len(cwdhs)-1 {
			cwdh.NextCWDHOffset = uint32(sectionEnd + 8)
			w.patchU32(nextPos, cwdh.NextCWDHOffset)
		} else {
			cwdh.NextCWDHOffset = 0
		}
	}
}
