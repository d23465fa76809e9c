package bffnt_headers

import "fmt"

type FINF struct { //      Offset  Size  Description
	MagicHeader       string // 0x00    0x04  Magic Header (FINF)
	SectionSize       uint32 // 0x04    0x04  Section Size
	FontType          uint8  // 0x08    0x01  Font Type
	Height            uint8  // 0x09    0x01  Height
	Width             uint8  // 0x0A    0x01  Width
	Ascent            uint8  // 0x0B    0x01  Ascent
	LineFeed          uint16 // 0x0C    0x02  Line Feed
	AlterCharIndex    uint16 // 0x0E    0x02  Alter Char Index
	DefaultLeftWidth  uint8  // 0x10    0x03  Default Width (3 bytes: Left, Glyph Width, Char Width)
	DefaultGlyphWidth uint8
	DefaultCharWidth  uint8
	Encoding          uint8  // 0x13    0x01  Encoding
	TGLPOffset        uint32 // 0x14    0x04  TGLP Offset
	CWDHOffset        uint32 // 0x18    0x04  CWDH Offset
	CMAPOffset        uint32 // 0x1C    0x04  CMAP Offset

	// The three offsets are absolute positions + 8, pointing past the
	// target section's own magic and size prefix. They are stale until
	// the writer backpatches them on every save.
}

func (finf *FINF) Decode(r *reader) error {
	headerStart := r.pos

	finf.MagicHeader = r.tag()
	if err := r.truncated(FINF_MAGIC_HEADER); err != nil {
		return err
	}
	if finf.MagicHeader != FINF_MAGIC_HEADER {
		return formatErrf(FINF_MAGIC_HEADER, "expected FINF section, got %q", finf.MagicHeader)
	}

	finf.SectionSize = r.u32()
	finf.FontType = r.u8()
	finf.Height = r.u8()
	finf.Width = r.u8()
	finf.Ascent = r.u8()
	finf.LineFeed = r.u16()
	finf.AlterCharIndex = r.u16()
	finf.DefaultLeftWidth = r.u8()
	finf.DefaultGlyphWidth = r.u8()
	finf.DefaultCharWidth = r.u8()
	finf.Encoding = r.u8()
	finf.TGLPOffset = r.u32()
	finf.CWDHOffset = r.u32()
	finf.CMAPOffset = r.u32()
	if err := r.truncated(FINF_MAGIC_HEADER); err != nil {
		return err
	}

	if Debug {
		pprint(finf)
		fmt.Printf("header %d(inclusive) to %d(exclusive)\n", headerStart, r.pos)
	}
	return nil
}

func (finf *FINF) Encode(w *writer, tglpOffset, cwdhOffset, cmapOffset uint32) {
	start := w.pos()
	w.tag(finf.MagicHeader)
	w.u32(finf.SectionSize)
	w.u8(finf.FontType)
	w.u8(finf.Height)
	w.u8(finf.Width)
	w.u8(finf.Ascent)
	w.u16(finf.LineFeed)
	w.u16(finf.AlterCharIndex)
	w.u8(finf.DefaultLeftWidth)
	w.u8(finf.DefaultGlyphWidth)
	w.u8(finf.DefaultCharWidth)
	w.u8(finf.Encoding)
	w.u32(tglpOffset)
	w.u32(cwdhOffset)
	w.u32(cmapOffset)

	// A declared section size past the fixed layout is padding before
	// the next section.
	if pad := int(finf.SectionSize) - (w.pos() - start); pad > 0 {
		w.zeros(pad)
	}
}
