package bffnt_headers

import (
	"encoding/binary"
	"fmt"
)

type FFNT struct { //    Offset  Size  Description
	MagicHeader   string // 0x00    0x04  Magic Header (FFNT, CFNT, RFNT or TNFR)
	BOM           uint16 // 0x04    0x02  Byte Order Mark (0xFFFE = little, 0xFEFF = big)
	HeaderSize    uint16 // 0x06    0x02  Header Size
	Version       uint32 // 0x08    0x04  Version (0x04010000+ selects NX under little endian)
	TotalFileSize uint32 // 0x0C    0x04  File size (the total)
	SectionCount  uint16 // 0x10    0x02  Number of sections
	//                      0x12    0x02  Padding
	// RFNT/TNFR reorder the fields: version:u16, file size:u32,
	// header size:u16, section count:u16. No trailing padding.

	Platform Platform
}

const nxVersionThreshold = 0x04010000

// ByteOrder returns the byte order selected by the BOM.
func (ffnt *FFNT) ByteOrder() binary.ByteOrder {
	if ffnt.BOM == 0xFFFE {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

func (ffnt *FFNT) Decode(raw []byte) error {
	r := newReader(raw, binary.BigEndian)

	ffnt.MagicHeader = r.tag()
	ffnt.BOM = r.beU16()
	if err := r.truncated(FFNT_MAGIC_HEADER); err != nil {
		return err
	}

	switch ffnt.MagicHeader {
	case FFNT_MAGIC_HEADER, CFNT_MAGIC_HEADER, RFNT_MAGIC_HEADER, TNFR_MAGIC_HEADER:
	default:
		return formatErrf(FFNT_MAGIC_HEADER, "invalid magic %q", ffnt.MagicHeader)
	}

	r.order = ffnt.ByteOrder()
	if ffnt.MagicHeader == RFNT_MAGIC_HEADER || ffnt.MagicHeader == TNFR_MAGIC_HEADER {
		ffnt.Platform = PlatformWii
		ffnt.Version = uint32(r.u16())
		ffnt.TotalFileSize = r.u32()
		ffnt.HeaderSize = r.u16()
		ffnt.SectionCount = r.u16()
	} else {
		ffnt.HeaderSize = r.u16()
		ffnt.Version = r.u32()
		ffnt.TotalFileSize = r.u32()
		ffnt.SectionCount = r.u16()
		_ = r.u16() // padding

		switch {
		case ffnt.MagicHeader == CFNT_MAGIC_HEADER:
			ffnt.Platform = PlatformCTR
		case ffnt.BOM == 0xFFFE && ffnt.Version >= nxVersionThreshold:
			ffnt.Platform = PlatformNX
		case ffnt.BOM == 0xFFFE:
			// same FFNT magic as NX, disambiguated by version
			ffnt.Platform = PlatformCTR
		default:
			ffnt.Platform = PlatformCafe
		}
	}
	if err := r.truncated(FFNT_MAGIC_HEADER); err != nil {
		return err
	}

	if Debug {
		pprint(ffnt)
		fmt.Printf("header %d(inclusive) to %d(exclusive)\n", 0, r.pos)
	}
	return nil
}

func (ffnt *FFNT) Encode(w *writer, totalFileSize uint32) {
	start := w.pos()
	w.tag(ffnt.MagicHeader)
	w.beU16(ffnt.BOM)

	if ffnt.Platform == PlatformWii {
		w.u16(uint16(ffnt.Version))
		w.u32(totalFileSize)
		w.u16(ffnt.HeaderSize)
		w.u16(ffnt.SectionCount)
	} else {
		w.u16(ffnt.HeaderSize)
		w.u32(ffnt.Version)
		w.u32(totalFileSize)
		w.u16(ffnt.SectionCount)
		w.u16(0) // padding
	}

	// FINF follows at the declared header size, which may exceed the
	// fixed field layout.
	if pad := int(ffnt.HeaderSize) - (w.pos() - start); pad > 0 {
		w.zeros(pad)
	}
}
