package bffnt_headers

import (
	"encoding/binary"
	"fmt"
)

type TGLP struct { //     Offset  Size  Description
	MagicHeader      string        // 0x00    0x04  Magic Header (TGLP)
	SectionSize      uint32        // 0x04    0x04  Section Size
	CellWidth        uint8         // 0x08    0x01  Cell Width
	CellHeight       uint8         // 0x09    0x01  Cell Height
	NumOfSheets      uint8         // 0x0A    0x01  Number of Sheets
	MaxCharWidth     uint8         // 0x0B    0x01  Max Character Width
	SheetSize        uint32        // 0x0C    0x04  Sheet Size
	BaselinePosition uint16        // 0x10    0x02  Baseline Position
	SheetImageFormat TextureFormat // 0x12    0x02  Sheet Image Format
	NumOfColumns     uint16        // 0x14    0x02  Number of Sheet columns
	NumOfRows        uint16        // 0x16    0x02  Number of Sheet rows
	SheetWidth       uint16        // 0x18    0x02  Sheet Width
	SheetHeight      uint16        // 0x1A    0x02  Sheet Height
	SheetDataOffset  uint32        // 0x1C    0x04  Sheet Data Offset (absolute)

	// Either NumOfSheets legacy blobs of SheetSize bytes each, or a
	// single BNTX container blob holding every sheet as an array layer.
	// Which one is sniffed from the payload magic at SheetDataOffset.
	SheetData [][]byte
}

// HasBNTX reports whether the sheet payload is one embedded BNTX
// container rather than legacy per-sheet blobs.
func (tglp *TGLP) HasBNTX() bool {
	return len(tglp.SheetData) > 0 && len(tglp.SheetData[0]) >= 4 &&
		string(tglp.SheetData[0][:4]) == BNTX_MAGIC_HEADER
}

// AllSheetData returns the concatenation of every sheet blob, which is
// exactly the byte range the writer lays down at the data offset.
func (tglp *TGLP) AllSheetData() []byte {
	total := 0
	for _, sheet := range tglp.SheetData {
		total += len(sheet)
	}
	all := make([]byte, 0, total)
	for _, sheet := range tglp.SheetData {
		all = append(all, sheet...)
	}
	return all
}

func (tglp *TGLP) Decode(r *reader) error {
	headerStart := r.pos

	tglp.MagicHeader = r.tag()
	if err := r.truncated(TGLP_MAGIC_HEADER); err != nil {
		return err
	}
	if tglp.MagicHeader != TGLP_MAGIC_HEADER {
		return formatErrf(TGLP_MAGIC_HEADER, "expected TGLP section, got %q", tglp.MagicHeader)
	}

	tglp.SectionSize = r.u32()
	tglp.CellWidth = r.u8()
	tglp.CellHeight = r.u8()
	tglp.NumOfSheets = r.u8()
	tglp.MaxCharWidth = r.u8()
	tglp.SheetSize = r.u32()
	tglp.BaselinePosition = r.u16()
	tglp.SheetImageFormat = TextureFormat(r.u16())
	tglp.NumOfColumns = r.u16()
	tglp.NumOfRows = r.u16()
	tglp.SheetWidth = r.u16()
	tglp.SheetHeight = r.u16()
	tglp.SheetDataOffset = r.u32()
	if err := r.truncated(TGLP_MAGIC_HEADER); err != nil {
		return err
	}
	headerEnd := r.pos

	tglp.SheetData = nil
	if tglp.SheetDataOffset != 0 {
		r.seek(int(tglp.SheetDataOffset))
		magic := r.tag()
		r.seek(int(tglp.SheetDataOffset))

		if magic == BNTX_MAGIC_HEADER {
			// The whole container is kept as one blob; its own header
			// at +0x18 declares the total size. The BNTX size field is
			// little endian on every file that embeds one.
			r.seek(int(tglp.SheetDataOffset) + 0x18)
			saved := r.order
			r.order = binary.LittleEndian
			bntxTotalSize := r.u32()
			r.order = saved
			r.seek(int(tglp.SheetDataOffset))
			// An implausible declared size degrades to consuming the
			// rest of the stream instead of failing.
			size := int(bntxTotalSize)
			if size <= 0 || size > r.remaining() {
				size = r.remaining()
			}
			tglp.SheetData = append(tglp.SheetData, r.bytes(size))
		} else {
			for i := 0; i < int(tglp.NumOfSheets); i++ {
				tglp.SheetData = append(tglp.SheetData, r.bytes(int(tglp.SheetSize)))
			}
		}
		if err := r.truncated(TGLP_MAGIC_HEADER); err != nil {
			return err
		}
	}

	if Debug {
		pprint(tglp)
		fmt.Printf("header      %-8d to  %d\n", headerStart, headerEnd)
		fmt.Printf("image data  %-8d to  %d\n", tglp.SheetDataOffset, int(tglp.SheetDataOffset)+len(tglp.AllSheetData()))
	}
	return nil
}

// EncodeHeader emits the 32-byte header with placeholder section size and
// data offset; both are backpatched once the payload position is known.
func (tglp *TGLP) EncodeHeader(w *writer) (sectionSizePos, dataOffsetPos int) {
	w.tag(tglp.MagicHeader)
	sectionSizePos = w.reserveU32()
	w.u8(tglp.CellWidth)
	w.u8(tglp.CellHeight)
	w.u8(tglp.NumOfSheets)
	w.u8(tglp.MaxCharWidth)
	w.u32(tglp.SheetSize)
	w.u16(tglp.BaselinePosition)
	w.u16(uint16(tglp.SheetImageFormat))
	w.u16(tglp.NumOfColumns)
	w.u16(tglp.NumOfRows)
	w.u16(tglp.SheetWidth)
	w.u16(tglp.SheetHeight)
	dataOffsetPos = w.reserveU32()
	return sectionSizePos, dataOffsetPos
}
