package bffnt_headers

import "fmt"

// BFFNT is the whole font container. Decode populates every section and
// the flattened character map; mutations happen on the in-memory model
// and Encode lays the file back down, reconciling the character map into
// the CMAP chain first.
type BFFNT struct {
	FFNT  FFNT
	FINF  FINF
	TGLP  TGLP
	CWDHs []CWDH
	CMAPs []CMAP
	KRNG  *KRNG

	// CharMap is the flattened code to glyph index view of the CMAP
	// chain. Edits go here (or through SetCharMap); Encode syncs them
	// back into the chain.
	CharMap map[uint32]uint16

	// chain node count at parse time. Encode replays the stored
	// section count adjusted by the nodes added since, rather than
	// recomputing it under an assumed counting convention.
	parsedNodes int
}

// Decode parses a complete font. The receiver is only modified on
// success; a malformed file leaves it untouched.
func (b *BFFNT) Decode(raw []byte) error {
	var res BFFNT

	if err := res.FFNT.Decode(raw); err != nil {
		return err
	}

	r := newReader(raw, res.FFNT.ByteOrder())
	// FINF starts at the declared header size, which files may inflate
	// past the fixed field layout.
	headerSize := int(res.FFNT.HeaderSize)
	if headerSize == 0 {
		headerSize = FFNT_HEADER_SIZE
		if res.FFNT.Platform == PlatformWii {
			headerSize = RFNT_HEADER_SIZE
		}
	}
	r.seek(headerSize)

	if err := res.FINF.Decode(r); err != nil {
		return err
	}

	// Section offsets are absolute + 8, pointing past the magic and
	// size prefix of their target.
	r.seek(int(res.FINF.TGLPOffset) - 8)
	if err := res.TGLP.Decode(r); err != nil {
		return err
	}

	cwdhs, err := DecodeCWDHs(r, res.FINF.CWDHOffset)
	if err != nil {
		return err
	}
	res.CWDHs = cwdhs

	cmaps, err := DecodeCMAPs(r, res.FINF.CMAPOffset, res.FFNT.Platform)
	if err != nil {
		return err
	}
	res.CMAPs = cmaps

	// Kerning trails the CMAP chain when present. Sections start on
	// 4-byte boundaries, so the scan does too.
	r.seek(alignUp(r.pos, SECTION_ALIGNMENT))
	res.KRNG = DecodeKRNG(r, res.FFNT.TotalFileSize)

	res.CharMap = FlattenCMAPs(res.CMAPs)
	res.parsedNodes = len(res.CWDHs) + len(res.CMAPs)

	*b = res
	return nil
}

// Encode serializes the font. Offsets and section sizes are recomputed
// from scratch, so a model that decoded successfully always encodes.
func (b *BFFNT) Encode() []byte {
	b.CMAPs = SyncCharMaps(b.CMAPs, b.CharMap)

	nodes := len(b.CWDHs) + len(b.CMAPs)
	if b.FFNT.SectionCount != 0 {
		b.FFNT.SectionCount += uint16(nodes - b.parsedNodes)
	} else {
		// synthesized font with no count to carry forward
		sectionCount := 2 + nodes // FINF + TGLP + chains
		if b.KRNG != nil {
			sectionCount++
		}
		b.FFNT.SectionCount = uint16(sectionCount)
	}
	b.parsedNodes = nodes

	w := newWriter(b.FFNT.ByteOrder())

	fileSizePos := 12 // FFNT layout
	if b.FFNT.Platform == PlatformWii {
		fileSizePos = 8
	}
	b.FFNT.Encode(w, 0)

	finfStart := w.pos()
	b.FINF.Encode(w, 0, 0, 0)

	tglpStart := w.pos()
	tglpSizePos, dataOffsetPos := b.TGLP.EncodeHeader(w)
	w.alignTo(SHEET_DATA_ALIGNMENT)
	dataStart := w.pos()
	w.bytes(b.TGLP.AllSheetData())
	dataEnd := w.pos()

	b.TGLP.SheetDataOffset = uint32(dataStart)
	b.TGLP.SectionSize = uint32(dataEnd - tglpStart)
	w.patchU32(dataOffsetPos, b.TGLP.SheetDataOffset)
	w.patchU32(tglpSizePos, b.TGLP.SectionSize)

	w.alignTo(SECTION_ALIGNMENT)
	cwdhOffset := uint32(0)
	if len(b.CWDHs) > 0 {
		cwdhOffset = uint32(w.pos() + 8)
		encodeCWDHs(w, b.CWDHs)
	}

	w.alignTo(SECTION_ALIGNMENT)
	cmapOffset := uint32(0)
	if len(b.CMAPs) > 0 {
		cmapOffset = uint32(w.pos() + 8)
		encodeCMAPs(w, b.CMAPs, b.FFNT.Platform)
	}

	if b.KRNG != nil {
		w.alignTo(SECTION_ALIGNMENT)
		b.KRNG.Encode(w)
	}

	b.FINF.TGLPOffset = uint32(tglpStart + 8)
	b.FINF.CWDHOffset = cwdhOffset
	b.FINF.CMAPOffset = cmapOffset
	w.patchU32(finfStart+20, b.FINF.TGLPOffset)
	w.patchU32(finfStart+24, b.FINF.CWDHOffset)
	w.patchU32(finfStart+28, b.FINF.CMAPOffset)

	b.FFNT.TotalFileSize = uint32(w.pos())
	w.patchU32(fileSizePos, b.FFNT.TotalFileSize)

	if Debug {
		fmt.Printf("encoded %d bytes, %d sections\n", b.FFNT.TotalFileSize, b.FFNT.SectionCount)
	}
	return w.buf
}

// defaultWidth is the FINF fallback width tuple.
func (b *BFFNT) defaultWidth() CharWidth {
	return CharWidth{
		LeftWidth:  int8(b.FINF.DefaultLeftWidth),
		GlyphWidth: b.FINF.DefaultGlyphWidth,
		CharWidth:  b.FINF.DefaultCharWidth,
	}
}

// LookupWidth returns the width tuple for a glyph index, or false when
// no chain node covers it.
func (b *BFFNT) LookupWidth(glyphIndex uint16) (CharWidth, bool) {
	for i := range b.CWDHs {
		cwdh := &b.CWDHs[i]
		if cwdh.StartIndex <= glyphIndex && glyphIndex <= cwdh.EndIndex {
			local := int(glyphIndex) - int(cwdh.StartIndex)
			if local < len(cwdh.Glyphs) {
				return cwdh.Glyphs[local], true
			}
		}
	}
	return CharWidth{}, false
}

// EnsureWidth returns the width tuple for a glyph index, growing the
// chain with FINF defaults when the index lies outside it: past the last
// node the node is extended forward (gap indexes get defaults too),
// below the first node entries are prepended. An index that falls in a
// gap between two interior nodes is not representable without renumbering
// the chain, so the default is returned without persisting anything.
func (b *BFFNT) EnsureWidth(glyphIndex uint16) CharWidth {
	if cw, ok := b.LookupWidth(glyphIndex); ok {
		return cw
	}

	def := b.defaultWidth()

	if len(b.CWDHs) == 0 {
		b.CWDHs = append(b.CWDHs, CWDH{
			MagicHeader: CWDH_MAGIC_HEADER,
			StartIndex:  glyphIndex,
			EndIndex:    glyphIndex,
			Glyphs:      []CharWidth{def},
		})
		return def
	}

	last := &b.CWDHs[len(b.CWDHs)-1]
	if glyphIndex > last.EndIndex {
		for i := int(last.EndIndex) + 1; i <= int(glyphIndex); i++ {
			last.Glyphs = append(last.Glyphs, def)
		}
		last.EndIndex = glyphIndex
		return def
	}

	first := &b.CWDHs[0]
	if glyphIndex < first.StartIndex {
		count := int(first.StartIndex) - int(glyphIndex)
		prefix := make([]CharWidth, count)
		for i := range prefix {
			prefix[i] = def
		}
		first.Glyphs = append(prefix, first.Glyphs...)
		first.StartIndex = glyphIndex
		return def
	}

	return def
}

// SetWidth overwrites the width tuple of a glyph already covered by the
// chain. Returns false when no node covers the index.
func (b *BFFNT) SetWidth(glyphIndex uint16, cw CharWidth) bool {
	for i := range b.CWDHs {
		cwdh := &b.CWDHs[i]
		if cwdh.StartIndex <= glyphIndex && glyphIndex <= cwdh.EndIndex {
			local := int(glyphIndex) - int(cwdh.StartIndex)
			if local < len(cwdh.Glyphs) {
				cwdh.Glyphs[local] = cw
				return true
			}
		}
	}
	return false
}

// GlyphIndex resolves a character code, GLYPH_INVALID when unmapped.
func (b *BFFNT) GlyphIndex(code uint32) uint16 {
	if idx, ok := b.CharMap[code]; ok {
		return idx
	}
	return GLYPH_INVALID
}

// SetCharMap maps a character code to a glyph index. The change reaches
// the CMAP chain on the next Encode.
func (b *BFFNT) SetCharMap(code uint32, glyphIndex uint16) {
	if b.CharMap == nil {
		b.CharMap = make(map[uint32]uint16)
	}
	b.CharMap[code] = glyphIndex
}

// ReplaceCharMap swaps in a whole new code to glyph mapping.
func (b *BFFNT) ReplaceCharMap(charMap map[uint32]uint16) {
	b.CharMap = charMap
}

// GlyphPosition locates a glyph index on the sheet grid.
func (b *BFFNT) GlyphPosition(glyphIndex uint16) (sheet, row, column int) {
	perSheet := int(b.TGLP.NumOfColumns) * int(b.TGLP.NumOfRows)
	if perSheet == 0 {
		return 0, 0, 0
	}
	sheet = int(glyphIndex) / perSheet
	local := int(glyphIndex) % perSheet
	row = local / int(b.TGLP.NumOfColumns)
	column = local % int(b.TGLP.NumOfColumns)
	return sheet, row, column
}

// UpdateTextures replaces the TGLP payload with a new BNTX blob, split
// evenly across numSheets slots the way the on-disk format stores it.
// Any remainder bytes stay with the last slot.
func (b *BFFNT) UpdateTextures(bntx []byte, numSheets int) {
	if numSheets < 1 {
		numSheets = int(b.TGLP.NumOfSheets)
		if numSheets < 1 {
			numSheets = 1
		}
	}

	sheetSize := len(bntx) / numSheets
	sheetData := make([][]byte, 0, numSheets)
	offset := 0
	for i := 0; i < numSheets; i++ {
		end := offset + sheetSize
		if i == numSheets-1 {
			end = len(bntx)
		}
		chunk := make([]byte, end-offset)
		copy(chunk, bntx[offset:end])
		sheetData = append(sheetData, chunk)
		offset = end
	}

	b.TGLP.SheetData = sheetData
	b.TGLP.NumOfSheets = uint8(numSheets)
	b.TGLP.SheetSize = uint32(sheetSize)
}
