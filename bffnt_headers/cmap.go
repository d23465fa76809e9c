package bffnt_headers

import "fmt"

// MappingMethod selects how a CMAP section encodes its code range.
type MappingMethod uint16

const (
	// MappingDirect stores a single glyph offset; glyph index is
	// code - CodeBegin + offset. The densest encoding.
	MappingDirect MappingMethod = iota
	// MappingTable stores one signed 16-bit glyph index per code in the
	// range, -1 for unmapped codes.
	MappingTable
	// MappingScan stores an explicit sparse (code, glyph) pair list.
	MappingScan
)

// ScanEntry is one sparse (character code, glyph index) pair.
type ScanEntry struct {
	Code  uint32
	Index int16
}

// A single CMAP maps a range of character codes to glyph indexes. All
// CMAPs in the chain must be decoded to build the full character map.
// The different mapping methods exist to save as many bytes as possible.
type CMAP struct { //      Offset  Size  Description
	MagicHeader    string        // 0x00    0x04  Magic Header (CMAP)
	SectionSize    uint32        // 0x04    0x04  Section Size
	CodeBegin      uint32        // 0x08          Code Begin (u32 on NX, u16 elsewhere)
	CodeEnd        uint32        //               Code End (inclusive)
	MappingMethod  MappingMethod //               Mapping Method (0 = Direct, 1 = Table, 2 = Scan)
	//                                            2 bytes padding
	NextCMAPOffset uint32        //               Next CMAP Offset (0 = end of chain)

	// Exactly one of the three bodies is live, selected by MappingMethod.
	DirectOffset uint16      // Direct: glyph index of CodeBegin
	Table        []int16     // Table: one index per code, -1 = unmapped
	Entries      []ScanEntry // Scan: sparse pairs
}

func (cmap *CMAP) decode(r *reader, platform Platform) error {
	headerStart := r.pos

	cmap.MagicHeader = r.tag()
	if err := r.truncated(CMAP_MAGIC_HEADER); err != nil {
		return err
	}
	if cmap.MagicHeader != CMAP_MAGIC_HEADER {
		return formatErrf(CMAP_MAGIC_HEADER, "expected CMAP section, got %q", cmap.MagicHeader)
	}

	cmap.SectionSize = r.u32()
	if platform == PlatformNX {
		cmap.CodeBegin = r.u32()
		cmap.CodeEnd = r.u32()
	} else {
		cmap.CodeBegin = uint32(r.u16())
		cmap.CodeEnd = uint32(r.u16())
	}
	cmap.MappingMethod = MappingMethod(r.u16())
	_ = r.u16() // padding
	cmap.NextCMAPOffset = r.u32()
	if err := r.truncated(CMAP_MAGIC_HEADER); err != nil {
		return err
	}

	cmap.DirectOffset = 0
	cmap.Table = nil
	cmap.Entries = nil

	switch cmap.MappingMethod {
	case MappingDirect:
		cmap.DirectOffset = r.u16()

	case MappingTable:
		count := int(cmap.CodeEnd) - int(cmap.CodeBegin) + 1
		if count < 0 {
			return formatErrf(CMAP_MAGIC_HEADER, "code range [%#x, %#x] is inverted", cmap.CodeBegin, cmap.CodeEnd)
		}
		cmap.Table = make([]int16, 0, count)
		for i := 0; i < count; i++ {
			cmap.Table = append(cmap.Table, r.s16())
		}

	case MappingScan:
		entryCount := int(r.u16())
		if platform == PlatformNX {
			_ = r.u16() // padding
		}
		cmap.Entries = make([]ScanEntry, 0, entryCount)
		for i := 0; i < entryCount; i++ {
			var e ScanEntry
			if platform == PlatformNX {
				e.Code = r.u32()
				e.Index = r.s16()
				_ = r.u16() // padding
			} else {
				e.Code = uint32(r.u16())
				e.Index = r.s16()
			}
			cmap.Entries = append(cmap.Entries, e)
		}

	default:
		return formatErrf(CMAP_MAGIC_HEADER, "unknown mapping method %d", cmap.MappingMethod)
	}
	if err := r.truncated(CMAP_MAGIC_HEADER); err != nil {
		return err
	}

	if Debug {
		pprint(cmap)
		fmt.Printf("header+data  %-8d to  %d\n", headerStart, r.pos)
	}
	return nil
}

// DecodeCMAPs walks the character map chain from startingOffset the same
// way DecodeCWDHs walks the width chain, including the cycle guard.
func DecodeCMAPs(r *reader, startingOffset uint32, platform Platform) ([]CMAP, error) {
	res := make([]CMAP, 0)

	visited := make(map[uint32]bool)
	offset := startingOffset
	for offset != 0 {
		if visited[offset] {
			return nil, formatErrf(CMAP_MAGIC_HEADER, "offset cycle at %#x", offset)
		}
		visited[offset] = true

		var cmap CMAP
		r.seek(int(offset) - 8)
		if err := cmap.decode(r, platform); err != nil {
			return nil, err
		}
		res = append(res, cmap)

		offset = cmap.NextCMAPOffset
	}

	return res, nil
}

// FlattenCMAPs builds the code to glyph lookup map from a chain, in
// chain order. Table and Scan entries always overwrite; a Direct range
// never overwrites a code registered by an earlier section. Chain order
// therefore matters, and the same rule is applied at parse time and when
// diffing for synchronization.
func FlattenCMAPs(cmaps []CMAP) map[uint32]uint16 {
	charMap := make(map[uint32]uint16)

	for _, cmap := range cmaps {
		switch cmap.MappingMethod {
		case MappingDirect:
			for code := cmap.CodeBegin; code <= cmap.CodeEnd; code++ {
				idx := code - cmap.CodeBegin + uint32(cmap.DirectOffset)
				if _, taken := charMap[code]; idx < GLYPH_INVALID && !taken {
					charMap[code] = uint16(idx)
				}
			}
		case MappingTable:
			for i, idx := range cmap.Table {
				if idx != -1 {
					charMap[cmap.CodeBegin+uint32(i)] = uint16(idx)
				}
			}
		case MappingScan:
			for _, e := range cmap.Entries {
				if e.Index != -1 {
					charMap[e.Code] = uint16(e.Index)
				}
			}
		}
	}

	return charMap
}

// encodeCMAPs mirrors encodeCWDHs: per-node size and next offset
// backpatching, 4-byte alignment, method-specific bodies. NX widens the
// code range fields and pads Scan entries to 8 bytes.
func encodeCMAPs(w *writer, cmaps []CMAP, platform Platform) {
	for i := range cmaps {
		cmap := &cmaps[i]
		sectionStart := w.pos()

		w.tag(CMAP_MAGIC_HEADER)
		sizePos := w.reserveU32()
		if platform == PlatformNX {
			w.u32(cmap.CodeBegin)
			w.u32(cmap.CodeEnd)
		} else {
			w.u16(uint16(cmap.CodeBegin))
			w.u16(uint16(cmap.CodeEnd))
		}
		w.u16(uint16(cmap.MappingMethod))
		w.u16(0) // padding
		nextPos := w.reserveU32()

		switch cmap.MappingMethod {
		case MappingDirect:
			w.u16(cmap.DirectOffset)
		case MappingTable:
			for _, idx := range cmap.Table {
				w.s16(idx)
			}
		case MappingScan:
			w.u16(uint16(len(cmap.Entries)))
			if platform == PlatformNX {
				w.u16(0) // padding
			}
			for _, e := range cmap.Entries {
				if platform == PlatformNX {
					w.u32(e.Code)
					w.s16(e.Index)
					w.u16(0) // padding
				} else {
					w.u16(uint16(e.Code))
					w.s16(e.Index)
				}
			}
		}
		w.alignTo(SECTION_ALIGNMENT)

		sectionEnd := w.pos()
		cmap.SectionSize = uint32(sectionEnd - sectionStart)
		w.patchU32(sizePos, cmap.SectionSize)

		if i < len(cmaps)-1 {
			cmap.NextCMAPOffset = uint32(sectionEnd + 8)
			w.patchU32(nextPos, cmap.NextCMAPOffset)
		} else {
			cmap.NextCMAPOffset = 0
		}
	}
}
