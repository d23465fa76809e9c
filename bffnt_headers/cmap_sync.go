package bffnt_headers

import "sort"

// SyncCharMaps reconciles the flattened character map into the CMAP
// chain before a save, disturbing the on-disk structure as little as
// possible: some games depend on the exact chain shape, so existing
// sections are edited in place rather than rebuilt.
//
// Updates and deletions are applied per node by mapping method. A Direct
// node cannot represent a point change, so the first difference inside
// its range converts the whole node to Scan. Additions go to a Table
// node whose range already covers the code when one exists (some games
// only consult Table sections for certain ranges), and the rest are
// appended to the last Scan node, or to a new one at the end of the
// chain.
func SyncCharMaps(cmaps []CMAP, charMap map[uint32]uint16) []CMAP {
	if len(charMap) == 0 {
		return cmaps
	}

	original := FlattenCMAPs(cmaps)

	newMappings := make(map[uint32]uint16)
	updated := make(map[uint32]uint16)
	deleted := make(map[uint32]bool)

	for code, glyph := range charMap {
		origGlyph, ok := original[code]
		if !ok {
			newMappings[code] = glyph
		} else if origGlyph != glyph {
			updated[code] = glyph
		}
	}
	for code := range original {
		if _, ok := charMap[code]; !ok {
			deleted[code] = true
		}
	}
	if len(newMappings) == 0 && len(updated) == 0 && len(deleted) == 0 {
		return cmaps
	}

	// Updates and deletions, in place per node.
	for i := range cmaps {
		cmap := &cmaps[i]
		switch cmap.MappingMethod {
		case MappingDirect:
			for code := cmap.CodeBegin; code <= cmap.CodeEnd; code++ {
				_, isUpdated := updated[code]
				if !isUpdated && !deleted[code] {
					continue
				}
				// One conversion rebuilds the whole node; stop scanning.
				entries := make([]ScanEntry, 0, cmap.CodeEnd-cmap.CodeBegin+1)
				for c := cmap.CodeBegin; c <= cmap.CodeEnd; c++ {
					origGlyph := int16(c - cmap.CodeBegin + uint32(cmap.DirectOffset))
					if deleted[c] {
						continue
					}
					if g, ok := updated[c]; ok {
						entries = append(entries, ScanEntry{Code: c, Index: int16(g)})
						delete(updated, c)
					} else {
						entries = append(entries, ScanEntry{Code: c, Index: origGlyph})
					}
				}
				cmap.MappingMethod = MappingScan
				cmap.DirectOffset = 0
				cmap.Entries = entries
				if len(entries) > 0 {
					cmap.CodeBegin = entries[0].Code
					cmap.CodeEnd = entries[len(entries)-1].Code
				}
				break
			}

		case MappingTable:
			for i, code := 0, cmap.CodeBegin; code <= cmap.CodeEnd; i, code = i+1, code+1 {
				if g, ok := updated[code]; ok {
					cmap.Table[i] = int16(g)
					delete(updated, code)
				} else if deleted[code] {
					cmap.Table[i] = -1
				}
			}

		case MappingScan:
			entries := make([]ScanEntry, 0, len(cmap.Entries))
			for _, e := range cmap.Entries {
				if deleted[e.Code] {
					continue
				}
				if g, ok := updated[e.Code]; ok {
					entries = append(entries, ScanEntry{Code: e.Code, Index: int16(g)})
					delete(updated, e.Code)
				} else {
					entries = append(entries, e)
				}
			}
			cmap.Entries = entries
			if len(entries) > 0 {
				begin, end := entries[0].Code, entries[0].Code
				for _, e := range entries[1:] {
					if e.Code < begin {
						begin = e.Code
					}
					if e.Code > end {
						end = e.Code
					}
				}
				cmap.CodeBegin = begin
				cmap.CodeEnd = end
			}
		}
	}

	// Additions, Table nodes first.
	for i := range cmaps {
		cmap := &cmaps[i]
		if cmap.MappingMethod != MappingTable {
			continue
		}
		for code, glyph := range newMappings {
			if code < cmap.CodeBegin || code > cmap.CodeEnd {
				continue
			}
			idx := int(code - cmap.CodeBegin)
			if idx < len(cmap.Table) {
				cmap.Table[idx] = int16(glyph)
				delete(newMappings, code)
			}
		}
	}

	// Whatever is left lands in the last Scan node of the chain.
	if len(newMappings) > 0 {
		scanIdx := -1
		for i := len(cmaps) - 1; i >= 0; i-- {
			if cmaps[i].MappingMethod == MappingScan {
				scanIdx = i
				break
			}
		}

		if scanIdx == -1 {
			entries := make([]ScanEntry, 0, len(newMappings))
			for code, glyph := range newMappings {
				entries = append(entries, ScanEntry{Code: code, Index: int16(glyph)})
			}
			sort.Slice(entries, func(i, j int) bool { return entries[i].Code < entries[j].Code })
			cmaps = append(cmaps, CMAP{
				MagicHeader:   CMAP_MAGIC_HEADER,
				CodeBegin:     entries[0].Code,
				CodeEnd:       entries[len(entries)-1].Code,
				MappingMethod: MappingScan,
				Entries:       entries,
			})
		} else {
			scanCmap := &cmaps[scanIdx]
			for code, glyph := range newMappings {
				scanCmap.Entries = append(scanCmap.Entries, ScanEntry{Code: code, Index: int16(glyph)})
			}
			sort.Slice(scanCmap.Entries, func(i, j int) bool {
				return scanCmap.Entries[i].Code < scanCmap.Entries[j].Code
			})
			scanCmap.CodeBegin = scanCmap.Entries[0].Code
			scanCmap.CodeEnd = scanCmap.Entries[len(scanCmap.Entries)-1].Code
		}
	}

	return cmaps
}
