package bffnt_headers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// directTableFixture builds a Direct node mapping codes 10..20 to glyphs
// 100..110 and a Table node over the same range assigning 999 to code 15
// only.
func directTableFixture() (CMAP, CMAP) {
	direct := CMAP{
		MagicHeader:   CMAP_MAGIC_HEADER,
		CodeBegin:     10,
		CodeEnd:       20,
		MappingMethod: MappingDirect,
		DirectOffset:  100,
	}

	table := CMAP{
		MagicHeader:   CMAP_MAGIC_HEADER,
		CodeBegin:     10,
		CodeEnd:       20,
		MappingMethod: MappingTable,
		Table:         make([]int16, 11),
	}
	for i := range table.Table {
		table.Table[i] = -1
	}
	table.Table[15-10] = 999
	return direct, table
}

func TestFlattenPrecedenceDirectFirst(t *testing.T) {
	direct, table := directTableFixture()

	charMap := FlattenCMAPs([]CMAP{direct, table})

	// Direct registered 15 -> 105 first; Table overwrites unconditionally.
	assert.Equal(t, uint16(999), charMap[15])
	assert.Equal(t, uint16(100), charMap[10])
	assert.Equal(t, uint16(110), charMap[20])
}

func TestFlattenPrecedenceTableFirst(t *testing.T) {
	direct, table := directTableFixture()

	charMap := FlattenCMAPs([]CMAP{table, direct})

	// Table registered 15 -> 999 first; Direct never overwrites an
	// existing key, so 999 survives while the rest of the range fills
	// from the Direct node.
	assert.Equal(t, uint16(999), charMap[15])
	assert.Equal(t, uint16(100), charMap[10])
	assert.Equal(t, uint16(110), charMap[20])
}

func TestFlattenDirectSkipsInvalidIndexes(t *testing.T) {
	direct := CMAP{
		MagicHeader:   CMAP_MAGIC_HEADER,
		CodeBegin:     10,
		CodeEnd:       12,
		MappingMethod: MappingDirect,
		DirectOffset:  0xFFFE,
	}

	charMap := FlattenCMAPs([]CMAP{direct})

	// 10 -> 0xFFFE is valid; 11 -> 0xFFFF and 12 -> 0x10000 are not.
	assert.Equal(t, uint16(0xFFFE), charMap[10])
	_, ok := charMap[11]
	assert.False(t, ok)
	_, ok = charMap[12]
	assert.False(t, ok)
}

func TestSyncAddsToCoveringTableNode(t *testing.T) {
	table := CMAP{
		MagicHeader:   CMAP_MAGIC_HEADER,
		CodeBegin:     0x40,
		CodeEnd:       0x4F,
		MappingMethod: MappingTable,
		Table:         make([]int16, 16),
	}
	for i := range table.Table {
		table.Table[i] = -1
	}
	table.Table[0] = 1

	charMap := FlattenCMAPs([]CMAP{table})
	charMap[0x42] = 7 // inside the Table range
	charMap[0x80] = 9 // outside every node

	cmaps := SyncCharMaps([]CMAP{table}, charMap)

	assert.Len(t, cmaps, 2, "out-of-range addition appends a Scan node")
	assert.Equal(t, int16(7), cmaps[0].Table[2])
	assert.Equal(t, MappingScan, cmaps[1].MappingMethod)
	assert.Equal(t, []ScanEntry{{Code: 0x80, Index: 9}}, cmaps[1].Entries)
	assert.Equal(t, uint32(0x80), cmaps[1].CodeBegin)
	assert.Equal(t, uint32(0x80), cmaps[1].CodeEnd)
}

func TestSyncUpdateAndDelete(t *testing.T) {
	scan := CMAP{
		MagicHeader:   CMAP_MAGIC_HEADER,
		CodeBegin:     0x41,
		CodeEnd:       0x43,
		MappingMethod: MappingScan,
		Entries: []ScanEntry{
			{Code: 0x41, Index: 1},
			{Code: 0x42, Index: 2},
			{Code: 0x43, Index: 3},
		},
	}

	charMap := FlattenCMAPs([]CMAP{scan})
	charMap[0x42] = 22    // update
	delete(charMap, 0x43) // delete

	cmaps := SyncCharMaps([]CMAP{scan}, charMap)

	assert.Len(t, cmaps, 1)
	assert.Equal(t, []ScanEntry{
		{Code: 0x41, Index: 1},
		{Code: 0x42, Index: 22},
	}, cmaps[0].Entries)
	assert.Equal(t, uint32(0x41), cmaps[0].CodeBegin)
	assert.Equal(t, uint32(0x42), cmaps[0].CodeEnd)
}

func TestSyncConvertsDirectToScanOnFirstDifference(t *testing.T) {
	direct := CMAP{
		MagicHeader:   CMAP_MAGIC_HEADER,
		CodeBegin:     10,
		CodeEnd:       13,
		MappingMethod: MappingDirect,
		DirectOffset:  100,
	}

	charMap := FlattenCMAPs([]CMAP{direct})
	charMap[11] = 500

	cmaps := SyncCharMaps([]CMAP{direct}, charMap)

	assert.Len(t, cmaps, 1)
	assert.Equal(t, MappingScan, cmaps[0].MappingMethod)
	assert.Equal(t, []ScanEntry{
		{Code: 10, Index: 100},
		{Code: 11, Index: 500},
		{Code: 12, Index: 102},
		{Code: 13, Index: 103},
	}, cmaps[0].Entries)
}

func TestSyncIdempotent(t *testing.T) {
	direct, table := directTableFixture()
	scan := CMAP{
		MagicHeader:   CMAP_MAGIC_HEADER,
		CodeBegin:     0x100,
		CodeEnd:       0x102,
		MappingMethod: MappingScan,
		Entries: []ScanEntry{
			{Code: 0x100, Index: 300},
			{Code: 0x102, Index: 302},
		},
	}

	cmaps := []CMAP{direct, table, scan}
	charMap := FlattenCMAPs(cmaps)
	charMap[0x101] = 301
	delete(charMap, 20)

	once := SyncCharMaps(cmaps, charMap)
	twice := SyncCharMaps(once, charMap)
	assert.Equal(t, once, twice, "second sync with no mutations must be a no-op")
	assert.Equal(t, charMap, FlattenCMAPs(once), "sync must converge on the edited map")
}

func TestSyncEmptyMapLeavesChainAlone(t *testing.T) {
	direct, _ := directTableFixture()
	cmaps := []CMAP{direct}

	synced := SyncCharMaps(cmaps, map[uint32]uint16{})
	assert.Equal(t, cmaps, synced)
}
