package bffnt_headers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildBNTXParsesBack(t *testing.T) {
	layer := fillPattern(512) // one swizzled 8x8 BC4 sheet
	raw, err := BuildBNTX([][]byte{layer, layer}, 8, 8, BNTXBuildParams{Name: "TestFont"})
	assert.NoError(t, err)
	assert.Equal(t, 0x1000+2*512, len(raw))

	tex, err := ParseBNTX(raw)
	assert.NoError(t, err)
	assert.Equal(t, "TestFont", tex.Name)
	assert.Equal(t, uint32(8), tex.Width)
	assert.Equal(t, uint32(8), tex.Height)
	assert.Equal(t, uint32(BNTX_FORMAT_BC4_UNORM), tex.Format)
	assert.Equal(t, uint16(0), tex.TileMode)
	assert.Equal(t, uint16(1), tex.NumMips)
	assert.Equal(t, uint32(2), tex.ArrayCount)
	assert.Equal(t, uint32(512), tex.ImageSize)
	assert.Equal(t, uint32(0), tex.SizeRange, "8x8 is a single GOB, block height log2 0")
	assert.Equal(t, append(append([]byte{}, layer...), layer...), tex.Data)
}

func TestParseBNTXRejectsBadMagic(t *testing.T) {
	_, err := ParseBNTX(make([]byte, 64))
	var fe *FormatError
	assert.ErrorAs(t, err, &fe)
}

func TestPatchBNTXSplicesDataOnly(t *testing.T) {
	orig, err := BuildBNTX([][]byte{fillPattern(512)}, 8, 8, BNTXBuildParams{})
	assert.NoError(t, err)

	replacement := make([]byte, 512)
	for i := range replacement {
		replacement[i] = 0xAB
	}

	patched, err := PatchBNTX(orig, [][]byte{replacement})
	assert.NoError(t, err)
	assert.Equal(t, len(orig), len(patched))
	assert.Equal(t, orig[:0x1000], patched[:0x1000], "everything before the data span is untouched")
	assert.Equal(t, replacement, patched[0x1000:])
}

func TestPatchBNTXPadsShortLayers(t *testing.T) {
	orig, err := BuildBNTX([][]byte{fillPattern(512)}, 8, 8, BNTXBuildParams{})
	assert.NoError(t, err)

	short := []byte{1, 2, 3, 4}
	patched, err := PatchBNTX(orig, [][]byte{short})
	assert.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, patched[0x1000:0x1004])
	assert.Equal(t, make([]byte, 508), patched[0x1004:], "rest of the layer zero filled")
}

func TestPatchBNTXTruncatesLongLayers(t *testing.T) {
	orig, err := BuildBNTX([][]byte{fillPattern(512)}, 8, 8, BNTXBuildParams{})
	assert.NoError(t, err)

	long := fillPattern(1024)
	patched, err := PatchBNTX(orig, [][]byte{long})
	assert.NoError(t, err)
	assert.Equal(t, len(orig), len(patched), "patch never moves bytes after the data span")
	assert.Equal(t, long[:512], patched[0x1000:])
}
