package bffnt_headers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// fillPattern fills a buffer with a deterministic byte sequence so
// misplaced blocks are visible as value mismatches, not just zeroes.
func fillPattern(n int) []byte {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = byte(i*7 + i>>8)
	}
	return buf
}

func TestSwizzleInverse(t *testing.T) {
	cases := []struct {
		name          string
		width, height int
		blkW, blkH    int
		bytesPerBlock int
	}{
		{"bc4 8x8", 8, 8, 4, 4, 8},
		{"bc4 64x64", 64, 64, 4, 4, 8},
		{"bc4 256x128", 256, 128, 4, 4, 8},
		{"bc4 non-square 100x60", 100, 60, 4, 4, 8},
		{"bc4 tall 32x512", 32, 512, 4, 4, 8},
		{"rgba8 16x16", 16, 16, 1, 1, 4},
		{"rgba8 128x32", 128, 32, 1, 1, 4},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			widthInBlocks := divRoundUp(tc.width, tc.blkW)
			heightInBlocks := divRoundUp(tc.height, tc.blkH)
			linear := fillPattern(widthInBlocks * heightInBlocks * tc.bytesPerBlock)

			swizzled, err := SwizzleBlockLinear(tc.width, tc.height, tc.blkW, tc.blkH, tc.bytesPerBlock, linear)
			assert.NoError(t, err)
			assert.GreaterOrEqual(t, len(swizzled), len(linear))

			back, err := DeswizzleBlockLinear(tc.width, tc.height, tc.blkW, tc.blkH, tc.bytesPerBlock, swizzled)
			assert.NoError(t, err)
			assert.Equal(t, linear, back, "deswizzle(swizzle(x)) did not reproduce the input")
		})
	}
}

func TestSwizzleSizeIsWholeGobBlocks(t *testing.T) {
	// 8x8 BC4: 2x2 blocks of 8 bytes is 32 linear bytes, padded out to a
	// single 512-byte GOB.
	linear := fillPattern(32)
	swizzled, err := SwizzleBlockLinear(8, 8, 4, 4, 8, linear)
	assert.NoError(t, err)
	assert.Equal(t, 512, len(swizzled))
}

func TestDeswizzleSkipsOutOfRangeBlocks(t *testing.T) {
	// A source shorter than the tiled footprint leaves the unreachable
	// blocks zeroed instead of failing.
	short := fillPattern(16)
	out, err := DeswizzleBlockLinear(8, 8, 4, 4, 8, short)
	assert.NoError(t, err)
	assert.Equal(t, 32, len(out))
}

func TestBlockHeightCap(t *testing.T) {
	assert.Equal(t, 1, blockHeight(1))
	assert.Equal(t, 1, blockHeight(8))
	assert.Equal(t, 2, blockHeight(9))
	assert.Equal(t, 4, blockHeight(32))
	assert.Equal(t, 16, blockHeight(128))
	assert.Equal(t, 16, blockHeight(100000))
}
