package bffnt_headers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBC4AllEqualBlockRoundTripsExactly(t *testing.T) {
	for _, v := range []byte{0, 1, 127, 254, 255} {
		plane := make([]byte, 16)
		for i := range plane {
			plane[i] = v
		}

		block := encodeBC4Block(plane, 0, 0, 4, 4)
		out := make([]byte, 16)
		decodeBC4Block(block[:], out, 0, 0, 4, 4)
		assert.Equal(t, plane, out, "flat block of %d must round-trip exactly", v)
	}
}

func TestBC4RoundTripLossinessBound(t *testing.T) {
	// A gradient block exercises every palette slot. The encoder picks
	// the nearest of 8 evenly spaced values between block min and max,
	// so no byte may drift further than half the table step.
	plane := []byte{
		0, 16, 32, 48,
		64, 80, 96, 112,
		128, 160, 192, 224,
		240, 250, 252, 255,
	}

	block := encodeBC4Block(plane, 0, 0, 4, 4)
	out := make([]byte, 16)
	decodeBC4Block(block[:], out, 0, 0, 4, 4)

	min, max := plane[0], plane[0]
	for _, p := range plane {
		if p < min {
			min = p
		}
		if p > max {
			max = p
		}
	}
	bound := (int(max) - int(min) + 13) / 14 // half of one interpolation step, rounded up

	for i := range plane {
		diff := int(plane[i]) - int(out[i])
		if diff < 0 {
			diff = -diff
		}
		assert.LessOrEqual(t, diff, bound, "pixel %d: %d decoded as %d", i, plane[i], out[i])
	}
}

func TestBC4DecodeSixValueMode(t *testing.T) {
	// e0 <= e1 selects the 6-value palette with literal 0 and 255. The
	// encoder never emits this mode but foreign files may carry it.
	block := []byte{100, 200, 0, 0, 0, 0, 0, 0}
	pal := bc4Palette(block[0], block[1])

	assert.Equal(t, byte(100), pal[0])
	assert.Equal(t, byte(200), pal[1])
	assert.Equal(t, byte(0), pal[6])
	assert.Equal(t, byte(255), pal[7])
	// interpolated slots walk from e0 toward e1
	assert.Equal(t, byte((4*100+1*200)/5), pal[2])
	assert.Equal(t, byte((1*100+4*200)/5), pal[5])

	out := make([]byte, 16)
	decodeBC4Block(block, out, 0, 0, 4, 4)
	for i := range out {
		assert.Equal(t, byte(100), out[i], "all-zero indices select palette slot 0")
	}
}

func TestBC4SheetCodec(t *testing.T) {
	// 8x8 plane as a checkerboard of flat 4x4 blocks, so encoding is
	// exact.
	plane := make([]byte, 64)
	for i := range plane {
		if (i/4+i/32)%2 == 0 {
			plane[i] = 255
		}
	}

	encoded, err := encodeBC4(plane, 8, 8)
	assert.NoError(t, err)
	assert.Equal(t, 2*2*bc4BlockSize, len(encoded))

	decoded, err := decodeBC4(encoded, 8, 8)
	assert.NoError(t, err)
	assert.Equal(t, plane, decoded, "two-tone blocks are exactly representable")
}

func TestBC4SheetTruncated(t *testing.T) {
	_, err := decodeBC4(make([]byte, 8), 8, 8)
	assert.Error(t, err)
	var fe *FormatError
	assert.ErrorAs(t, err, &fe)
}
