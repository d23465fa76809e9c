package bffnt_headers

// BC4 is a single-channel block compression: each 4x4 pixel block packs
// into 8 bytes, two endpoint values followed by 48 bits of 3-bit palette
// indices. Fonts use it as an alpha-only sheet format on NX.

const (
	bc4BlockSize = 8
	bc4BlockDim  = 4
)

// bc4Palette expands the two endpoints into the 8-entry lookup table.
// e0 > e1 selects the 8-interpolated-value mode; otherwise the 6-value
// mode with literal 0 and 255 in the last two slots. The encoder only
// ever emits the first mode, but the decoder must accept both.
func bc4Palette(e0, e1 byte) [8]byte {
	var pal [8]byte
	pal[0] = e0
	pal[1] = e1
	if e0 > e1 {
		for k := 1; k < 7; k++ {
			pal[k+1] = byte((int(e0)*(7-k) + int(e1)*k) / 7)
		}
	} else {
		for k := 1; k < 5; k++ {
			pal[k+1] = byte((int(e0)*(5-k) + int(e1)*k) / 5)
		}
		pal[6] = 0
		pal[7] = 255
	}
	return pal
}

// decodeBC4Block expands an 8-byte block into out, a width*height plane,
// anchored at pixel (x0, y0). Pixels past the plane edge are discarded.
func decodeBC4Block(block []byte, out []byte, x0, y0, width, height int) {
	pal := bc4Palette(block[0], block[1])

	// 48-bit index field, little endian.
	var bits uint64
	for i := 0; i < 6; i++ {
		bits |= uint64(block[2+i]) << (8 * i)
	}

	for py := 0; py < bc4BlockDim; py++ {
		for px := 0; px < bc4BlockDim; px++ {
			idx := bits & 0x7
			bits >>= 3

			x := x0 + px
			y := y0 + py
			if x < width && y < height {
				out[y*width+x] = pal[idx]
			}
		}
	}
}

// encodeBC4Block compresses the 4x4 region of src anchored at (x0, y0)
// into an 8-byte block. Out-of-range pixels read as 0. Endpoints are the
// block max and min, forcing the 8-value palette mode; each pixel takes
// the closest palette entry.
func encodeBC4Block(src []byte, x0, y0, width, height int) [bc4BlockSize]byte {
	var pixels [16]byte
	for py := 0; py < bc4BlockDim; py++ {
		for px := 0; px < bc4BlockDim; px++ {
			x := x0 + px
			y := y0 + py
			if x < width && y < height {
				pixels[py*bc4BlockDim+px] = src[y*width+x]
			}
		}
	}

	e0, e1 := pixels[0], pixels[0]
	for _, p := range pixels[1:] {
		if p > e0 {
			e0 = p
		}
		if p < e1 {
			e1 = p
		}
	}

	var block [bc4BlockSize]byte
	block[0] = e0
	block[1] = e1

	if e0 == e1 {
		// Flat block: every index resolves to the same value, all-zero
		// index bits are already correct.
		return block
	}

	pal := bc4Palette(e0, e1)
	var bits uint64
	for i, p := range pixels {
		best := 0
		bestDist := 256
		for j, v := range pal {
			d := int(p) - int(v)
			if d < 0 {
				d = -d
			}
			if d < bestDist {
				bestDist = d
				best = j
			}
		}
		bits |= uint64(best) << (3 * i)
	}
	for i := 0; i < 6; i++ {
		block[2+i] = byte(bits >> (8 * i))
	}
	return block
}

// decodeBC4 expands a full sheet of row-major BC4 blocks into a linear
// width*height alpha plane.
func decodeBC4(data []byte, width, height int) ([]byte, error) {
	widthInBlocks := divRoundUp(width, bc4BlockDim)
	heightInBlocks := divRoundUp(height, bc4BlockDim)
	need := widthInBlocks * heightInBlocks * bc4BlockSize
	if len(data) < need {
		return nil, formatErrf("BC4", "sheet data %d bytes, need %d for %dx%d", len(data), need, width, height)
	}

	out := make([]byte, width*height)
	for by := 0; by < heightInBlocks; by++ {
		for bx := 0; bx < widthInBlocks; bx++ {
			off := (by*widthInBlocks + bx) * bc4BlockSize
			decodeBC4Block(data[off:off+bc4BlockSize], out, bx*bc4BlockDim, by*bc4BlockDim, width, height)
		}
	}
	return out, nil
}

// encodeBC4 compresses a linear width*height alpha plane into row-major
// BC4 blocks.
func encodeBC4(alpha []byte, width, height int) ([]byte, error) {
	if len(alpha) < width*height {
		return nil, formatErrf("BC4", "alpha plane %d bytes, need %d for %dx%d", len(alpha), width*height, width, height)
	}

	widthInBlocks := divRoundUp(width, bc4BlockDim)
	heightInBlocks := divRoundUp(height, bc4BlockDim)
	out := make([]byte, widthInBlocks*heightInBlocks*bc4BlockSize)
	for by := 0; by < heightInBlocks; by++ {
		for bx := 0; bx < widthInBlocks; bx++ {
			block := encodeBC4Block(alpha, bx*bc4BlockDim, by*bc4BlockDim, width, height)
			off := (by*widthInBlocks + bx) * bc4BlockSize
			copy(out[off:off+bc4BlockSize], block[:])
		}
	}
	return out, nil
}
