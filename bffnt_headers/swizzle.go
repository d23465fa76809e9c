package bffnt_headers

import "fmt"

// Block-linear ("GOB") tiling used by the NX GPU. A GOB is a 512-byte
// granule of 64-byte sectors; rows of pixel blocks are interleaved across
// GOBs, and whole GOB rows are grouped into blocks of blockHeight GOBs.
//
// Ported from the Tegra X1 TRM address formula, by way of
// BNTX-Extractor (AboodXD) and KillzXGaming/Switch-Toolbox.

const gobSize = 512

// blockHeight computes the effective GOB block height for a surface of
// the given height in blocks: the next power of two of height/8, capped
// at 16. Decode, encode and the BNTX builder must all agree on this
// value, since it is also packed into the BRTI texture layout field.
func blockHeight(heightInBlocks int) int {
	bh := pow2RoundUp(divRoundUp(heightInBlocks, 8))
	if bh > 16 {
		bh = 16
	}
	return bh
}

// blockLinearAddr returns the byte offset of block (x, y) within a
// block-linear tiled buffer. Pure function of the coordinates and
// geometry; must stay bit-exact.
func blockLinearAddr(x, y, widthInBlocks, bytesPerBlock, blockHeight int) int {
	widthInGobs := divRoundUp(widthInBlocks*bytesPerBlock, 64)

	gobAddr := (y/(8*blockHeight))*gobSize*blockHeight*widthInGobs +
		(x*bytesPerBlock/64)*gobSize*blockHeight +
		(y%(8*blockHeight)/8)*gobSize

	xb := x * bytesPerBlock
	return gobAddr +
		(xb%64/32)*256 +
		(y%8/2)*64 +
		(xb%32/16)*32 +
		(y%2)*16 +
		xb%16
}

// surfaceGeometry validates and derives the block-space dimensions for a
// tiled surface. blkW/blkH are the pixel footprint of one block (1x1 for
// uncompressed formats, 4x4 for BCn).
func surfaceGeometry(width, height, blkW, blkH int) (widthInBlocks, heightInBlocks int, err error) {
	widthInBlocks = divRoundUp(width, blkW)
	heightInBlocks = divRoundUp(height, blkH)
	if widthInBlocks <= 0 || heightInBlocks <= 0 {
		return 0, 0, &GeometryError{
			Msg: fmt.Sprintf("surface %dx%d yields %dx%d blocks", width, height, widthInBlocks, heightInBlocks),
		}
	}
	return widthInBlocks, heightInBlocks, nil
}

// DeswizzleBlockLinear converts tiled data to a linear row-major block
// array. Blocks whose tiled address falls outside the source are skipped:
// the format over-allocates GOB padding, so out-of-range blocks are
// don't-care, not errors.
func DeswizzleBlockLinear(width, height, blkW, blkH, bytesPerBlock int, data []byte) ([]byte, error) {
	widthInBlocks, heightInBlocks, err := surfaceGeometry(width, height, blkW, blkH)
	if err != nil {
		return nil, err
	}
	gobBlockHeight := blockHeight(heightInBlocks)

	linearSize := widthInBlocks * heightInBlocks * bytesPerBlock
	result := make([]byte, linearSize)

	for y := 0; y < heightInBlocks; y++ {
		for x := 0; x < widthInBlocks; x++ {
			pos := blockLinearAddr(x, y, widthInBlocks, bytesPerBlock, gobBlockHeight)
			posLinear := (y*widthInBlocks + x) * bytesPerBlock

			if pos+bytesPerBlock <= len(data) && posLinear+bytesPerBlock <= linearSize {
				copy(result[posLinear:posLinear+bytesPerBlock], data[pos:pos+bytesPerBlock])
			}
		}
	}

	return result, nil
}

// SwizzleBlockLinear is the exact inverse of DeswizzleBlockLinear. The
// output is sized up to whole GOB blocks so every computed address has a
// home, with zero fill in the padding.
func SwizzleBlockLinear(width, height, blkW, blkH, bytesPerBlock int, data []byte) ([]byte, error) {
	widthInBlocks, heightInBlocks, err := surfaceGeometry(width, height, blkW, blkH)
	if err != nil {
		return nil, err
	}
	gobBlockHeight := blockHeight(heightInBlocks)

	widthInGobs := divRoundUp(widthInBlocks*bytesPerBlock, 64)
	heightInGobBlocks := divRoundUp(heightInBlocks, 8*gobBlockHeight)
	swizzledSize := widthInGobs * heightInGobBlocks * gobSize * gobBlockHeight

	linearSize := widthInBlocks * heightInBlocks * bytesPerBlock
	if swizzledSize < linearSize {
		swizzledSize = linearSize
	}
	result := make([]byte, swizzledSize)

	for y := 0; y < heightInBlocks; y++ {
		for x := 0; x < widthInBlocks; x++ {
			posLinear := (y*widthInBlocks + x) * bytesPerBlock
			pos := blockLinearAddr(x, y, widthInBlocks, bytesPerBlock, gobBlockHeight)

			if posLinear+bytesPerBlock <= len(data) && pos+bytesPerBlock <= swizzledSize {
				copy(result[pos:pos+bytesPerBlock], data[posLinear:posLinear+bytesPerBlock])
			}
		}
	}

	return result, nil
}
