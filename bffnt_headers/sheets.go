package bffnt_headers

import (
	"image"

	"github.com/disintegration/imaging"
)

// Sheet decode/encode between the stored texture payloads and NRGBA
// images. Glyph alpha is the only channel a font actually carries, so
// decoded sheets are white with the coverage in the alpha channel. GPU
// platforms (Cafe and NX) store sheets bottom-up and are flipped here.

// bntxFormatInfo returns (bytes per block, block width, block height)
// for a BNTX format code. Unknown codes decode as 4-byte linear pixels.
func bntxFormatInfo(formatCode uint32) (bpp, blkW, blkH int) {
	switch formatCode {
	case 0x0101: // R8
		return 1, 1, 1
	case 0x0201: // R8G8
		return 2, 1, 1
	case 0x0B01: // R8G8B8A8
		return 4, 1, 1
	case 0x1A01, 0x1A06: // BC1
		return 8, 4, 4
	case 0x1B01: // BC2
		return 16, 4, 4
	case 0x1C01, 0x1C06: // BC3
		return 16, 4, 4
	case BNTX_FORMAT_BC4_UNORM, 0x1D02:
		return 8, 4, 4
	case 0x1E01, 0x1E02: // BC5
		return 16, 4, 4
	default:
		return 4, 1, 1
	}
}

// alphaToNRGBA expands a width*height alpha plane into a white NRGBA
// image.
func alphaToNRGBA(alpha []byte, width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < width*height && i < len(alpha); i++ {
		off := i * 4
		img.Pix[off] = 255
		img.Pix[off+1] = 255
		img.Pix[off+2] = 255
		img.Pix[off+3] = alpha[i]
	}
	return img
}

// alphaPlane extracts the alpha channel of img into a linear plane.
// Pixels outside img's bounds read as 0.
func alphaPlane(img image.Image, width, height int) []byte {
	out := make([]byte, width*height)
	b := img.Bounds()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x < b.Dx() && y < b.Dy() {
				_, _, _, a := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
				out[y*width+x] = byte(a >> 8)
			}
		}
	}
	return out
}

// decodeBNTXSheet decodes one array layer of a parsed BNTX texture.
func decodeBNTXSheet(tex *BNTXTexture, layer int) (*image.NRGBA, error) {
	bpp, blkW, blkH := bntxFormatInfo(tex.Format)
	width := int(tex.Width)
	height := int(tex.Height)

	// The BRTI image size covers the whole array; each layer occupies
	// the calculated linear footprint.
	sheetSize := divRoundUp(width, blkW) * divRoundUp(height, blkH) * bpp
	start := layer * sheetSize
	if start > len(tex.Data) {
		start = len(tex.Data)
	}
	end := start + sheetSize
	if end > len(tex.Data) {
		end = len(tex.Data)
	}

	deswizzled, err := DeswizzleBlockLinear(width, height, blkW, blkH, bpp, tex.Data[start:end])
	if err != nil {
		return nil, err
	}

	var img *image.NRGBA
	switch tex.Format {
	case BNTX_FORMAT_BC4_UNORM, 0x1D02:
		alpha, err := decodeBC4(deswizzled, width, height)
		if err != nil {
			return nil, err
		}
		img = alphaToNRGBA(alpha, width, height)

	case 0x0B01: // RGBA8, already the target layout
		img = image.NewNRGBA(image.Rect(0, 0, width, height))
		copy(img.Pix, deswizzled)

	default: // treat as one alpha byte per pixel
		img = alphaToNRGBA(deswizzled, width, height)
	}

	return imaging.FlipV(img), nil
}

// DecodeSheets turns the TGLP payload into one image per sheet. For an
// embedded BNTX each array layer is a sheet; legacy payloads decode blob
// by blob, flipped on the GPU platforms that store them bottom-up.
func DecodeSheets(tglp *TGLP, platform Platform) ([]*image.NRGBA, error) {
	if platform == PlatformNX && tglp.HasBNTX() {
		tex, err := ParseBNTX(tglp.AllSheetData())
		if err != nil {
			return nil, err
		}

		numSheets := int(tex.ArrayCount)
		if numSheets < 1 {
			numSheets = 1
		}
		sheets := make([]*image.NRGBA, 0, numSheets)
		for i := 0; i < numSheets; i++ {
			sheet, err := decodeBNTXSheet(tex, i)
			if err != nil {
				return nil, err
			}
			sheets = append(sheets, sheet)
		}
		return sheets, nil
	}

	width := int(tglp.SheetWidth)
	height := int(tglp.SheetHeight)
	sheets := make([]*image.NRGBA, 0, len(tglp.SheetData))
	for _, raw := range tglp.SheetData {
		var img *image.NRGBA
		if tglp.SheetImageFormat == TexBC4 {
			alpha, err := decodeBC4(raw, width, height)
			if err != nil {
				return nil, err
			}
			img = alphaToNRGBA(alpha, width, height)
		} else {
			img = alphaToNRGBA(raw, width, height)
		}

		if platform >= PlatformCafe {
			img = imaging.FlipV(img)
		}
		sheets = append(sheets, img)
	}
	return sheets, nil
}

// encodeSheetBC4 flips a sheet back to GPU orientation, compresses its
// alpha channel to BC4 and tiles it block-linear.
func encodeSheetBC4(sheet image.Image) ([]byte, error) {
	b := sheet.Bounds()
	width, height := b.Dx(), b.Dy()

	flipped := imaging.FlipV(sheet)
	alpha := alphaPlane(flipped, width, height)

	linear, err := encodeBC4(alpha, width, height)
	if err != nil {
		return nil, err
	}
	return SwizzleBlockLinear(width, height, bc4BlockDim, bc4BlockDim, bc4BlockSize, linear)
}

// EncodeSheets produces a replacement BNTX container for the given
// sheets. When original is a patchable container the new layers are
// spliced into it, preserving every structure this package does not
// model; otherwise a minimal container is built from scratch.
func EncodeSheets(sheets []*image.NRGBA, original []byte) ([]byte, error) {
	if len(sheets) == 0 {
		return nil, formatErrf("BNTX", "no sheets to encode")
	}

	layers := make([][]byte, 0, len(sheets))
	for _, sheet := range sheets {
		layer, err := encodeSheetBC4(sheet)
		if err != nil {
			return nil, err
		}
		layers = append(layers, layer)
	}

	if len(original) >= 4 && string(original[:4]) == BNTX_MAGIC_HEADER {
		if patched, err := PatchBNTX(original, layers); err == nil {
			return patched, nil
		}
		// fall through to a rebuild when the container has no BRTD
	}

	b := sheets[0].Bounds()
	return BuildBNTX(layers, b.Dx(), b.Dy(), BNTXBuildParams{})
}

// ExtractGlyph crops one glyph cell out of a decoded sheet. Cells are
// laid out on a grid of (CellWidth+1, CellHeight+1) strides with a one
// pixel separator border.
func ExtractGlyph(sheet image.Image, tglp *TGLP, row, column int) *image.NRGBA {
	cellW := int(tglp.CellWidth) + 1
	cellH := int(tglp.CellHeight) + 1
	x := column*cellW + 1
	y := row*cellH + 1
	return imaging.Crop(sheet, image.Rect(x, y, x+int(tglp.CellWidth), y+int(tglp.CellHeight)))
}
