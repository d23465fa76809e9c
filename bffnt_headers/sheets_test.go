package bffnt_headers

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeSheetsPatchRoundTrip(t *testing.T) {
	raw, _ := syntheticNXFont(t)

	var b BFFNT
	assert.NoError(t, b.Decode(raw))
	original := b.TGLP.AllSheetData()

	sheets, err := DecodeSheets(&b.TGLP, b.FFNT.Platform)
	assert.NoError(t, err)
	assert.Len(t, sheets, 1)

	// Solid alpha sheets are exactly representable in BC4, so patching
	// the decoded sheets back in must reproduce the container.
	patched, err := EncodeSheets(sheets, original)
	assert.NoError(t, err)
	assert.Equal(t, original, patched)
}

func TestEncodeSheetsRebuildsWithoutContainer(t *testing.T) {
	sheet := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for i := 0; i < 64; i++ {
		sheet.Pix[i*4+3] = 128
	}

	raw, err := EncodeSheets([]*image.NRGBA{sheet}, nil)
	assert.NoError(t, err)

	tex, err := ParseBNTX(raw)
	assert.NoError(t, err)
	assert.Equal(t, uint32(8), tex.Width)
	assert.Equal(t, uint32(BNTX_FORMAT_BC4_UNORM), tex.Format)
	assert.Equal(t, uint32(1), tex.ArrayCount)
}

func TestDecodeSheetsLegacyFlipsGPUPlatforms(t *testing.T) {
	// 2x2 A8 sheet, distinct per-pixel alpha. CTR keeps scanline order,
	// Cafe stores bottom-up and is flipped on decode.
	tglp := TGLP{
		SheetImageFormat: TexA8,
		SheetWidth:       2,
		SheetHeight:      2,
		SheetData:        [][]byte{{10, 20, 30, 40}},
	}

	ctr, err := DecodeSheets(&tglp, PlatformCTR)
	assert.NoError(t, err)
	assert.Equal(t, byte(10), ctr[0].Pix[3], "top-left alpha")

	cafe, err := DecodeSheets(&tglp, PlatformCafe)
	assert.NoError(t, err)
	assert.Equal(t, byte(30), cafe[0].Pix[3], "bottom row flips to the top")
}

func TestExtractGlyph(t *testing.T) {
	tglp := TGLP{CellWidth: 7, CellHeight: 7}
	sheet := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	sheet.SetNRGBA(9, 1, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	glyph := ExtractGlyph(sheet, &tglp, 0, 1)
	assert.Equal(t, 7, glyph.Bounds().Dx())
	assert.Equal(t, 7, glyph.Bounds().Dy())
	// (9,1) sits at (0,0) of the second column's cell
	assert.Equal(t, byte(255), glyph.Pix[3])
}
