package bffnt_headers

import (
	"encoding/json"
	"fmt"
)

var (
	Debug bool
)

const (
	// number of bytes for each header size
	FFNT_HEADER_SIZE = 20
	RFNT_HEADER_SIZE = 16
	FINF_HEADER_SIZE = 32
	TGLP_HEADER_SIZE = 32
	CWDH_HEADER_SIZE = 16
	CMAP_HEADER_SIZE = 20
	KRNG_HEADER_SIZE = 8
	// NX character codes are 32-bit, widening the CMAP header by 4 bytes
	CMAP_HEADER_SIZE_NX = 24

	FFNT_MAGIC_HEADER = "FFNT"
	CFNT_MAGIC_HEADER = "CFNT"
	RFNT_MAGIC_HEADER = "RFNT"
	TNFR_MAGIC_HEADER = "TNFR" // byte-swapped RFNT
	FINF_MAGIC_HEADER = "FINF"
	TGLP_MAGIC_HEADER = "TGLP"
	CWDH_MAGIC_HEADER = "CWDH"
	CMAP_MAGIC_HEADER = "CMAP"
	KRNG_MAGIC_HEADER = "KRNG"

	BNTX_MAGIC_HEADER = "BNTX"
	BRTI_MAGIC_HEADER = "BRTI"
	BRTD_MAGIC_HEADER = "BRTD"

	// texture payload placement fixed by the on-device loader
	SHEET_DATA_ALIGNMENT = 0x1000
	SECTION_ALIGNMENT    = 4

	// glyph index sentinel for unmapped character codes
	GLYPH_INVALID = 0xFFFF
)

// Platform is derived once from the header magic, byte order mark and
// version, and fixes the character code width (16 vs 32 bit) plus the
// texture payload shape for the rest of the file.
type Platform uint8

const (
	PlatformWii  Platform = iota // RFNT, big endian legacy header layout
	PlatformCTR                  // 3DS
	PlatformCafe                 // Wii U
	PlatformNX                   // Switch, 32-bit character codes + BNTX sheets
)

func (p Platform) String() string {
	switch p {
	case PlatformWii:
		return "Wii"
	case PlatformCTR:
		return "CTR"
	case PlatformCafe:
		return "Cafe"
	case PlatformNX:
		return "NX"
	}
	return fmt.Sprintf("Platform(%d)", uint8(p))
}

// TextureFormat values used by the TGLP section.
type TextureFormat uint16

const (
	TexRGBA8888 TextureFormat = iota
	TexRGB888
	TexRGB5A1
	TexRGB565
	TexRGBA4444
	TexLA8
	TexHILO8
	TexL8
	TexA8
	TexLA4
	TexL4
	TexA4
	TexBC4
	TexBC1
	TexBC2
	TexBC3
	TexBC7
	TexBC5
)

func divRoundUp(n, d int) int {
	return (n + d - 1) / d
}

func alignUp(x, alignment int) int {
	return (x + alignment - 1) &^ (alignment - 1)
}

func pow2RoundUp(x int) int {
	x--
	x |= x >> 1
	x |= x >> 2
	x |= x >> 4
	x |= x >> 8
	x |= x >> 16
	return x + 1
}

func pprint(s interface{}) {
	jsonBytes, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		fmt.Printf("%+v\n", s)
		return
	}
	fmt.Printf("%s\n", string(jsonBytes))
}
