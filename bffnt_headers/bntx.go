package bffnt_headers

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// BNTX is the NX binary texture container. Inside a BFFNT it replaces the
// TGLP's raw sheet blobs: the whole container sits at the TGLP data
// offset. Only the pieces a font needs are modeled here; everything this
// package does not understand (dict sections, the _RLT relocation table)
// is preserved byte for byte by the patch path.

const (
	BNTX_FORMAT_BC4_UNORM = 0x1D01

	bntxBRTDHeaderSize = 16
	bntxDataOffset     = 0x1000
)

// BNTXTexture is the texture info of one BRTI section plus its data.
type BNTXTexture struct {
	Name       string
	Width      uint32
	Height     uint32
	Format     uint32 // 0x1D01 = BC4 UNORM
	TileMode   uint16 // 0 = block linear
	NumMips    uint16
	Depth      uint32
	ArrayCount uint32
	SizeRange  uint32 // block height log2, low 3 bits of the layout field
	ImageSize  uint32 // bytes of one array layer
	Alignment  uint32
	Data       []byte // ImageSize * ArrayCount bytes, swizzled
}

// ParseBNTX extracts the first texture from a BNTX container. The BRTI
// and BRTD sections are located by tag scan rather than by walking the
// dict structures, which is how every font BNTX observed in the wild can
// be read with fixed field offsets.
func ParseBNTX(data []byte) (*BNTXTexture, error) {
	if len(data) < 0x20 || string(data[:4]) != BNTX_MAGIC_HEADER {
		return nil, formatErrf("BNTX", "bad magic")
	}

	var order binary.ByteOrder = binary.LittleEndian
	if binary.BigEndian.Uint16(data[0xC:]) != 0xFFFE {
		order = binary.BigEndian
	}

	brtiOffset := bytes.Index(data, []byte(BRTI_MAGIC_HEADER))
	if brtiOffset < 0 {
		return nil, formatErrf("BNTX", "BRTI section not found")
	}
	brti := data[brtiOffset:]
	if len(brti) < 0x68 {
		return nil, &TruncationError{Section: "BRTI", Offset: brtiOffset}
	}

	tex := &BNTXTexture{
		TileMode:   order.Uint16(brti[0x12:]),
		NumMips:    order.Uint16(brti[0x16:]),
		Format:     order.Uint32(brti[0x1C:]),
		Width:      order.Uint32(brti[0x24:]),
		Height:     order.Uint32(brti[0x28:]),
		Depth:      order.Uint32(brti[0x2C:]),
		ArrayCount: order.Uint32(brti[0x30:]),
		SizeRange:  order.Uint32(brti[0x38:]) & 0x7,
		ImageSize:  order.Uint32(brti[0x50:]),
		Alignment:  order.Uint32(brti[0x54:]),
	}

	// Name pointer at BRTI+0x60; the target is a u16-length-prefixed
	// utf-8 string relative to the container start.
	tex.Name = "texture"
	nameOffset := int64(order.Uint64(brti[0x60:]))
	if nameOffset > 0 && nameOffset+2 <= int64(len(data)) {
		nameLen := int(order.Uint16(data[nameOffset:]))
		if int(nameOffset)+2+nameLen <= len(data) {
			tex.Name = string(bytes.TrimRight(data[nameOffset+2:int(nameOffset)+2+nameLen], "\x00"))
		}
	}

	dataStart := bntxDataOffset
	if brtdOffset := bytes.Index(data, []byte(BRTD_MAGIC_HEADER)); brtdOffset >= 0 {
		dataStart = brtdOffset + bntxBRTDHeaderSize
	}

	totalSize := int(tex.ImageSize) * int(tex.ArrayCount)
	if dataStart > len(data) {
		dataStart = len(data)
	}
	if dataStart+totalSize > len(data) {
		totalSize = len(data) - dataStart
	}
	tex.Data = make([]byte, totalSize)
	copy(tex.Data, data[dataStart:dataStart+totalSize])

	if Debug {
		fmt.Printf("BNTX %s: %dx%d fmt %#x layers %d imageSize %#x\n",
			tex.Name, tex.Width, tex.Height, tex.Format, tex.ArrayCount, tex.ImageSize)
	}

	return tex, nil
}

// BNTXBuildParams configures BuildBNTX. The zero value plus a name is a
// valid BC4 font texture.
type BNTXBuildParams struct {
	Name       string
	FormatCode uint32
	Alignment  uint32
}

// BuildBNTX assembles a minimal single-texture BNTX container from
// already swizzled layer data. All layers must share the sheet geometry.
// The layout is fixed: header block at 0, NX block at 0x20, BRTI at
// 0x60, name string at 0x200, BRTD header at 0xFF0 and data at 0x1000.
func BuildBNTX(layers [][]byte, width, height int, params BNTXBuildParams) ([]byte, error) {
	if len(layers) == 0 {
		return nil, formatErrf("BNTX", "no layers to build")
	}
	if params.Name == "" {
		params.Name = "texture"
	}
	if params.FormatCode == 0 {
		params.FormatCode = BNTX_FORMAT_BC4_UNORM
	}
	if params.Alignment == 0 {
		params.Alignment = 0x200
	}

	sheetSize := len(layers[0])
	for i, layer := range layers {
		if len(layer) != sheetSize {
			return nil, formatErrf("BNTX", "layer %d is %d bytes, expected %d", i, len(layer), sheetSize)
		}
	}
	totalTexSize := sheetSize * len(layers)
	fileSize := bntxDataOffset + totalTexSize

	out := make([]byte, fileSize)
	le := binary.LittleEndian

	// Container header.
	copy(out[0:], BNTX_MAGIC_HEADER)
	le.PutUint32(out[0x04:], 0x20) // data array offset
	le.PutUint32(out[0x08:], uint32(fileSize))
	binary.BigEndian.PutUint16(out[0x0C:], 0xFFFE) // BOM, little endian
	le.PutUint16(out[0x0E:], 0x40)                 // format revision
	le.PutUint32(out[0x10:], uint32(len(params.Name)+2))
	le.PutUint32(out[0x18:], uint32(fileSize))

	// NX block with its relative section pointers.
	copy(out[0x20:], "NX  ")
	le.PutUint32(out[0x24:], 1) // texture count
	le.PutUint64(out[0x28:], 0x38)
	le.PutUint64(out[0x30:], 0x48)
	le.PutUint64(out[0x38:], 0x60)
	le.PutUint64(out[0x40:], 0x200-0x40)

	// BRTI texture info.
	brti := out[0x60:]
	copy(brti, BRTI_MAGIC_HEADER)
	le.PutUint32(brti[0x04:], 0x100) // section size
	le.PutUint32(brti[0x08:], 0x100)
	brti[0x10] = 0x01 // flags
	brti[0x11] = 0x02 // dims: 2D
	le.PutUint16(brti[0x16:], 1) // num mips
	le.PutUint32(brti[0x18:], 1) // num samples
	le.PutUint32(brti[0x1C:], params.FormatCode)
	le.PutUint32(brti[0x20:], 0x01) // GPU access
	le.PutUint32(brti[0x24:], uint32(width))
	le.PutUint32(brti[0x28:], uint32(height))
	le.PutUint32(brti[0x2C:], 1) // depth
	le.PutUint32(brti[0x30:], uint32(len(layers)))

	heightInBlocks := divRoundUp(height, bc4BlockDim)
	gobBlockHeight := blockHeight(heightInBlocks)
	blockHeightLog2 := uint32(0)
	for 1<<blockHeightLog2 < gobBlockHeight && blockHeightLog2 < 4 {
		blockHeightLog2++
	}
	le.PutUint32(brti[0x38:], blockHeightLog2)

	le.PutUint32(brti[0x50:], uint32(sheetSize))
	le.PutUint32(brti[0x54:], params.Alignment)
	le.PutUint64(brti[0x60:], 0x200) // name pointer

	// Name string, u16 length prefix.
	le.PutUint16(out[0x200:], uint16(len(params.Name)))
	copy(out[0x202:], params.Name)

	// BRTD header immediately ahead of the data page.
	brtd := out[bntxDataOffset-bntxBRTDHeaderSize:]
	copy(brtd, BRTD_MAGIC_HEADER)
	le.PutUint32(brtd[0x04:], uint32(totalTexSize+bntxBRTDHeaderSize))

	offset := bntxDataOffset
	for _, layer := range layers {
		copy(out[offset:], layer)
		offset += sheetSize
	}

	return out, nil
}

// PatchBNTX splices new swizzled layer data into an existing container,
// leaving the header, dict sections and relocation table untouched. The
// data span runs from past the BRTD header to the fileSize field at
// 0x18, which is where the _RLT table begins. Each layer is padded or
// truncated to the original per-layer size so nothing after the span
// moves.
func PatchBNTX(original []byte, layers [][]byte) ([]byte, error) {
	if len(original) < 0x20 || string(original[:4]) != BNTX_MAGIC_HEADER {
		return nil, formatErrf("BNTX", "bad magic")
	}
	if len(layers) == 0 {
		return nil, formatErrf("BNTX", "no layers to patch")
	}

	brtdOffset := bytes.Index(original, []byte(BRTD_MAGIC_HEADER))
	if brtdOffset < 0 {
		return nil, formatErrf("BNTX", "BRTD section not found")
	}
	dataStart := brtdOffset + bntxBRTDHeaderSize

	dataEnd := int(binary.LittleEndian.Uint32(original[0x18:]))
	if dataEnd >= len(original) || dataEnd <= dataStart {
		dataEnd = len(original)
	}

	origTexSize := dataEnd - dataStart
	perLayer := origTexSize / len(layers)

	result := make([]byte, len(original))
	copy(result, original)

	offset := dataStart
	for _, layer := range layers {
		n := len(layer)
		if n > perLayer {
			n = perLayer
		}
		copy(result[offset:offset+perLayer], layer[:n])
		for i := offset + n; i < offset+perLayer; i++ {
			result[i] = 0
		}
		offset += perLayer
	}

	return result, nil
}
