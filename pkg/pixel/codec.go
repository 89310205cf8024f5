package pixel

// rgb565To888Table5 expands a 5-bit channel to 8 bits
var rgb565To888Table5 = [32]uint8{
	0x00, 0x08, 0x10, 0x19, 0x21, 0x29, 0x31, 0x3A, 0x42, 0x4A, 0x52, 0x5A, 0x63, 0x6B, 0x73, 0x7B,
	0x84, 0x8C, 0x94, 0x9C, 0xA5, 0xAD, 0xB5, 0xBD, 0xC5, 0xCE, 0xD6, 0xDE, 0xE6, 0xEF, 0xF7, 0xFF,
}

// rgb565To888Table6 expands a 6-bit channel to 8 bits
var rgb565To888Table6 = [64]uint8{
	0x00, 0x04, 0x08, 0x0C, 0x10, 0x14, 0x18, 0x1C, 0x20, 0x24, 0x28, 0x2D, 0x31, 0x35, 0x39, 0x3D,
	0x41, 0x45, 0x49, 0x4D, 0x51, 0x55, 0x59, 0x5D, 0x61, 0x65, 0x69, 0x6D, 0x71, 0x75, 0x79, 0x7D,
	0x82, 0x86, 0x8A, 0x8E, 0x92, 0x96, 0x9A, 0x9E, 0xA2, 0xA6, 0xAA, 0xAE, 0xB2, 0xB6, 0xBA, 0xBE,
	0xC2, 0xC6, 0xCA, 0xCE, 0xD2, 0xD7, 0xDB, 0xDF, 0xE3, 0xE7, 0xEB, 0xEF, 0xF3, 0xF7, 0xFB, 0xFF,
}

// rgb is one pixel in logical channel order
type rgb struct {
	R, G, B uint8
}

func rgbFromColor(c uint32) rgb {
	return rgb{R: uint8(c >> 16), G: uint8(c >> 8), B: uint8(c)}
}

// luma uses the BT.601 weights in thousandths
func (c rgb) luma() uint8 {
	return uint8((int(c.R)*299 + int(c.G)*587 + int(c.B)*114) / 1000)
}

// pixelCodec centralises the byte layout of one directly addressable format.
// idx is a pixel index, not a byte offset.
type pixelCodec interface {
	bytesPerPixel() int
	read(buf []byte, idx int) rgb
	write(buf []byte, idx int, c rgb)
}

type grayCodec struct{}

func (grayCodec) bytesPerPixel() int { return 1 }

func (grayCodec) read(buf []byte, idx int) rgb {
	v := buf[idx]
	return rgb{v, v, v}
}

func (grayCodec) write(buf []byte, idx int, c rgb) {
	buf[idx] = c.luma()
}

// rgb565Codec stores big-endian 5/6/5: RRRRRGGG GGGBBBBB
type rgb565Codec struct{}

func (rgb565Codec) bytesPerPixel() int { return 2 }

func (rgb565Codec) read(buf []byte, idx int) rgb {
	hi, lo := buf[idx*2], buf[idx*2+1]
	return rgb{
		R: rgb565To888Table5[(hi&0xF8)>>3],
		G: rgb565To888Table6[(hi&0x07)<<3|(lo&0xE0)>>5],
		B: rgb565To888Table5[lo&0x1F],
	}
}

func (rgb565Codec) write(buf []byte, idx int, c rgb) {
	buf[idx*2] = (c.R & 0xF8) | (c.G >> 5)
	buf[idx*2+1] = ((c.G << 3) & 0xE0) | (c.B >> 3)
}

type rgb888Codec struct{}

func (rgb888Codec) bytesPerPixel() int { return 3 }

func (rgb888Codec) read(buf []byte, idx int) rgb {
	p := buf[idx*3 : idx*3+3 : idx*3+3]
	return rgb{p[0], p[1], p[2]}
}

func (rgb888Codec) write(buf []byte, idx int, c rgb) {
	p := buf[idx*3 : idx*3+3 : idx*3+3]
	p[0], p[1], p[2] = c.R, c.G, c.B
}

// codecFor returns nil for formats without a fixed per-pixel layout
func codecFor(f Format) pixelCodec {
	switch f {
	case FormatGrayscale:
		return grayCodec{}
	case FormatRGB565:
		return rgb565Codec{}
	case FormatRGB888:
		return rgb888Codec{}
	}
	return nil
}

// RGB565ToRGB888 expands a big-endian RGB565 pixel through the lookup tables
func RGB565ToRGB888(hi, lo byte) (r, g, b uint8) {
	c := rgb565Codec{}.read([]byte{hi, lo}, 0)
	return c.R, c.G, c.B
}

// RGB888ToRGB565 packs r, g, b into big-endian RGB565 bytes
func RGB888ToRGB565(r, g, b uint8) (hi, lo byte) {
	var p [2]byte
	rgb565Codec{}.write(p[:], 0, rgb{r, g, b})
	return p[0], p[1]
}
