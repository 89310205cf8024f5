package pixel

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// LabelFont is the bitmap font used by DrawText
var LabelFont tinyfont.Fonter = &proggy.TinySZ8pt7b

// canvas lets tinyfont render into an Image
type canvas struct {
	img *Image
	pc  pixelCodec
}

var _ drivers.Displayer = (*canvas)(nil)

func (d *canvas) Size() (x, y int16) {
	return int16(d.img.Width), int16(d.img.Height)
}

func (d *canvas) SetPixel(x, y int16, c color.RGBA) {
	ix, iy := int(x), int(y)
	if ix < 0 || ix >= d.img.Width || iy < 0 || iy >= d.img.Height {
		return
	}
	idx := iy*d.img.Width + ix
	if (idx+1)*d.pc.bytesPerPixel() > len(d.img.Data) {
		return
	}
	d.pc.write(d.img.Data, idx, rgb{c.R, c.G, c.B})
}

func (d *canvas) Display() error {
	return nil
}

// DrawText renders text with its baseline at y. Glyph pixels falling outside
// the frame are dropped.
func DrawText(img *Image, x, y int, text string, c uint32) {
	if img == nil || img.Data == nil {
		return
	}
	pc := codecFor(img.Format)
	if pc == nil {
		return
	}
	px := rgbFromColor(c)
	tinyfont.WriteLine(&canvas{img: img, pc: pc}, LabelFont, int16(x), int16(y), text,
		color.RGBA{R: px.R, G: px.G, B: px.B, A: 0xff})
}

// TextWidth returns the advance of text in pixels
func TextWidth(text string) int {
	_, outbox := tinyfont.LineWidth(LabelFont, text)
	return int(outbox)
}
