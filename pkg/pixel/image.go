package pixel

import (
	"image"
	"image/color"
)

// Bounds reports the physical frame: a 90 or 270 rotated image is Height
// pixels wide.
func (img *Image) Bounds() image.Rectangle {
	w, h := RotatedSize(img.Width, img.Height, img.Rotate)
	return image.Rect(0, 0, w, h)
}

func (img *Image) ColorModel() color.Model {
	if img.Format == FormatGrayscale {
		return color.GrayModel
	}
	return color.RGBAModel
}

// At reads a pixel of an RGB-family frame; other formats read as transparent black
func (img *Image) At(x, y int) color.Color {
	pc := codecFor(img.Format)
	b := img.Bounds()
	if pc == nil || !image.Pt(x, y).In(b) {
		return color.RGBA{}
	}
	idx := y*b.Dx() + x
	if (idx+1)*pc.bytesPerPixel() > len(img.Data) {
		return color.RGBA{}
	}
	px := pc.read(img.Data, idx)
	if img.Format == FormatGrayscale {
		return color.Gray{Y: px.R}
	}
	return color.RGBA{R: px.R, G: px.G, B: px.B, A: 0xff}
}

// FromImage copies any decoded image into a new unrotated frame of format f,
// which must be grayscale, RGB565 or RGB888.
func FromImage(src image.Image, f Format) (*Image, error) {
	pc := codecFor(f)
	if pc == nil {
		return nil, ErrNotSupported
	}
	b := src.Bounds()
	img := NewImage(b.Dx(), b.Dy(), f)
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			r, g, bl, _ := src.At(b.Min.X+x, b.Min.Y+y).RGBA()
			pc.write(img.Data, y*img.Width+x, rgb{uint8(r >> 8), uint8(g >> 8), uint8(bl >> 8)})
		}
	}
	return img, nil
}
