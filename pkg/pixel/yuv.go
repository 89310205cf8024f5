package pixel

import "log/slog"

// yuvToRGB converts planar YUV422 (Y plane, then U and V planes at half
// horizontal resolution) into an RGB-family destination, resampling with
// nearest neighbour and applying the destination rotation.
func (c *Converter) yuvToRGB(src, dst *Image) error {
	out := codecFor(dst.Format)
	if out == nil {
		slog.Debug("yuv422 destination not convertible, left untouched", slog.String("dst", dst.Format.String()))
		return nil
	}
	n := src.Width * src.Height
	uPlane := src.Data[n:]
	vPlane := src.Data[n+n/2:]
	c.forRows(dst.Height, func(r0, r1 int) {
		for i := r0; i < r1; i++ {
			row := (i * src.Height / dst.Height) * src.Width
			for j := 0; j < dst.Width; j++ {
				li := row + j*src.Width/dst.Width
				// one Cb/Cr pair per two horizontal luma samples
				ci := (li &^ 1) / 2
				px := ycbcrToRGB(int32(src.Data[li]), int32(uPlane[ci]), int32(vPlane[ci]))
				out.write(dst.Data, Remap(i*dst.Width+j, dst.Width, dst.Height, dst.Rotate), px)
			}
		}
	})
	return nil
}

// ycbcrToRGB is the fixed point BT.601 transform with coefficients scaled by 10000
func ycbcrToRGB(y, cb, cr int32) rgb {
	cb -= 128
	cr -= 128
	r := y + 14065*cr/10000
	g := y - 3455*cb/10000 - 7169*cr/10000
	b := y + 17790*cb/10000
	return rgb{clip(r), clip(g), clip(b)}
}

func clip(v int32) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return uint8(v)
}
