package pixel

import (
	"fmt"
	"log/slog"

	"github.com/jpfielding/pixconv.go/pkg/compress/jpegenc"
)

// rgbToJPEG drives one encode session over the source frame: open on the
// destination buffer, begin with 4:4:4 at best quality, submit every MCU in
// row-major order and close. The encoded length lands in dst.Size.
func (c *Converter) rgbToJPEG(src, dst *Image) error {
	var pf jpegenc.PixelFormat
	switch src.Format {
	case FormatGrayscale:
		pf = jpegenc.PixelGrayscale
	case FormatRGB565:
		pf = jpegenc.PixelRGB565
	case FormatRGB888:
		pf = jpegenc.PixelRGB888
	default:
		return fmt.Errorf("%w: jpeg source %s", ErrNotSupported, src.Format)
	}
	bpp := src.Format.BytesPerPixel()
	pitch := src.Width * bpp

	enc := c.newEncoder()
	if err := enc.Open(dst.Data); err != nil {
		return fmt.Errorf("%w: open: %w", ErrIO, err)
	}
	s, err := enc.Begin(src.Width, src.Height, pf, jpegenc.Subsample444, jpegenc.QualityBest)
	if err != nil {
		return fmt.Errorf("%w: begin: %w", ErrIO, err)
	}
	mcus := ((src.Width + s.MCUWidth - 1) / s.MCUWidth) * ((src.Height + s.MCUHeight - 1) / s.MCUHeight)
	for i := 0; i < mcus; i++ {
		off := s.X*bpp + s.Y*pitch
		if err := enc.AddMCU(s, src.Data[off:], pitch); err != nil {
			return fmt.Errorf("%w: mcu %d of %d: %w", ErrIO, i, mcus, err)
		}
	}
	n, err := enc.Close()
	if err != nil {
		return fmt.Errorf("%w: close: %w", ErrIO, err)
	}
	dst.Size = n
	slog.Debug("jpeg encoded",
		slog.Int("width", src.Width),
		slog.Int("height", src.Height),
		slog.String("src", src.Format.String()),
		slog.Int("mcus", mcus),
		slog.Int("bytes", n))
	return nil
}
