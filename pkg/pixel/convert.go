package pixel

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/jpfielding/pixconv.go/pkg/compress/jpegenc"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrInvalidArgument reports a nil descriptor, nil buffer, bad geometry or short buffer
	ErrInvalidArgument = errors.New("pixel: invalid argument")
	// ErrNotSupported reports an unhandled source format
	ErrNotSupported = errors.New("pixel: format not supported")
	// ErrIO reports a failure of the JPEG encode session
	ErrIO = errors.New("pixel: encoder i/o failure")
)

// ConvertFunc fills dst from src
type ConvertFunc func(src, dst *Image) error

// Converter routes a conversion to one of the built-in converters. Any of
// the route fields may be set to replace the built-in implementation, e.g.
// with a platform accelerated one.
//
// A Converter carries no mutable state and may be shared between goroutines
// as long as each call uses its own pair of images.
type Converter struct {
	// YUVToRGB handles YUV422 sources
	YUVToRGB ConvertFunc
	// RGBToRGB handles RGB-family sources with RGB-family destinations
	RGBToRGB ConvertFunc
	// RGBToJPEG handles RGB-family sources with JPEG destinations
	RGBToJPEG ConvertFunc
	// NewEncoder supplies a fresh encoder for every JPEG conversion
	NewEncoder func() JPEGEncoder
	// Workers > 1 splits destination rows into bands converted concurrently
	Workers int
}

// DefaultConverter is used by Convert
var DefaultConverter = &Converter{}

// Convert fills dst from src using DefaultConverter
func Convert(src, dst *Image) error {
	return DefaultConverter.Convert(src, dst)
}

// Convert validates both descriptors and dispatches on the source format.
// Destination format, geometry, rotation and buffer are fixed by the caller.
func (c *Converter) Convert(src, dst *Image) error {
	if err := validate(src, dst); err != nil {
		return err
	}
	switch {
	case src.Format == FormatYUV422:
		return c.route(c.YUVToRGB, c.yuvToRGB)(src, dst)
	case src.Format.IsRGB() && dst.Format == FormatJPEG:
		return c.route(c.RGBToJPEG, c.rgbToJPEG)(src, dst)
	case src.Format.IsRGB():
		return c.route(c.RGBToRGB, c.rgbToRGB)(src, dst)
	default:
		return fmt.Errorf("%w: source %s", ErrNotSupported, src.Format)
	}
}

func (c *Converter) route(override, builtin ConvertFunc) ConvertFunc {
	if override != nil {
		return override
	}
	return builtin
}

func validate(src, dst *Image) error {
	if src == nil || dst == nil {
		return fmt.Errorf("%w: nil image", ErrInvalidArgument)
	}
	if src.Data == nil || dst.Data == nil {
		return fmt.Errorf("%w: nil buffer", ErrInvalidArgument)
	}
	if src.Width <= 0 || src.Height <= 0 || dst.Width <= 0 || dst.Height <= 0 {
		return fmt.Errorf("%w: bad geometry src=%dx%d dst=%dx%d", ErrInvalidArgument,
			src.Width, src.Height, dst.Width, dst.Height)
	}
	if need := src.Format.FrameSize(src.Width, src.Height); len(src.Data) < need {
		return fmt.Errorf("%w: source buffer %d bytes, %s needs %d", ErrInvalidArgument,
			len(src.Data), src.Format, need)
	}
	if dst.Format.IsRGB() {
		if need := dst.Format.FrameSize(dst.Width, dst.Height); len(dst.Data) < need {
			return fmt.Errorf("%w: destination buffer %d bytes, %s needs %d", ErrInvalidArgument,
				len(dst.Data), dst.Format, need)
		}
	}
	return nil
}

// forRows runs fn over [0, rows) either inline or split into bands, one per worker
func (c *Converter) forRows(rows int, fn func(r0, r1 int)) {
	workers := min(c.Workers, rows)
	if workers <= 1 {
		fn(0, rows)
		return
	}
	chunk := (rows + workers - 1) / workers
	var g errgroup.Group
	g.SetLimit(workers)
	for start := 0; start < rows; start += chunk {
		start, end := start, min(start+chunk, rows)
		g.Go(func() error {
			fn(start, end)
			return nil
		})
	}
	_ = g.Wait()
}

// rgbToRGB resamples and rotates among grayscale, RGB565 and RGB888
func (c *Converter) rgbToRGB(src, dst *Image) error {
	in := codecFor(src.Format)
	out := codecFor(dst.Format)
	if in == nil || out == nil {
		slog.Debug("rgb conversion skipped", slog.String("src", src.Format.String()), slog.String("dst", dst.Format.String()))
		return nil
	}
	c.forRows(dst.Height, func(r0, r1 int) {
		for i := r0; i < r1; i++ {
			row := (i * src.Height / dst.Height) * src.Width
			for j := 0; j < dst.Width; j++ {
				px := in.read(src.Data, row+j*src.Width/dst.Width)
				out.write(dst.Data, Remap(i*dst.Width+j, dst.Width, dst.Height, dst.Rotate), px)
			}
		}
	})
	return nil
}

// JPEGEncoder is the encode session protocol consumed by the JPEG route
type JPEGEncoder interface {
	Open(buf []byte) error
	Begin(width, height int, pf jpegenc.PixelFormat, sub jpegenc.Subsampling, q jpegenc.Quality) (*jpegenc.Session, error)
	AddMCU(s *jpegenc.Session, data []byte, pitch int) error
	Close() (int, error)
}

func (c *Converter) newEncoder() JPEGEncoder {
	if c.NewEncoder != nil {
		return c.NewEncoder()
	}
	return jpegenc.New()
}
