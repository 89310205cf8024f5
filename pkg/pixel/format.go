// Package pixel converts camera frames between pixel formats and draws
// primitives directly into raw frame buffers.
//
// Every operation works on caller-owned buffers described by an Image. The
// converters never allocate pixel memory: the caller fixes the destination
// format, geometry, rotation and buffer before calling Convert.
package pixel

import (
	"fmt"
	"strings"
)

// Format identifies the byte layout of an Image buffer
type Format uint8

const (
	FormatRGB888 Format = iota
	FormatRGB565
	FormatYUV422
	FormatGrayscale
	FormatJPEG
	FormatUnknown
)

var formatNames = map[Format]string{
	FormatRGB888:    "rgb888",
	FormatRGB565:    "rgb565",
	FormatYUV422:    "yuv422",
	FormatGrayscale: "grayscale",
	FormatJPEG:      "jpeg",
	FormatUnknown:   "unknown",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("format(%d)", uint8(f))
}

// ParseFormat maps a case-insensitive name ("rgb565", "gray", "yuv422", ...) to a Format
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rgb888", "rgb24", "rgb":
		return FormatRGB888, nil
	case "rgb565", "rgb16":
		return FormatRGB565, nil
	case "yuv422", "yuv422p", "yuv":
		return FormatYUV422, nil
	case "grayscale", "gray", "grey", "y8":
		return FormatGrayscale, nil
	case "jpeg", "jpg":
		return FormatJPEG, nil
	}
	return FormatUnknown, fmt.Errorf("unknown pixel format %q", s)
}

// IsRGB reports whether f is one of the directly addressable RGB-family formats
func (f Format) IsRGB() bool {
	return f == FormatRGB888 || f == FormatRGB565 || f == FormatGrayscale
}

// BytesPerPixel returns the storage width of one pixel. YUV422 averages two
// bytes per pixel over its three planes; JPEG and unknown formats return 0.
func (f Format) BytesPerPixel() int {
	switch f {
	case FormatGrayscale:
		return 1
	case FormatRGB565, FormatYUV422:
		return 2
	case FormatRGB888:
		return 3
	default:
		return 0
	}
}

// FrameSize returns the number of bytes a width x height frame occupies, or 0
// for variable length formats.
func (f Format) FrameSize(width, height int) int {
	if width <= 0 || height <= 0 {
		return 0
	}
	if f == FormatYUV422 {
		// Y plane, U plane at n, V plane at n+n/2; odd pixel counts round the
		// V plane up so the last chroma pair stays addressable
		n := width * height
		return n + n/2 + (n+1)/2
	}
	return width * height * f.BytesPerPixel()
}

// Rotation is applied when a converter writes into a destination buffer
type Rotation uint8

const (
	Rotate0 Rotation = iota
	Rotate90
	Rotate180
	Rotate270
)

func (r Rotation) String() string {
	switch r {
	case Rotate0:
		return "0"
	case Rotate90:
		return "90"
	case Rotate180:
		return "180"
	case Rotate270:
		return "270"
	}
	return fmt.Sprintf("rotation(%d)", uint8(r))
}

// Degrees returns the clockwise angle of r
func (r Rotation) Degrees() int {
	return int(r%4) * 90
}

// Inverse returns the rotation that undoes r
func (r Rotation) Inverse() Rotation {
	return (4 - r%4) % 4
}

// ParseRotation accepts 0, 90, 180 and 270 (negative angles wrap)
func ParseRotation(degrees int) (Rotation, error) {
	d := ((degrees % 360) + 360) % 360
	switch d {
	case 0:
		return Rotate0, nil
	case 90:
		return Rotate90, nil
	case 180:
		return Rotate180, nil
	case 270:
		return Rotate270, nil
	}
	return Rotate0, fmt.Errorf("unsupported rotation %d, must be a multiple of 90", degrees)
}

// Image describes a caller-owned frame buffer.
//
// Width and Height are the logical (pre-rotation) dimensions. Size is the
// number of meaningful bytes in Data; a JPEG destination has it overwritten
// with the encoded length.
type Image struct {
	Width  int
	Height int
	Format Format
	Rotate Rotation
	Data   []byte
	Size   int
}

// NewImage allocates a zeroed frame sized for its format. JPEG frames get four
// bytes per pixel plus header room, enough for camera content at the best
// quality setting; noisier frames may need a larger buffer.
func NewImage(width, height int, f Format) *Image {
	n := f.FrameSize(width, height)
	if f == FormatJPEG {
		n = width*height*4 + 2048
	}
	if n < 0 {
		n = 0
	}
	return &Image{
		Width:  width,
		Height: height,
		Format: f,
		Data:   make([]byte, n),
		Size:   n,
	}
}

// Bytes returns the meaningful part of Data
func (img *Image) Bytes() []byte {
	if img == nil {
		return nil
	}
	n := img.Size
	if n <= 0 || n > len(img.Data) {
		n = len(img.Data)
	}
	return img.Data[:n]
}

func (img *Image) String() string {
	if img == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%dx%d %s rot=%s size=%d", img.Width, img.Height, img.Format, img.Rotate, img.Size)
}
