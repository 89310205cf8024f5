// Package framefile stores a single raw frame with the descriptor needed to
// interpret it: pixel format, rotation and geometry, optionally RLE
// compressed.
//
// Layout, all integers little-endian:
//
//	magic "PXF1"
//	format u8, rotation u8, compression u8, reserved u8
//	width u32, height u32
//	payload size u32 (decoded bytes), stored size u32 (bytes that follow)
//	payload
package framefile

import (
	"errors"
	"fmt"

	"github.com/jpfielding/pixconv.go/pkg/pixel"
)

// Magic opens every frame file
const Magic = "PXF1"

// HeaderSize is the encoded size of Header
const HeaderSize = 24

// MaxPayload bounds the payload a reader will allocate
const MaxPayload = 1 << 30

var (
	ErrBadMagic  = errors.New("framefile: missing PXF1 magic")
	ErrBadHeader = errors.New("framefile: malformed header")
)

// Compression of the stored payload
type Compression uint8

const (
	CompressionNone Compression = iota
	CompressionRLE
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionRLE:
		return "rle"
	}
	return fmt.Sprintf("compression(%d)", uint8(c))
}

// Header describes the frame that follows it
type Header struct {
	Format      pixel.Format
	Rotate      pixel.Rotation
	Compression Compression
	Width       uint32
	Height      uint32
	// PayloadSize is the decoded byte count, StoredSize what is on disk
	PayloadSize uint32
	StoredSize  uint32
}

// rawHeader is the wire image of Header
type rawHeader struct {
	Magic       [4]byte
	Format      uint8
	Rotate      uint8
	Compression uint8
	Reserved    uint8
	Width       uint32
	Height      uint32
	PayloadSize uint32
	StoredSize  uint32
}

// planes is the RLE plane count for a format: one per byte of an RGB-family
// pixel; planar and encoded payloads compress as a single plane
func planes(f pixel.Format) int {
	if f.IsRGB() {
		return f.BytesPerPixel()
	}
	return 1
}

func (h *Header) validate() error {
	if h.Format >= pixel.FormatUnknown {
		return fmt.Errorf("%w: format %d", ErrBadHeader, h.Format)
	}
	if h.Rotate > pixel.Rotate270 {
		return fmt.Errorf("%w: rotation %d", ErrBadHeader, h.Rotate)
	}
	if h.Compression > CompressionRLE {
		return fmt.Errorf("%w: compression %d", ErrBadHeader, h.Compression)
	}
	if h.Width == 0 || h.Height == 0 || h.Width > 1<<16 || h.Height > 1<<16 {
		return fmt.Errorf("%w: geometry %dx%d", ErrBadHeader, h.Width, h.Height)
	}
	if h.PayloadSize > MaxPayload || h.StoredSize > MaxPayload {
		return fmt.Errorf("%w: payload %d stored %d exceeds %d", ErrBadHeader, h.PayloadSize, h.StoredSize, MaxPayload)
	}
	if h.Compression == CompressionNone && h.StoredSize != h.PayloadSize {
		return fmt.Errorf("%w: uncompressed payload %d stored as %d", ErrBadHeader, h.PayloadSize, h.StoredSize)
	}
	if need := h.Format.FrameSize(int(h.Width), int(h.Height)); int(h.PayloadSize) < need {
		return fmt.Errorf("%w: %s %dx%d needs %d bytes, payload has %d", ErrBadHeader,
			h.Format, h.Width, h.Height, need, h.PayloadSize)
	}
	return nil
}
