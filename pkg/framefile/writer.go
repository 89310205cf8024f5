package framefile

import (
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/jpfielding/pixconv.go/pkg/compress/rle"
	"github.com/jpfielding/pixconv.go/pkg/pixel"
)

// Options controls how a frame is stored
type Options struct {
	Compression Compression
}

// WriteFile writes img to a frame file at path
func WriteFile(path string, img *pixel.Image, opts *Options) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	n, err := Write(f, img, opts)
	if err != nil {
		return n, err
	}
	return n, f.Sync()
}

// Write stores the meaningful bytes of img (img.Bytes()) behind a header
func Write(w io.Writer, img *pixel.Image, opts *Options) (int64, error) {
	if opts == nil {
		opts = &Options{}
	}
	if img == nil || img.Data == nil {
		return 0, fmt.Errorf("%w: nil image", ErrBadHeader)
	}
	payload := img.Bytes()
	stored := payload
	if opts.Compression == CompressionRLE {
		var err error
		p := planes(img.Format)
		if len(payload)%p != 0 {
			p = 1
		}
		if stored, err = rle.Encode(payload, p); err != nil {
			return 0, fmt.Errorf("failed to compress payload: %w", err)
		}
	}

	h := &Header{
		Format:      img.Format,
		Rotate:      img.Rotate,
		Compression: opts.Compression,
		Width:       uint32(img.Width),
		Height:      uint32(img.Height),
		PayloadSize: uint32(len(payload)),
		StoredSize:  uint32(len(stored)),
	}
	if err := h.validate(); err != nil {
		return 0, err
	}

	cw := &CountingWriter{Writer: w}
	raw := rawHeader{
		Format:      uint8(h.Format),
		Rotate:      uint8(h.Rotate),
		Compression: uint8(h.Compression),
		Width:       h.Width,
		Height:      h.Height,
		PayloadSize: h.PayloadSize,
		StoredSize:  h.StoredSize,
	}
	copy(raw.Magic[:], Magic)
	if err := binary.Write(cw, binary.LittleEndian, &raw); err != nil {
		return cw.Count.Load(), fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := cw.Write(stored); err != nil {
		return cw.Count.Load(), fmt.Errorf("failed to write payload: %w", err)
	}
	slog.Debug("frame written",
		slog.String("format", h.Format.String()),
		slog.String("compression", h.Compression.String()),
		slog.Int("payload", int(h.PayloadSize)),
		slog.Int("stored", int(h.StoredSize)))
	return cw.Count.Load(), nil
}

// CountingWriter tracks the bytes that reached Writer
type CountingWriter struct {
	Count  atomic.Int64
	Writer io.Writer
}

func (c *CountingWriter) Write(p []byte) (int, error) {
	n, err := c.Writer.Write(p)
	if err == nil {
		c.Count.Add(int64(n))
	}
	return n, err
}
