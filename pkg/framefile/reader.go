package framefile

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/jpfielding/pixconv.go/pkg/compress/rle"
	"github.com/jpfielding/pixconv.go/pkg/pixel"
)

// ReadFile reads a frame file from path
func ReadFile(path string) (*pixel.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(bufio.NewReader(f))
}

// ReadHeader reads and validates the header, leaving r at the payload
func ReadHeader(r io.Reader) (*Header, error) {
	var raw rawHeader
	if err := binary.Read(r, binary.LittleEndian, &raw); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if string(raw.Magic[:]) != Magic {
		return nil, ErrBadMagic
	}
	h := &Header{
		Format:      pixel.Format(raw.Format),
		Rotate:      pixel.Rotation(raw.Rotate),
		Compression: Compression(raw.Compression),
		Width:       raw.Width,
		Height:      raw.Height,
		PayloadSize: raw.PayloadSize,
		StoredSize:  raw.StoredSize,
	}
	if err := h.validate(); err != nil {
		return nil, err
	}
	return h, nil
}

// Read returns the frame as an Image whose Data holds exactly the payload
func Read(r io.Reader) (*pixel.Image, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}
	stored := make([]byte, h.StoredSize)
	if _, err := io.ReadFull(r, stored); err != nil {
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}

	payload := stored
	if h.Compression == CompressionRLE {
		p := planes(h.Format)
		if int(h.PayloadSize)%p != 0 {
			p = 1
		}
		if payload, err = rle.Decode(stored, p, int(h.PayloadSize)); err != nil {
			return nil, fmt.Errorf("failed to decompress payload: %w", err)
		}
	}
	return &pixel.Image{
		Width:  int(h.Width),
		Height: int(h.Height),
		Format: h.Format,
		Rotate: h.Rotate,
		Data:   payload,
		Size:   len(payload),
	}, nil
}
