package cmd

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jpfielding/pixconv.go/pkg/framefile"
	"github.com/jpfielding/pixconv.go/pkg/pixel"
)

// rawSpec describes a headerless input frame
type rawSpec struct {
	Format pixel.Format
	Width  int
	Height int
}

// loadFrame reads .pxf frames, PNG/JPEG images (decoded into RGB888) or raw
// buffers described by raw
func loadFrame(path string, raw *rawSpec) (*pixel.Image, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); {
	case ext == ".pxf":
		return framefile.ReadFile(path)
	case raw != nil && raw.Format != pixel.FormatUnknown:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if raw.Width <= 0 || raw.Height <= 0 {
			return nil, fmt.Errorf("raw input %s needs --in-size", path)
		}
		img := &pixel.Image{Width: raw.Width, Height: raw.Height, Format: raw.Format, Data: data, Size: len(data)}
		if need := raw.Format.FrameSize(raw.Width, raw.Height); len(data) < need {
			return nil, fmt.Errorf("raw input %s has %d bytes, %s %dx%d needs %d", path, len(data), raw.Format, raw.Width, raw.Height, need)
		}
		return img, nil
	case ext == ".png" || ext == ".jpg" || ext == ".jpeg":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		decoded, _, err := image.Decode(bufio.NewReader(f))
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", path, err)
		}
		return pixel.FromImage(decoded, pixel.FormatRGB888)
	default:
		return nil, fmt.Errorf("cannot tell the layout of %s: use .pxf, .png, .jpg or --in-format with --in-size", path)
	}
}

// saveFrame picks the container from the extension: .pxf, .png (RGB-family
// frames only) or anything else as the raw payload
func saveFrame(path string, img *pixel.Image, compression framefile.Compression) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pxf":
		_, err := framefile.WriteFile(path, img, &framefile.Options{Compression: compression})
		return err
	case ".png":
		if !img.Format.IsRGB() {
			return fmt.Errorf("png output needs an rgb888, rgb565 or grayscale frame, have %s", img.Format)
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return fmt.Errorf("failed to encode png: %w", err)
		}
		return os.WriteFile(path, buf.Bytes(), 0o644)
	default:
		return os.WriteFile(path, img.Bytes(), 0o644)
	}
}

// physical presents a stored frame as an unrotated source: a rotated buffer
// already holds the rotated pixels
func physical(img *pixel.Image) *pixel.Image {
	w, h := pixel.RotatedSize(img.Width, img.Height, img.Rotate)
	out := *img
	out.Width, out.Height, out.Rotate = w, h, pixel.Rotate0
	return &out
}

// extFor is the default output extension for a format
func extFor(f pixel.Format) string {
	switch f {
	case pixel.FormatJPEG:
		return ".jpg"
	default:
		return ".pxf"
	}
}

// parseSize parses "WIDTHxHEIGHT"
func parseSize(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("size %q must look like 320x240", s)
	}
	w, err := strconv.Atoi(strings.TrimSpace(ws))
	if err != nil {
		return 0, 0, fmt.Errorf("size %q: %w", s, err)
	}
	h, err := strconv.Atoi(strings.TrimSpace(hs))
	if err != nil {
		return 0, 0, fmt.Errorf("size %q: %w", s, err)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("size %q must be positive", s)
	}
	return w, h, nil
}

// parseColor accepts 0xRRGGBB, #RRGGBB or RRGGBB
func parseColor(s string) (uint32, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(strings.ToLower(s), "0x"), "#")
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil || v > 0xFFFFFF {
		return 0, fmt.Errorf("color %q must be RRGGBB hex", s)
	}
	return uint32(v), nil
}

// parseInts parses n comma separated integers; the last optional of them may
// be omitted and defaults to def
func parseInts(s string, n int, optional bool, def int) ([]int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n && !(optional && len(parts) == n-1) {
		return nil, fmt.Errorf("%q must have %d comma separated values", s, n)
	}
	out := make([]int, n)
	out[n-1] = def
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("%q: %w", s, err)
		}
		out[i] = v
	}
	return out, nil
}
