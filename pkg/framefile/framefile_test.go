package framefile

import (
	"bytes"
	"encoding/binary"
	"path/filepath"
	"testing"

	"github.com/jpfielding/pixconv.go/pkg/pixel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFrame(f pixel.Format) *pixel.Image {
	img := pixel.NewImage(16, 8, f)
	pixel.FillRect(img, 0, 0, 16, 4, 0x2040C0)
	pixel.DrawHLine(img, 0, 15, 6, 0xFFFFFF)
	return img
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		format pixel.Format
		comp   Compression
		rot    pixel.Rotation
	}{
		{"gray raw", pixel.FormatGrayscale, CompressionNone, pixel.Rotate0},
		{"gray rle", pixel.FormatGrayscale, CompressionRLE, pixel.Rotate0},
		{"rgb565 rle rotated", pixel.FormatRGB565, CompressionRLE, pixel.Rotate90},
		{"rgb888 raw", pixel.FormatRGB888, CompressionNone, pixel.Rotate180},
		{"rgb888 rle", pixel.FormatRGB888, CompressionRLE, pixel.Rotate270},
		{"yuv422 rle", pixel.FormatYUV422, CompressionRLE, pixel.Rotate0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var img *pixel.Image
			if tt.format == pixel.FormatYUV422 {
				img = pixel.NewImage(16, 8, tt.format)
				for i := range img.Data {
					img.Data[i] = byte(i / 16)
				}
			} else {
				img = testFrame(tt.format)
			}
			img.Rotate = tt.rot

			var buf bytes.Buffer
			n, err := Write(&buf, img, &Options{Compression: tt.comp})
			require.NoError(t, err)
			assert.Equal(t, int64(buf.Len()), n)
			if tt.comp == CompressionRLE {
				assert.Less(t, buf.Len(), HeaderSize+len(img.Data))
			} else {
				assert.Equal(t, HeaderSize+len(img.Data), buf.Len())
			}

			got, err := Read(bytes.NewReader(buf.Bytes()))
			require.NoError(t, err)
			assert.Equal(t, img.Width, got.Width)
			assert.Equal(t, img.Height, got.Height)
			assert.Equal(t, img.Format, got.Format)
			assert.Equal(t, img.Rotate, got.Rotate)
			assert.Equal(t, img.Data, got.Data)
			assert.Equal(t, len(img.Data), got.Size)
		})
	}
}

func TestJPEGPayloadUsesSize(t *testing.T) {
	src := testFrame(pixel.FormatRGB888)
	dst := pixel.NewImage(16, 8, pixel.FormatJPEG)
	require.NoError(t, pixel.Convert(src, dst))

	var buf bytes.Buffer
	_, err := Write(&buf, dst, nil)
	require.NoError(t, err)
	assert.Equal(t, HeaderSize+dst.Size, buf.Len())

	h, err := ReadHeader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, pixel.FormatJPEG, h.Format)
	assert.Equal(t, uint32(dst.Size), h.PayloadSize)
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.pxf")
	img := testFrame(pixel.FormatRGB565)
	_, err := WriteFile(path, img, &Options{Compression: CompressionRLE})
	require.NoError(t, err)

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, img.Data, got.Data)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.pxf"))
	assert.Error(t, err)
}

func TestHeaderErrors(t *testing.T) {
	var good bytes.Buffer
	_, err := Write(&good, testFrame(pixel.FormatGrayscale), nil)
	require.NoError(t, err)

	corrupt := func(off int, fn func(b []byte)) []byte {
		b := bytes.Clone(good.Bytes())
		fn(b[off:])
		return b
	}
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"bad magic", corrupt(0, func(b []byte) { b[0] = 'X' }), ErrBadMagic},
		{"unknown format", corrupt(4, func(b []byte) { b[0] = 9 }), ErrBadHeader},
		{"bad rotation", corrupt(5, func(b []byte) { b[0] = 4 }), ErrBadHeader},
		{"bad compression", corrupt(6, func(b []byte) { b[0] = 7 }), ErrBadHeader},
		{"zero width", corrupt(8, func(b []byte) { binary.LittleEndian.PutUint32(b, 0) }), ErrBadHeader},
		{"payload too small", corrupt(8, func(b []byte) { binary.LittleEndian.PutUint32(b, 32) }), ErrBadHeader},
		{"stored mismatch", corrupt(20, func(b []byte) { binary.LittleEndian.PutUint32(b, 3) }), ErrBadHeader},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(bytes.NewReader(tt.data))
			assert.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("truncated payload", func(t *testing.T) {
		_, err := Read(bytes.NewReader(good.Bytes()[:HeaderSize+10]))
		assert.Error(t, err)
	})

	t.Run("nil image", func(t *testing.T) {
		_, err := Write(&bytes.Buffer{}, nil, nil)
		assert.ErrorIs(t, err, ErrBadHeader)
	})
}
