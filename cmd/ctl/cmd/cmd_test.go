package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/jpfielding/pixconv.go/pkg/framefile"
	"github.com/jpfielding/pixconv.go/pkg/pixel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	root := NewRoot(context.Background(), "test-sha")
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	require.NoError(t, root.Execute(), out.String())
	return out.String()
}

func writeYUV(t *testing.T, dir string, w, h int) string {
	t.Helper()
	img := pixel.NewImage(w, h, pixel.FormatYUV422)
	for i := range img.Data {
		img.Data[i] = 128
	}
	path := filepath.Join(dir, "frame.yuv")
	require.NoError(t, os.WriteFile(path, img.Data, 0o644))
	return path
}

func TestVersion(t *testing.T) {
	assert.Equal(t, "test-sha\n", run(t, "version"))
}

func TestConvertRawToFrame(t *testing.T) {
	dir := t.TempDir()
	in := writeYUV(t, dir, 8, 4)
	out := filepath.Join(dir, "out.pxf")

	run(t, "convert", "--in", in, "--in-format", "yuv422", "--in-size", "8x4",
		"--out", out, "--out-format", "rgb565", "--out-size", "4x2", "--rotate", "90", "--compress", "--workers", "2")

	img, err := framefile.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, pixel.FormatRGB565, img.Format)
	assert.Equal(t, pixel.Rotate90, img.Rotate)
	assert.Equal(t, 4, img.Width)
	assert.Equal(t, 2, img.Height)
	assert.Equal(t, image.Rect(0, 0, 2, 4), img.Bounds())
	r, g, b := pixel.RGB565ToRGB888(img.Data[0], img.Data[1])
	assert.InDelta(t, 128, int(r), 8)
	assert.InDelta(t, 128, int(g), 8)
	assert.InDelta(t, 128, int(b), 8)

	var info map[string]any
	require.NoError(t, json.Unmarshal([]byte(run(t, "info", out, "--format", "json")), &info))
	assert.Equal(t, "rgb565", info["format"])
	assert.Equal(t, "rle", info["compression"])
	assert.Equal(t, float64(90), info["rotation"])
}

func TestConvertToJPEG(t *testing.T) {
	dir := t.TempDir()
	src := image.NewRGBA(image.Rect(0, 0, 24, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 24; x++ {
			src.Set(x, y, color.RGBA{R: 200, G: 40, B: 40, A: 0xff})
		}
	}
	in := filepath.Join(dir, "in.png")
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))
	require.NoError(t, os.WriteFile(in, buf.Bytes(), 0o644))

	out := filepath.Join(dir, "out.jpg")
	run(t, "convert", "-i", in, "-o", out, "-f", "jpeg")

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	decoded, err := jpeg.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 24, 16), decoded.Bounds())
	r, _, _, _ := decoded.At(12, 8).RGBA()
	assert.InDelta(t, 200, int(r>>8), 8)
}

func TestConvertYUVToJPEG(t *testing.T) {
	dir := t.TempDir()
	in := writeYUV(t, dir, 16, 8)
	out := filepath.Join(dir, "out.jpg")
	run(t, "convert", "-i", in, "--in-format", "yuv", "--in-size", "16x8", "-o", out, "-f", "jpg")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	_, err = jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
}

func TestConvertToDirectory(t *testing.T) {
	dir := t.TempDir()
	in := writeYUV(t, dir, 4, 4)
	outDir := filepath.Join(dir, "out")
	require.NoError(t, os.Mkdir(outDir, 0o755))

	args := []string{"convert", "-i", in, "--in-format", "yuv422", "--in-size", "4x4", "-o", outDir, "-f", "gray"}
	run(t, args...)
	run(t, args...)
	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "same parameters name the same file")
	assert.Equal(t, ".pxf", filepath.Ext(entries[0].Name()))
}

func TestConvertErrors(t *testing.T) {
	dir := t.TempDir()
	in := writeYUV(t, dir, 4, 4)
	tests := []struct {
		name string
		args []string
	}{
		{"missing out", []string{"convert", "-i", in}},
		{"unknown layout", []string{"convert", "-i", in, "-o", filepath.Join(dir, "x.pxf")}},
		{"short raw", []string{"convert", "-i", in, "--in-format", "rgb888", "--in-size", "40x40", "-o", filepath.Join(dir, "x.pxf")}},
		{"bad rotation", []string{"convert", "-i", in, "--in-format", "yuv422", "--in-size", "4x4", "-o", filepath.Join(dir, "x.pxf"), "-r", "45"}},
		{"jpeg resize", []string{"convert", "-i", in, "--in-format", "yuv422", "--in-size", "4x4", "-o", filepath.Join(dir, "x.jpg"), "-f", "jpeg", "--out-size", "2x2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := NewRoot(context.Background(), "test-sha")
			root.SetOut(&bytes.Buffer{})
			root.SetErr(&bytes.Buffer{})
			root.SetArgs(tt.args)
			assert.Error(t, root.Execute())
		})
	}
}

func TestDraw(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.pxf")
	_, err := framefile.WriteFile(in, pixel.NewImage(32, 16, pixel.FormatGrayscale), nil)
	require.NoError(t, err)
	out := filepath.Join(dir, "out.pxf")

	run(t, "draw", "-i", in, "-o", out,
		"--fill", "0,0,4,4",
		"--rect", "20,1,6,6,1",
		"--hline", "0,31,15",
		"--vline", "31,0,15",
		"--point", "28,10",
		"--text", "0,14,a,b",
		"--color", "#FFFFFF")

	img, err := framefile.ReadFile(out)
	require.NoError(t, err)
	at := func(x, y int) byte { return img.Data[y*32+x] }
	assert.Equal(t, byte(0xFF), at(3, 3))
	assert.Equal(t, byte(0xFF), at(20, 1))
	assert.Equal(t, byte(0xFF), at(26, 7))
	assert.Equal(t, byte(0), at(23, 4))
	assert.Equal(t, byte(0xFF), at(5, 15))
	assert.Equal(t, byte(0xFF), at(31, 7))
	assert.Equal(t, byte(0xFF), at(28, 10))
}

func TestParsers(t *testing.T) {
	w, h, err := parseSize("320x240")
	require.NoError(t, err)
	assert.Equal(t, [2]int{320, 240}, [2]int{w, h})
	for _, bad := range []string{"320", "0x10", "ax10", "10x-1"} {
		_, _, err := parseSize(bad)
		assert.Error(t, err, bad)
	}

	for _, s := range []string{"0xFF8000", "#ff8000", "FF8000"} {
		c, err := parseColor(s)
		require.NoError(t, err, s)
		assert.Equal(t, uint32(0xFF8000), c)
	}
	_, err = parseColor("1FFFFFF")
	assert.Error(t, err)

	v, err := parseInts("1,2,3,4", 5, true, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 1}, v)
	_, err = parseInts("1,2", 4, false, 0)
	assert.Error(t, err)
}
