package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jpfielding/pixconv.go/pkg/framefile"
	"github.com/jpfielding/pixconv.go/pkg/pixel"
	"github.com/jpfielding/pixconv.go/pkg/util"
	"github.com/spf13/cobra"
)

// convertParams names the output when --out is a directory
type convertParams struct {
	Input    string `json:"input"`
	Format   string `json:"format"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Rotation int    `json:"rotation"`
	Compress bool   `json:"compress"`
	InFormat string `json:"inFormat,omitempty"`
	InSize   string `json:"inSize,omitempty"`
	Workers  int    `json:"-"`
}

// NewConvertCmd converts one frame into another format, size and rotation
func NewConvertCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "convert a frame to another format, size or rotation",
		Long:  "Reads a .pxf, PNG/JPEG or raw frame and writes it converted. The output container follows the --out extension (.pxf, .png, .jpg, anything else is raw).",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, _ := cmd.Flags().GetString("in")
			out, _ := cmd.Flags().GetString("out")
			inFormat, _ := cmd.Flags().GetString("in-format")
			inSize, _ := cmd.Flags().GetString("in-size")
			outFormat, _ := cmd.Flags().GetString("out-format")
			outSize, _ := cmd.Flags().GetString("out-size")
			rotate, _ := cmd.Flags().GetInt("rotate")
			workers, _ := cmd.Flags().GetInt("workers")
			compress, _ := cmd.Flags().GetBool("compress")

			if in == "" && len(args) > 0 {
				in = args[0]
			}
			if in == "" || out == "" {
				return fmt.Errorf("--in and --out are required")
			}
			return runConvert(ctx, convertParams{
				Input:    in,
				Format:   outFormat,
				Rotation: rotate,
				Compress: compress,
				InFormat: inFormat,
				InSize:   inSize,
				Workers:  workers,
			}, outSize, out)
		},
	}
	pf := cmd.PersistentFlags()
	pf.StringP("in", "i", "", "input frame (.pxf, .png, .jpg or raw with --in-format/--in-size)")
	pf.StringP("out", "o", "", "output file, or a directory to get a name derived from the parameters")
	pf.String("in-format", "", "raw input format (yuv422, rgb565, rgb888, gray)")
	pf.String("in-size", "", "raw input size, e.g. 320x240")
	pf.StringP("out-format", "f", "rgb888", "output format (rgb888, rgb565, gray, jpeg)")
	pf.String("out-size", "", "output size before rotation, defaults to the input size")
	pf.IntP("rotate", "r", 0, "clockwise rotation applied on output (0, 90, 180, 270)")
	pf.IntP("workers", "w", 1, "row bands converted concurrently")
	pf.Bool("compress", false, "RLE compress .pxf output")
	return cmd
}

func runConvert(ctx context.Context, p convertParams, outSize, out string) error {
	raw, err := rawFromFlags(p.InFormat, p.InSize)
	if err != nil {
		return err
	}
	src, err := loadFrame(p.Input, raw)
	if err != nil {
		return err
	}
	src = physical(src)

	dstFormat, err := pixel.ParseFormat(p.Format)
	if err != nil {
		return err
	}
	rot, err := pixel.ParseRotation(p.Rotation)
	if err != nil {
		return err
	}
	p.Width, p.Height = src.Width, src.Height
	if outSize != "" {
		if p.Width, p.Height, err = parseSize(outSize); err != nil {
			return err
		}
	}
	if dstFormat == pixel.FormatJPEG && (p.Width != src.Width || p.Height != src.Height || rot != pixel.Rotate0) {
		return fmt.Errorf("jpeg output encodes the source as is: drop --out-size and --rotate or convert to rgb first")
	}

	dst := pixel.NewImage(p.Width, p.Height, dstFormat)
	dst.Rotate = rot

	if info, err := os.Stat(out); err == nil && info.IsDir() {
		out = filepath.Join(out, util.HashUUID(p)+extFor(dstFormat))
	}

	start := time.Now()
	conv := &pixel.Converter{Workers: p.Workers}
	if dstFormat == pixel.FormatJPEG && src.Format == pixel.FormatYUV422 {
		// the encoder takes rgb-family input only
		rgb := pixel.NewImage(src.Width, src.Height, pixel.FormatRGB888)
		if err := conv.Convert(src, rgb); err != nil {
			return fmt.Errorf("failed to convert %s: %w", p.Input, err)
		}
		src = rgb
	}
	if err := conv.Convert(src, dst); err != nil {
		return fmt.Errorf("failed to convert %s: %w", p.Input, err)
	}
	elapsed := time.Since(start)

	compression := framefile.CompressionNone
	if p.Compress {
		compression = framefile.CompressionRLE
	}
	if err := saveFrame(out, dst, compression); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	slog.InfoContext(ctx, "converted",
		slog.String("in", p.Input),
		slog.String("src", src.String()),
		slog.String("out", out),
		slog.String("dst", dst.String()),
		slog.Duration("elapsed", elapsed))
	return nil
}

func rawFromFlags(format, size string) (*rawSpec, error) {
	if format == "" {
		return nil, nil
	}
	f, err := pixel.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	if f == pixel.FormatJPEG {
		return nil, fmt.Errorf("raw input cannot be jpeg")
	}
	raw := &rawSpec{Format: f}
	if size != "" {
		if raw.Width, raw.Height, err = parseSize(size); err != nil {
			return nil, err
		}
	}
	return raw, nil
}
