package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/jpfielding/pixconv.go/pkg/framefile"
	"github.com/jpfielding/pixconv.go/pkg/pixel"
	"github.com/spf13/cobra"
)

// drawOps are the primitives requested on the command line, applied in the
// order fills, outlines, lines, points, text
type drawOps struct {
	Color  uint32
	Fills  []string
	Rects  []string
	HLines []string
	VLines []string
	Points []string
	Texts  []string
}

// NewDrawCmd draws primitives into a frame
func NewDrawCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draw",
		Short: "draw rectangles, lines, points and labels into a frame",
		Long:  "Draws into the stored pixels of an rgb888, rgb565 or grayscale frame. Rotated .pxf frames are drawn and saved in their stored orientation.",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, _ := cmd.Flags().GetString("in")
			out, _ := cmd.Flags().GetString("out")
			inFormat, _ := cmd.Flags().GetString("in-format")
			inSize, _ := cmd.Flags().GetString("in-size")
			color, _ := cmd.Flags().GetString("color")
			compress, _ := cmd.Flags().GetBool("compress")

			var ops drawOps
			ops.Fills, _ = cmd.Flags().GetStringArray("fill")
			ops.Rects, _ = cmd.Flags().GetStringArray("rect")
			ops.HLines, _ = cmd.Flags().GetStringArray("hline")
			ops.VLines, _ = cmd.Flags().GetStringArray("vline")
			ops.Points, _ = cmd.Flags().GetStringArray("point")
			ops.Texts, _ = cmd.Flags().GetStringArray("text")

			if in == "" && len(args) > 0 {
				in = args[0]
			}
			if in == "" || out == "" {
				return fmt.Errorf("--in and --out are required")
			}
			c, err := parseColor(color)
			if err != nil {
				return err
			}
			ops.Color = c

			raw, err := rawFromFlags(inFormat, inSize)
			if err != nil {
				return err
			}
			img, err := loadFrame(in, raw)
			if err != nil {
				return err
			}
			img = physical(img)
			if !img.Format.IsRGB() {
				return fmt.Errorf("cannot draw into a %s frame, convert it first", img.Format)
			}
			n, err := ops.apply(img)
			if err != nil {
				return err
			}

			compression := framefile.CompressionNone
			if compress {
				compression = framefile.CompressionRLE
			}
			if err := saveFrame(out, img, compression); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			slog.InfoContext(ctx, "drawn", slog.String("out", out), slog.Int("ops", n), slog.String("frame", img.String()))
			return nil
		},
	}
	pf := cmd.PersistentFlags()
	pf.StringP("in", "i", "", "input frame (.pxf, .png, .jpg or raw with --in-format/--in-size)")
	pf.StringP("out", "o", "", "output file")
	pf.String("in-format", "", "raw input format (rgb565, rgb888, gray)")
	pf.String("in-size", "", "raw input size, e.g. 320x240")
	pf.StringP("color", "c", "FFFFFF", "RRGGBB colour for every primitive")
	pf.Bool("compress", false, "RLE compress .pxf output")
	pf.StringArray("fill", nil, "filled rectangle x,y,w,h (repeatable)")
	pf.StringArray("rect", nil, "outline x,y,w,h[,thickness] (repeatable)")
	pf.StringArray("hline", nil, "horizontal line x0,x1,y (repeatable)")
	pf.StringArray("vline", nil, "vertical line x,y0,y1 (repeatable)")
	pf.StringArray("point", nil, "point x,y (repeatable)")
	pf.StringArray("text", nil, "label x,y,text with its baseline at y (repeatable)")
	return cmd
}

// apply draws every op into img and returns how many were drawn
func (o *drawOps) apply(img *pixel.Image) (int, error) {
	n := 0
	for _, s := range o.Fills {
		v, err := parseInts(s, 4, false, 0)
		if err != nil {
			return n, fmt.Errorf("--fill: %w", err)
		}
		pixel.FillRect(img, v[0], v[1], v[2], v[3], o.Color)
		n++
	}
	for _, s := range o.Rects {
		v, err := parseInts(s, 5, true, 1)
		if err != nil {
			return n, fmt.Errorf("--rect: %w", err)
		}
		pixel.DrawRect(img, v[0], v[1], v[2], v[3], o.Color, v[4])
		n++
	}
	for _, s := range o.HLines {
		v, err := parseInts(s, 3, false, 0)
		if err != nil {
			return n, fmt.Errorf("--hline: %w", err)
		}
		pixel.DrawHLine(img, v[0], v[1], v[2], o.Color)
		n++
	}
	for _, s := range o.VLines {
		v, err := parseInts(s, 3, false, 0)
		if err != nil {
			return n, fmt.Errorf("--vline: %w", err)
		}
		pixel.DrawVLine(img, v[0], v[1], v[2], o.Color)
		n++
	}
	for _, s := range o.Points {
		v, err := parseInts(s, 2, false, 0)
		if err != nil {
			return n, fmt.Errorf("--point: %w", err)
		}
		pixel.DrawPoint(img, v[0], v[1], o.Color)
		n++
	}
	for _, s := range o.Texts {
		parts := strings.SplitN(s, ",", 3)
		if len(parts) != 3 {
			return n, fmt.Errorf("--text: %q must look like x,y,label", s)
		}
		x, errX := strconv.Atoi(strings.TrimSpace(parts[0]))
		y, errY := strconv.Atoi(strings.TrimSpace(parts[1]))
		if errX != nil || errY != nil {
			return n, fmt.Errorf("--text: %q has a bad position", s)
		}
		pixel.DrawText(img, x, y, parts[2], o.Color)
		n++
	}
	return n, nil
}
