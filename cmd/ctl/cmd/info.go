package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jpfielding/pixconv.go/pkg/framefile"
	"github.com/spf13/cobra"
)

// NewInfoCmd prints the header of a .pxf frame
func NewInfoCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "print the header of a .pxf frame",
		Long:  "print the header of a .pxf frame",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open file: %w", err)
			}
			defer f.Close()
			h, err := framefile.ReadHeader(bufio.NewReader(f))
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			w := cmd.OutOrStdout()
			switch format, _ := cmd.Flags().GetString("format"); format {
			case "json":
				return json.NewEncoder(w).Encode(map[string]any{
					"format":      h.Format.String(),
					"rotation":    h.Rotate.Degrees(),
					"compression": h.Compression.String(),
					"width":       h.Width,
					"height":      h.Height,
					"payload":     h.PayloadSize,
					"stored":      h.StoredSize,
				})
			default:
				fmt.Fprintf(w, "format:      %s\n", h.Format)
				fmt.Fprintf(w, "size:        %dx%d\n", h.Width, h.Height)
				fmt.Fprintf(w, "rotation:    %d\n", h.Rotate.Degrees())
				fmt.Fprintf(w, "compression: %s\n", h.Compression)
				fmt.Fprintf(w, "payload:     %d bytes (%d stored)\n", h.PayloadSize, h.StoredSize)
			}
			return nil
		},
	}
	pf := cmd.PersistentFlags()
	pf.StringP("format", "f", "text", "output format (text|json)")
	return cmd
}
