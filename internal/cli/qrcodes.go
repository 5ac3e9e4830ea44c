package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mboer/treasurehunt/internal/clues"
	"github.com/mboer/treasurehunt/internal/qr"
)

func newQRCodesCmd(opts *options) *cobra.Command {
	var (
		out  string
		size int
	)

	cmd := &cobra.Command{
		Use:   "qrcodes",
		Short: "Write a printable QR code PNG for every tag in the clue chain",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			chain, err := clues.Load(opts.cluesPath)
			if err != nil {
				return fmt.Errorf("loading clue chain: %w", err)
			}

			if err := qr.WriteAll(chain, opts.baseURL, out, size); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d QR codes to %s\n", chain.Len(), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "qrcodes", "output directory")
	cmd.Flags().IntVar(&size, "size", qr.DefaultSize, "image size in pixels")

	return cmd
}
