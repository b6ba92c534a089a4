package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Eyevinn/moqabr/internal"
)

func newLadderCommand(ctx *commandContext) *cobra.Command {
	var catalogOut string

	cmd := &cobra.Command{
		Use:   "ladder <asset-dir|catalog.json>",
		Short: "Show the bitrate ladder of an asset or catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			src, err := loadLadder(args[0], cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderLadder(src.ladder))

			if catalogOut != "" {
				if err := os.WriteFile(catalogOut, []byte(src.catalog.String()+"\n"), 0o644); err != nil {
					return fmt.Errorf("write catalog: %w", err)
				}
				fmt.Fprintf(out, "Wrote catalog with %d tracks to %s\n", len(src.catalog.Tracks), catalogOut)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&catalogOut, "catalog-out", "o", "", "Write the catalog as JSON to this file")
	return cmd
}

func renderLadder(l *internal.Ladder) string {
	headers := []string{"Group", "Category", "Quality", "Name", "Codec", "Profile", "Bitrate", "Resolution"}
	aligns := []columnAlignment{alignRight, alignLeft, alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft}
	var rows [][]string
	for _, g := range l.Groups() {
		for i, r := range g.Renditions {
			resolution := "-"
			if r.Width > 0 && r.Height > 0 {
				resolution = fmt.Sprintf("%dx%d", r.Width, r.Height)
			}
			profile := r.ProfileLevel()
			if profile == "" {
				profile = "-"
			}
			rows = append(rows, []string{
				strconv.Itoa(g.ID),
				string(g.Category()),
				strconv.Itoa(i),
				r.Name,
				r.Codec,
				profile,
				formatBitrate(r.Bitrate),
				resolution,
			})
		}
	}
	return renderTable(headers, rows, aligns)
}

func formatBitrate(bps float64) string {
	switch {
	case bps >= 1e6:
		return fmt.Sprintf("%.2f Mbps", bps/1e6)
	case bps >= 1e3:
		return fmt.Sprintf("%.0f kbps", bps/1e3)
	default:
		return fmt.Sprintf("%.0f bps", bps)
	}
}
