package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/packshift/packshift/internal/pack"
)

func newInspectCmd() *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "inspect <pack-dir-or-zip>",
		Short: "Show pack metadata and texture counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			packDir, cleanup, err := resolvePackDir(args[0])
			if err != nil {
				return err
			}
			defer cleanup()

			meta, err := pack.ReadMeta(packDir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "pack_format: %d\n", meta.Pack.PackFormat)
			if v := pack.VersionForFormat(meta.Pack.PackFormat); v != "" {
				fmt.Fprintf(out, "version:     %s\n", v)
			}
			if desc := plainDescription(meta.Pack.Description); desc != "" {
				fmt.Fprintf(out, "description: %s\n", desc)
			}

			for _, c := range pack.Categories {
				textures, err := pack.Textures(packDir, c, filter)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%-9s %d textures\n", c.String()+":", len(textures))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "count only textures whose name contains this")
	return cmd
}

// plainDescription flattens the colored segments back to plain text for
// terminal output.
func plainDescription(s string) string {
	var b strings.Builder
	for _, seg := range pack.ParseDescription(s) {
		b.WriteString(seg.Text)
	}
	return b.String()
}
