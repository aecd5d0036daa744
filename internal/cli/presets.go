package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"design2prompt/internal/canvas"
)

func newPresetsCmd(opts *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the viewport presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			vp := canvas.DefaultViewports()
			tw := tabwriter.NewWriter(opts.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tWIDTH\tHEIGHT")
			for _, name := range vp.Names() {
				size, _ := vp.Lookup(name)
				fmt.Fprintf(tw, "%s\t%.0f\t%.0f\n", name, size.Width, size.Height)
			}
			return tw.Flush()
		},
	}
}
