package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newGeometryCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "geometry <cache-size> <block-size> <associativity>",
		Short:        "Print the sets, ways and address split of a cache configuration.",
		Args:         cobra.ExactArgs(3),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := parseGeometry(args[0], args[1], args[2])
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 1, ' ', 0)
			fmt.Fprintf(tw, "Blocks:\t%d\n", c.NumBlocks())
			fmt.Fprintf(tw, "Sets:\t%d\n", c.NumSets)
			fmt.Fprintf(tw, "Ways:\t%d\n", c.NumWays)
			fmt.Fprintf(tw, "Tag bits:\t%d\n", c.TagBits())
			fmt.Fprintf(tw, "Index bits:\t%d\n", c.IndexBits())
			fmt.Fprintf(tw, "Offset bits:\t%d\n", c.OffsetBits())

			return tw.Flush()
		},
	}
}
