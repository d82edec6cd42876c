package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/robalobadob/colorguess/internal/catalog"
)

func newTiersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tiers",
		Short: "List difficulty tiers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := a.loadCatalog()
			if err != nil {
				return err
			}
			counts := cat.Stats()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TIER\tTITLE\tCOLORS\tGAUGE\tDESCRIPTION")
			for _, ti := range catalog.TierInfos() {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s %.0f%%\t%s\n",
					ti.Tier, ti.Title, counts[ti.Tier], ti.GaugeColor.Hex(), ti.GaugeValue*100, ti.Description)
			}
			return tw.Flush()
		},
	}
}
