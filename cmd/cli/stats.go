package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/partstream/pricing-engine/internal/pricing"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show service request counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		var stats pricing.StatsSnapshot
		if err := newAPIClient().GetJSON(cmd.Context(), serverURL+"/internal/admin/stats", &stats); err != nil {
			return fmt.Errorf("stats request failed: %w", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "Total requests\t%d\n", stats.TotalRequests)
		fmt.Fprintf(w, "Cache hits\t%d\n", stats.CacheHits)
		fmt.Fprintf(w, "Errors\t%d\n", stats.ErrorCount)
		fmt.Fprintf(w, "Compute time (ms)\t%d\n", stats.TotalComputeTimeMs)
		fmt.Fprintf(w, "Recommendations generated\t%d\n", stats.RecommendationsGenerated)
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
