package cmd

import (
	"github.com/huangsam/pkgpulse/core"
	"github.com/huangsam/pkgpulse/internal/contract"
	"github.com/huangsam/pkgpulse/internal/iostore"
	"github.com/spf13/cobra"
)

// historyCmd shows the per-date series of a node.
var historyCmd = &cobra.Command{
	Use:   "history <channel> [package] [version] [platform] [file]",
	Short: "Show the download history of a hierarchy node.",
	Long: `Show the per-date cumulative download history recorded for a node.

The node is addressed by its key components, outermost first, down to an
individual file. The series is deduplicated: dates where the total did not
change are omitted, and the carried-forward total applies between points.

Examples:
  # Channel-wide history
  pkgpulse history bioconda

  # One package's history as JSON
  pkgpulse history bioconda samtools --output json

  # A single file's history
  pkgpulse history bioconda samtools 1.21 linux-64 samtools-1.21-h50ea8bc_0.conda`,
	Args:    cobra.RangeArgs(1, 5),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		store := iostore.Manager.GetRecordStore()
		if err := core.ExecuteSeries(cfg, store, args); err != nil {
			contract.LogFatal("Cannot show history", err)
		}
	},
}
