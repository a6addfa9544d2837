package cmd

import (
	"github.com/huangsam/pkgpulse/core"
	"github.com/huangsam/pkgpulse/internal/contract"
	"github.com/huangsam/pkgpulse/internal/iostore"
	"github.com/spf13/cobra"
)

// topCmd shows the highest-download children of a node.
var topCmd = &cobra.Command{
	Use:   "top <channel> [package] [version] [platform]",
	Short: "Show the top children of a hierarchy node by download count.",
	Long: `Show the highest-download children of a node, ranked by cumulative total,
with recent activity and a trend label per child.

The node is addressed by its key components, outermost first. A channel key
lists packages, a package key lists versions, and so on.

Examples:
  # Top packages of a channel
  pkgpulse top bioconda

  # Top versions of a package, as CSV
  pkgpulse top bioconda samtools --output csv

  # Top platforms of a version
  pkgpulse top bioconda samtools 1.21`,
	Args:    cobra.RangeArgs(1, 4),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		store := iostore.Manager.GetRecordStore()
		if err := core.ExecuteTopChildren(cfg, store, args); err != nil {
			contract.LogFatal("Cannot show top children", err)
		}
	},
}
