package cmd

import (
	"github.com/huangsam/pkgpulse/core"
	"github.com/huangsam/pkgpulse/internal/contract"
	"github.com/huangsam/pkgpulse/internal/iostore"
	"github.com/huangsam/pkgpulse/internal/source"
	"github.com/spf13/cobra"
)

// rollupCmd fetches the day's counts and folds them into every level.
var rollupCmd = &cobra.Command{
	Use:   "rollup",
	Short: "Fetch today's download counts and update all hierarchy levels.",
	Long: `Fetch cumulative download counts from anaconda.org and fold them into the
persisted per-node history, level by level.

Every file count observed today becomes a new point in that file's series,
and each ancestor (platform, version, package, channel) is rebuilt from its
children so totals stay consistent all the way up. Re-running with the same
date is safe: the run converges to identical records.

Examples:
  # Roll up today's counts for the default channel
  pkgpulse rollup

  # Roll up a specific channel set into a SQLite store
  pkgpulse rollup --channels bioconda,conda-forge --store-backend sqlite

  # Re-run a dated rollup and export the summary
  pkgpulse rollup --date 2026-08-30 --output json --output-file run.json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		src := source.NewAnacondaSource(cfg)
		store := iostore.Manager.GetRecordStore()
		if err := core.ExecuteRollup(rootCtx, cfg, src, store); err != nil {
			contract.LogFatal("Cannot run rollup", err)
		}
	},
}
