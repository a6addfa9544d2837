// Package cmd defines the command-line interface for pkgpulse.
package cmd

import (
	"github.com/huangsam/pkgpulse/internal/contract"
	"github.com/huangsam/pkgpulse/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(rollupCmd)
	rootCmd.AddCommand(topCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(storeCmd)

	// Add the store subcommands to the parent store command
	storeCmd.AddCommand(storeClearCmd)
	storeCmd.AddCommand(storeStatusCmd)
	storeCmd.AddCommand(storeExportCmd)
	storeCmd.AddCommand(storeMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("data-dir", contract.DefaultDataDir, "Directory for file-backed record storage")
	rootCmd.PersistentFlags().StringSlice("channels", []string{"bioconda"}, "Channels to track download counts for")
	rootCmd.PersistentFlags().String("date", "", "Run date in YYYY-MM-DD form (defaults to today in UTC)")
	rootCmd.PersistentFlags().IntP("breakdown-limit", "l", contract.DefaultBreakdownLimit, "Number of children kept per breakdown")
	rootCmd.PersistentFlags().Int("recent-window", contract.DefaultRecentWindowDays, "Rolling window in days for recent download activity")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().String("store-backend", string(schema.FileBackend), "Store backend: file or sqlite or mysql or postgresql")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no)")
	rootCmd.PersistentFlags().String("api-base-url", contract.DefaultAPIBaseURL, "Base URL of the anaconda.org package API")
	rootCmd.PersistentFlags().String("repo-base-url", contract.DefaultRepoBaseURL, "Base URL of the conda repository host")
	rootCmd.PersistentFlags().Int("fetch-retries", contract.DefaultFetchRetries, "Retry attempts per HTTP fetch")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of storeMigrateCmd to Viper
	storeMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(storeMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding store migrate flags", err)
	}
}
