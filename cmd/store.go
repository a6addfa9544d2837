package cmd

import (
	"fmt"

	"github.com/huangsam/pkgpulse/internal/contract"
	"github.com/huangsam/pkgpulse/internal/iostore"
	"github.com/huangsam/pkgpulse/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// storeSetup loads minimal configuration needed for store operations.
// This is used by commands that need store access without full shared setup.
func storeSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get store-related config values
	backend := schema.StoreBackend(viper.GetString("store-backend"))
	if backend == "" {
		backend = schema.FileBackend
	}
	connStr := viper.GetString("store-db-connect")
	dataDir := viper.GetString("data-dir")
	if dataDir == "" {
		dataDir = contract.DefaultDataDir
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Initialize the record store with the loaded config
	if err := iostore.InitStore(schema.DefaultTopology, backend, dataDir, connStr); err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}

	cfg.Topology = schema.DefaultTopology
	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr
	cfg.DataDir = dataDir

	return nil
}

// storeSetupWrapper wraps storeSetup to provide PreRunE for store commands.
func storeSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeSetup()
}

// storeCmd focused on record store management.
//
// Note: Store subcommands use minimal initialization (storeSetup) instead of
// the full sharedSetup used by rollup commands. This avoids source URL
// validation and channel processing for simple store operations.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the persisted download records",
	Long: `Manage the store that holds per-node download records across runs.

Records accumulate one rollup at a time and are never deleted by normal runs;
these commands inspect, migrate, export, or reset the whole store.

Supported backends: file tree (default), SQLite, MySQL, PostgreSQL

Subcommands:
  status  - Show store statistics and connection info
  clear   - Remove all persisted records
  export  - Export records to Parquet files
  migrate - Run schema migrations for SQL backends

Examples:
  # Check store status
  pkgpulse store status

  # Export everything for offline analysis
  pkgpulse store export --output-file downloads`,
}

// storeClearCmd clears the record store.
var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all persisted download records",
	Long: `Delete every persisted download record from the configured backend.

Use this when:
- Starting over with a different channel set
- The store may be corrupted
- Testing rollups from a clean slate

For the file backend: Removes the data directory
For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the records table

Examples:
  # Clear the default file store
  pkgpulse store clear

  # Clear a MySQL store (set connection string via env variable)
  PKGPULSE_STORE_BACKEND=mysql PKGPULSE_STORE_DB_CONNECT="..." pkgpulse store clear`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iostore.ClearStore(cfg.StoreBackend, cfg.DataDir, cfg.StoreDBConnect); err != nil {
			contract.LogFatal("Failed to clear store", err)
		}
		fmt.Println("Store cleared successfully.")
	},
}

// storeStatusCmd shows store status.
var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display store statistics and connection details",
	Long: `Show detailed information about the download record store.

Displays:
- Backend type and connection status
- Total number of persisted records
- Last and oldest write timestamps
- Store size

Examples:
  # Check store status
  pkgpulse store status`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iostore.Manager.GetRecordStore().Status()
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		iostore.PrintStoreStatus(status)
	},
}

// storeExportCmd exports the store to Parquet files.
var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export download records to Parquet files",
	Long: `Export every persisted record to Parquet files for offline analysis.

Two files are written next to the given output path: one with all series
points and one with all current breakdowns. The files load directly into
Spark, Pandas, DuckDB, or any other Parquet-compatible tool.

Examples:
  # Export the whole store
  pkgpulse store export --output-file downloads`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		outputFile := viper.GetString("output-file")
		if err := iostore.ExecuteStoreExport(cfg.Topology, outputFile); err != nil {
			contract.LogFatal("Failed to export store", err)
		}
	},
}

// storeMigrateCmd runs schema migrations for SQL backends.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run schema migrations for SQL store backends",
	Long: `Run database schema migrations for the record store.

Only applies to SQL backends (sqlite, mysql, postgresql); the file backend
has no schema to migrate.

Examples:
  # Migrate to the latest version
  pkgpulse store migrate

  # Roll back all migrations
  pkgpulse store migrate --target-version 0`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		// Migration opens its own connection; only the config file is needed.
		return loadConfigFile()
	},
	Run: func(_ *cobra.Command, _ []string) {
		backend := schema.StoreBackend(viper.GetString("store-backend"))
		connStr := viper.GetString("store-db-connect")
		targetVersion := viper.GetInt("target-version")
		if err := iostore.MigrateStore(backend, connStr, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
