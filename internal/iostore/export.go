package iostore

import (
	"errors"
	"fmt"

	"github.com/huangsam/pkgpulse/internal/parquet"
	"github.com/huangsam/pkgpulse/schema"
)

// ExecuteStoreExport performs the actual export of rollup data to Parquet files.
func ExecuteStoreExport(topo schema.Topology, outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	// Get the record store
	store := Manager.GetRecordStore()

	keys, err := store.Keys()
	if err != nil {
		return fmt.Errorf("failed to list record keys: %w", err)
	}
	if len(keys) == 0 {
		return errors.New("no rollup data found to export")
	}

	fmt.Printf("Exporting %d records...\n", len(keys))

	var seriesRows []parquet.SeriesRow
	var breakdownRows []parquet.BreakdownRow
	for _, key := range keys {
		rec, err := store.Load(key)
		if err != nil {
			return fmt.Errorf("failed to load record for %s: %w", key, err)
		}
		if rec == nil {
			continue
		}
		seriesRows = append(seriesRows, parquet.SeriesRows(rec)...)
		breakdownRows = append(breakdownRows, parquet.BreakdownRows(topo, rec)...)
	}

	// Write series points to Parquet
	seriesFile := outputFile + ".series.parquet"
	if err := parquet.WriteSeriesParquet(seriesRows, seriesFile); err != nil {
		return fmt.Errorf("failed to write series rows: %w", err)
	}
	fmt.Printf("Exported %d series points to: %s\n", len(seriesRows), seriesFile)

	// Write breakdowns to Parquet
	breakdownFile := outputFile + ".breakdowns.parquet"
	if err := parquet.WriteBreakdownsParquet(breakdownRows, breakdownFile); err != nil {
		return fmt.Errorf("failed to write breakdown rows: %w", err)
	}
	fmt.Printf("Exported %d breakdown entries to: %s\n", len(breakdownRows), breakdownFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Apache Arrow")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}
