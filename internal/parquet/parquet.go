// Package parquet provides data structures and functions for exporting
// download rollup data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"

	"github.com/huangsam/pkgpulse/schema"
	"github.com/parquet-go/parquet-go"
)

// SeriesRow represents one point of one node's download history.
type SeriesRow struct {
	// Key is the slash-joined hierarchy address of the node
	Key string `parquet:"key,snappy"`

	// Depth is the number of hierarchy components in the key
	Depth int32 `parquet:"depth,snappy"`

	// Date is the ISO calendar date of the observation
	Date string `parquet:"date,snappy"`

	// Total is the cumulative download count on that date
	Total int64 `parquet:"total,snappy"`
}

// BreakdownRow represents one child entry of one node's current breakdown.
type BreakdownRow struct {
	// Key is the slash-joined hierarchy address of the parent node
	Key string `parquet:"key,snappy"`

	// ChildLevel is the topology level name of the child, e.g. "version"
	ChildLevel string `parquet:"child_level,snappy"`

	// Child is the child identifier
	Child string `parquet:"child,snappy"`

	// Total is the child's cumulative download count
	Total int64 `parquet:"total,snappy"`
}

// SeriesRows flattens a record's history into export rows.
func SeriesRows(rec *schema.LevelRecord) []SeriesRow {
	rows := make([]SeriesRow, 0, len(rec.Series))
	for _, p := range rec.Series {
		rows = append(rows, SeriesRow{
			Key:   rec.Key.String(),
			Depth: int32(rec.Key.Depth()),
			Date:  string(p.Date),
			Total: p.Total,
		})
	}
	return rows
}

// BreakdownRows flattens a record's current breakdown into export rows.
func BreakdownRows(topo schema.Topology, rec *schema.LevelRecord) []BreakdownRow {
	if rec.Key.IsLeaf() {
		return nil
	}
	childLevel := topo.ChildLevel(rec.Key.Depth())
	rows := make([]BreakdownRow, 0, len(rec.Current))
	for _, e := range rec.Current {
		rows = append(rows, BreakdownRow{
			Key:        rec.Key.String(),
			ChildLevel: childLevel,
			Child:      e.Child,
			Total:      e.Total,
		})
	}
	return rows
}

// WriteSeriesParquet writes a slice of SeriesRow structs to a Parquet file.
func WriteSeriesParquet(data []SeriesRow, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the SeriesRow struct tags
	writer := parquet.NewGenericWriter[SeriesRow](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WriteBreakdownsParquet writes a slice of BreakdownRow structs to a Parquet file.
func WriteBreakdownsParquet(data []BreakdownRow, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the BreakdownRow struct tags
	writer := parquet.NewGenericWriter[BreakdownRow](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}
