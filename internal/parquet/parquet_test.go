package parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/pkgpulse/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeriesRowStructTags(t *testing.T) {
	// Verify struct tags are properly defined for parquet schema inference
	sch := parquet.SchemaOf(new(SeriesRow))
	require.NotNil(t, sch)

	for _, colName := range []string{"key", "depth", "date", "total"} {
		col, ok := sch.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestBreakdownRowStructTags(t *testing.T) {
	sch := parquet.SchemaOf(new(BreakdownRow))
	require.NotNil(t, sch)

	for _, colName := range []string{"key", "child_level", "child", "total"} {
		col, ok := sch.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestSeriesRows(t *testing.T) {
	rec := &schema.LevelRecord{
		Key: schema.MustKey("bioconda", "samtools"),
		Series: schema.Series{
			{Date: "2026-03-01", Total: 10},
			{Date: "2026-03-05", Total: 22},
		},
	}

	rows := SeriesRows(rec)
	require.Len(t, rows, 2)
	assert.Equal(t, "bioconda/samtools", rows[0].Key)
	assert.Equal(t, int32(2), rows[0].Depth)
	assert.Equal(t, "2026-03-01", rows[0].Date)
	assert.Equal(t, int64(22), rows[1].Total)
}

func TestBreakdownRows(t *testing.T) {
	t.Run("non-leaf record", func(t *testing.T) {
		rec := &schema.LevelRecord{
			Key:     schema.MustKey("bioconda"),
			Current: []schema.BreakdownEntry{{Child: "samtools", Total: 15}},
		}
		rows := BreakdownRows(schema.DefaultTopology, rec)
		require.Len(t, rows, 1)
		assert.Equal(t, "bioconda", rows[0].Key)
		assert.Equal(t, "package", rows[0].ChildLevel)
		assert.Equal(t, "samtools", rows[0].Child)
	})

	t.Run("leaf records have no breakdowns", func(t *testing.T) {
		rec := &schema.LevelRecord{
			Key: schema.MustKey("bioconda", "samtools", "1.21", "linux-64", "samtools-1.21-0.conda"),
		}
		assert.Nil(t, BreakdownRows(schema.DefaultTopology, rec))
	})
}

func TestWriteSeriesParquet(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "series.parquet")

	data := []SeriesRow{
		{Key: "bioconda", Depth: 1, Date: "2026-03-01", Total: 10},
		{Key: "bioconda/samtools", Depth: 2, Date: "2026-03-05", Total: 22},
	}

	err := WriteSeriesParquet(data, outputPath)
	require.NoError(t, err, "Writing Parquet file should not produce error")

	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0), "Output file should not be empty")

	// Read back and verify data
	file, err := os.Open(outputPath)
	require.NoError(t, err, "Should be able to open output file")
	defer file.Close()

	reader := parquet.NewGenericReader[SeriesRow](file)
	defer reader.Close()

	readData := make([]SeriesRow, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err, "Should be able to read data")
	}
	assert.Equal(t, len(data), n, "Should read all records")
	assert.Equal(t, data, readData)
}

func TestWriteBreakdownsParquet(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "breakdowns.parquet")

	data := []BreakdownRow{
		{Key: "bioconda", ChildLevel: "package", Child: "samtools", Total: 15},
	}

	err := WriteBreakdownsParquet(data, outputPath)
	require.NoError(t, err, "Writing Parquet file should not produce error")

	file, err := os.Open(outputPath)
	require.NoError(t, err, "Should be able to open output file")
	defer file.Close()

	reader := parquet.NewGenericReader[BreakdownRow](file)
	defer reader.Close()

	readData := make([]BreakdownRow, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err, "Should be able to read data")
	}
	assert.Equal(t, len(data), n, "Should read all records")
	assert.Equal(t, data, readData)
}

func TestWriteSeriesParquet_EmptyData(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "empty_series.parquet")

	err := WriteSeriesParquet([]SeriesRow{}, outputPath)
	require.NoError(t, err, "Writing empty data should not produce error")

	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0), "Parquet footer should still be written")
}
