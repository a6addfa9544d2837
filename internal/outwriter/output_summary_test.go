package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/huangsam/pkgpulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runSummaryFixture() *schema.RunSummary {
	return &schema.RunSummary{
		AsOf: "2026-03-05",
		Levels: []schema.LevelSummary{
			{Level: "file", Updated: 3, Failed: 1, Duration: 120 * time.Millisecond, Errors: []schema.KeyError{
				{Key: schema.MustKey("bioconda", "samtools", "1.21", "linux-64", "bad.conda"), Err: errors.New("disk read failed")},
			}},
			{Level: "platform", Updated: 2, Duration: 40 * time.Millisecond},
		},
		Duration: 200 * time.Millisecond,
	}
}

// TestWriteJSONRunSummary tests the JSON rendering of a run summary.
func TestWriteJSONRunSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSONRunSummary(&buf, runSummaryFixture()))

	var doc struct {
		Date       string `json:"date"`
		Updated    int    `json:"updated"`
		Failed     int    `json:"failed"`
		DurationMs int64  `json:"duration_ms"`
		Levels     []struct {
			Level  string   `json:"level"`
			Errors []string `json:"errors"`
		} `json:"levels"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "2026-03-05", doc.Date)
	assert.Equal(t, 5, doc.Updated)
	assert.Equal(t, 1, doc.Failed)
	assert.Equal(t, int64(200), doc.DurationMs)
	require.Len(t, doc.Levels, 2)
	assert.Equal(t, "file", doc.Levels[0].Level)
	require.Len(t, doc.Levels[0].Errors, 1)
	assert.Contains(t, doc.Levels[0].Errors[0], "disk read failed")
	assert.Empty(t, doc.Levels[1].Errors)
}

// TestWriteCSVRunSummary tests the CSV rendering of a run summary.
func TestWriteCSVRunSummary(t *testing.T) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	require.NoError(t, writeCSVRunSummary(w, runSummaryFixture()))
	w.Flush()

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"file", "3", "1", "120"}, records[0])
	assert.Equal(t, []string{"platform", "2", "0", "40"}, records[1])
}

// TestWriteJSONSeries tests the JSON rendering of a node history.
func TestWriteJSONSeries(t *testing.T) {
	rec := &schema.LevelRecord{
		Key: schema.MustKey("bioconda", "samtools"),
		Series: schema.Series{
			{Date: "2026-03-01", Total: 10},
			{Date: "2026-03-05", Total: 22},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, writeJSONSeries(&buf, rec))

	var doc struct {
		Key    string `json:"key"`
		Points []struct {
			Date  string `json:"date"`
			Total int64  `json:"total"`
		} `json:"downloads_per_date"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "bioconda/samtools", doc.Key)
	require.Len(t, doc.Points, 2)
	assert.Equal(t, "2026-03-01", doc.Points[0].Date)
	assert.Equal(t, int64(22), doc.Points[1].Total)
}
