package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/huangsam/pkgpulse/internal/contract"
	"github.com/huangsam/pkgpulse/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintRunSummary outputs the rollup run summary, dispatching based on the output format configured.
func PrintRunSummary(summary *schema.RunSummary, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := printJSONRunSummary(summary, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printCSVRunSummary(summary, cfg); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		if err := printRunSummaryTable(summary, cfg, duration); err != nil {
			return fmt.Errorf("error writing table output: %w", err)
		}
	}
	return nil
}

// printJSONRunSummary handles opening the file and calling the JSON writer.
func printJSONRunSummary(summary *schema.RunSummary, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONRunSummary(w, summary)
	}, "Wrote JSON")
}

// printCSVRunSummary handles opening the file and calling the CSV writer.
func printCSVRunSummary(summary *schema.RunSummary, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		header := []string{"level", "updated", "failed", "duration_ms"}
		return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
			return writeCSVRunSummary(csvWriter, summary)
		})
	}, "Wrote CSV")
}

// writeJSONRunSummary marshals the run summary to JSON and writes it.
func writeJSONRunSummary(w io.Writer, summary *schema.RunSummary) error {
	type JSONLevelSummary struct {
		Level      string   `json:"level"`
		Updated    int      `json:"updated"`
		Failed     int      `json:"failed"`
		DurationMs int64    `json:"duration_ms"`
		Errors     []string `json:"errors,omitempty"`
	}
	type JSONRunSummary struct {
		Date       string             `json:"date"`
		Updated    int                `json:"updated"`
		Failed     int                `json:"failed"`
		DurationMs int64              `json:"duration_ms"`
		Levels     []JSONLevelSummary `json:"levels"`
	}

	output := JSONRunSummary{
		Date:       string(summary.AsOf),
		Updated:    summary.TotalUpdated(),
		Failed:     summary.TotalFailed(),
		DurationMs: summary.Duration.Milliseconds(),
	}
	for _, level := range summary.Levels {
		jl := JSONLevelSummary{
			Level:      level.Level,
			Updated:    level.Updated,
			Failed:     level.Failed,
			DurationMs: level.Duration.Milliseconds(),
		}
		for _, ke := range level.Errors {
			jl.Errors = append(jl.Errors, fmt.Sprintf("%s: %v", ke.Key, ke.Err))
		}
		output.Levels = append(output.Levels, jl)
	}
	return writeJSON(w, output)
}

// writeCSVRunSummary writes the per-level summary rows to a CSV writer.
func writeCSVRunSummary(w *csv.Writer, summary *schema.RunSummary) error {
	for _, level := range summary.Levels {
		row := []string{
			level.Level,
			strconv.Itoa(level.Updated),
			strconv.Itoa(level.Failed),
			strconv.FormatInt(level.Duration.Milliseconds(), 10),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// printRunSummaryTable prints the run summary as a per-level table followed by
// totals and any per-key failures.
func printRunSummaryTable(summary *schema.RunSummary, cfg *contract.Config, duration time.Duration) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"Level", "Updated", "Failed", "Duration"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, level := range summary.Levels {
		data = append(data, []string{
			level.Level,
			strconv.Itoa(level.Updated),
			strconv.Itoa(level.Failed),
			level.Duration.Round(time.Millisecond).String(),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Printf("Rolled up %d keys for %s (%d failed)\n", summary.TotalUpdated(), summary.AsOf, summary.TotalFailed())
	fmt.Printf("Run completed in %v with %d workers. Store backend: %s\n", duration, cfg.Workers, cfg.StoreBackend)

	for _, level := range summary.Levels {
		for _, ke := range level.Errors {
			contract.LogWarn(fmt.Sprintf("key %s", ke.Key), ke.Err)
		}
	}
	return nil
}
