package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/huangsam/pkgpulse/internal/contract"
	"github.com/huangsam/pkgpulse/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintSeries outputs a node's download history, dispatching based on the output format configured.
func PrintSeries(rec *schema.LevelRecord, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := printJSONSeries(rec, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printCSVSeries(rec, cfg); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		if err := printSeriesTable(rec); err != nil {
			return fmt.Errorf("error writing table output: %w", err)
		}
	}
	return nil
}

// printJSONSeries handles opening the file and calling the JSON writer.
func printJSONSeries(rec *schema.LevelRecord, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONSeries(w, rec)
	}, "Wrote JSON")
}

// printCSVSeries handles opening the file and calling the CSV writer.
func printCSVSeries(rec *schema.LevelRecord, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		header := []string{"date", "total"}
		return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
			for _, p := range rec.Series {
				if err := csvWriter.Write([]string{string(p.Date), strconv.FormatInt(p.Total, 10)}); err != nil {
					return err
				}
			}
			return nil
		})
	}, "Wrote CSV")
}

// writeJSONSeries marshals the series to JSON and writes it.
func writeJSONSeries(w io.Writer, rec *schema.LevelRecord) error {
	type JSONPoint struct {
		Date  string `json:"date"`
		Total int64  `json:"total"`
	}
	type JSONSeries struct {
		Key    string      `json:"key"`
		Points []JSONPoint `json:"downloads_per_date"`
	}

	output := JSONSeries{Key: rec.Key.String()}
	for _, p := range rec.Series {
		output.Points = append(output.Points, JSONPoint{Date: string(p.Date), Total: p.Total})
	}
	return writeJSON(w, output)
}

// printSeriesTable prints the series as a date/total table.
func printSeriesTable(rec *schema.LevelRecord) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"Date", "Total"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, p := range rec.Series {
		data = append(data, []string{string(p.Date), strconv.FormatInt(p.Total, 10)})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if last, ok := rec.Series.Last(); ok {
		fmt.Printf("History of %s: %d points, latest total %d on %s\n", rec.Key, len(rec.Series), last.Total, last.Date)
	} else {
		fmt.Printf("History of %s: no recorded downloads\n", rec.Key)
	}
	return nil
}
