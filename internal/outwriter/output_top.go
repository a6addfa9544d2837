package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/huangsam/pkgpulse/internal/contract"
	"github.com/huangsam/pkgpulse/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// childRow is one display row of a node's child breakdown.
type childRow struct {
	Child       string
	Total       int64
	RecentDelta int64
}

// buildChildRows merges the current breakdown with per-child recent activity,
// ranked by total descending. The recent delta is the growth between a
// child's first and last in-window watermark events; a child with a single
// event still grew by at least one download.
func buildChildRows(rec *schema.LevelRecord) []childRow {
	firstSeen := make(map[string]int64)
	lastSeen := make(map[string]int64)
	for _, entry := range rec.Recent {
		for _, child := range entry.Children {
			if _, ok := firstSeen[child.Child]; !ok {
				firstSeen[child.Child] = child.Total
			}
			lastSeen[child.Child] = child.Total
		}
	}

	rows := make([]childRow, 0, len(rec.Current))
	for _, entry := range rec.Current {
		row := childRow{Child: entry.Child, Total: entry.Total}
		if last, ok := lastSeen[entry.Child]; ok {
			row.RecentDelta = max(last-firstSeen[entry.Child], 1)
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Total != rows[j].Total {
			return rows[i].Total > rows[j].Total
		}
		return rows[i].Child < rows[j].Child
	})
	return rows
}

// maxRecentDelta returns the largest recent delta among rows, for trend scaling.
func maxRecentDelta(rows []childRow) int64 {
	var m int64
	for _, r := range rows {
		if r.RecentDelta > m {
			m = r.RecentDelta
		}
	}
	return m
}

// PrintTopChildren outputs a node's child breakdown, dispatching based on the output format configured.
func PrintTopChildren(rec *schema.LevelRecord, cfg *contract.Config) error {
	rows := buildChildRows(rec)

	switch cfg.Output {
	case schema.JSONOut:
		if err := printJSONTopChildren(rec, rows, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printCSVTopChildren(rec, rows, cfg); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		if err := printTopChildrenTable(rec, rows, cfg); err != nil {
			return fmt.Errorf("error writing table output: %w", err)
		}
	}
	return nil
}

// printJSONTopChildren handles opening the file and calling the JSON writer.
func printJSONTopChildren(rec *schema.LevelRecord, rows []childRow, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONTopChildren(w, rec, rows, cfg.Topology)
	}, "Wrote JSON")
}

// printCSVTopChildren handles opening the file and calling the CSV writer.
func printCSVTopChildren(rec *schema.LevelRecord, rows []childRow, cfg *contract.Config) error {
	childLevel := cfg.Topology.ChildLevel(rec.Key.Depth())
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		header := []string{"rank", childLevel, "total", "recent_delta", "trend"}
		return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
			return writeCSVTopChildren(csvWriter, rows)
		})
	}, "Wrote CSV")
}

// writeJSONTopChildren marshals the child rows to JSON and writes them.
func writeJSONTopChildren(w io.Writer, rec *schema.LevelRecord, rows []childRow, topo schema.Topology) error {
	type JSONChildRow struct {
		Rank        int    `json:"rank"`
		Child       string `json:"child"`
		Total       int64  `json:"total"`
		RecentDelta int64  `json:"recent_delta"`
		Trend       string `json:"trend"`
	}
	type JSONTopChildren struct {
		Key        string         `json:"key"`
		ChildLevel string         `json:"child_level"`
		Children   []JSONChildRow `json:"children"`
	}

	maxDelta := maxRecentDelta(rows)
	output := JSONTopChildren{
		Key:        rec.Key.String(),
		ChildLevel: topo.ChildLevel(rec.Key.Depth()),
	}
	for i, r := range rows {
		output.Children = append(output.Children, JSONChildRow{
			Rank:        i + 1,
			Child:       r.Child,
			Total:       r.Total,
			RecentDelta: r.RecentDelta,
			Trend:       contract.GetPlainTrendLabel(r.RecentDelta, maxDelta),
		})
	}
	return writeJSON(w, output)
}

// writeCSVTopChildren writes the child rows to a CSV writer.
func writeCSVTopChildren(w *csv.Writer, rows []childRow) error {
	maxDelta := maxRecentDelta(rows)
	for i, r := range rows {
		row := []string{
			strconv.Itoa(i + 1),
			r.Child,
			strconv.FormatInt(r.Total, 10),
			strconv.FormatInt(r.RecentDelta, 10),
			contract.GetPlainTrendLabel(r.RecentDelta, maxDelta),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// printTopChildrenTable prints the child rows as a ranked table.
func printTopChildrenTable(rec *schema.LevelRecord, rows []childRow, cfg *contract.Config) error {
	childLevel := cfg.Topology.ChildLevel(rec.Key.Depth())
	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"Rank", childLevel, "Total", "Recent", "Trend"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	maxDelta := maxRecentDelta(rows)
	maxWidth := GetMaxTableChildWidth()
	var data [][]string
	for i, r := range rows {
		trend := contract.GetPlainTrendLabel(r.RecentDelta, maxDelta)
		if cfg.UseColors {
			trend = contract.GetColorTrendLabel(r.RecentDelta, maxDelta)
		}
		data = append(data, []string{
			strconv.Itoa(i + 1),
			truncateChild(r.Child, maxWidth),
			strconv.FormatInt(r.Total, 10),
			strconv.FormatInt(r.RecentDelta, 10),
			trend,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	var total int64
	for _, r := range rows {
		total += r.Total
	}
	fmt.Printf("Showing top %d %ss of %s (combined total: %d)\n", len(rows), childLevel, rec.Key, total)
	return nil
}
