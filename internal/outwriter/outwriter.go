// Package outwriter has output and writer logic.
package outwriter

import (
	"os"
	"time"

	"github.com/huangsam/pkgpulse/internal/contract"
	"github.com/huangsam/pkgpulse/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteRunSummary prints a rollup run summary using the configured output format.
func (ow *OutWriter) WriteRunSummary(summary *schema.RunSummary, cfg *contract.Config, duration time.Duration) error {
	return PrintRunSummary(summary, cfg, duration)
}

// WriteTopChildren prints a node's child breakdown using the configured output format.
func (ow *OutWriter) WriteTopChildren(rec *schema.LevelRecord, cfg *contract.Config) error {
	return PrintTopChildren(rec, cfg)
}

// WriteSeries prints a node's download history using the configured output format.
func (ow *OutWriter) WriteSeries(rec *schema.LevelRecord, cfg *contract.Config) error {
	return PrintSeries(rec, cfg)
}

// GetMaxTableChildWidth calculates the maximum width for child identifiers in
// table output based on terminal width. File basenames routinely run long
// enough to wrap narrow terminals.
func GetMaxTableChildWidth() int {
	termWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || termWidth <= 0 {
		// Fallback to conservative default if terminal size can't be detected
		termWidth = 80
	}

	// Reserve space for Rank + Total + Recent + Trend with borders/padding
	baseWidth := 45

	available := termWidth - baseWidth
	if available < 15 {
		// Minimum reasonable identifier width
		return 15
	}
	if available > 70 {
		// Maximum identifier width to prevent overly long rows
		return 70
	}
	return available
}

// truncateChild shortens a child identifier for table display, keeping the
// tail where version and build suffixes live.
func truncateChild(name string, maxWidth int) string {
	if len(name) <= maxWidth {
		return name
	}
	if maxWidth <= 3 {
		return name[:maxWidth]
	}
	return "..." + name[len(name)-(maxWidth-3):]
}
