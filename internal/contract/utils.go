package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Trend label constants for breakdown output.
const (
	SurgingValue = "Surging" // Surging download activity
	RisingValue  = "Rising"  // Rising download activity
	SteadyValue  = "Steady"  // Steady trickle of downloads
	QuietValue   = "Quiet"   // No recent activity
)

// Color variables for console output.
var (
	SurgingColor = color.New(color.FgRed, color.Bold)
	RisingColor  = color.New(color.FgGreen, color.Bold)
	SteadyColor  = color.New(color.FgYellow)
	QuietColor   = color.New(color.FgCyan)
)

// GetPlainTrendLabel classifies a recent download delta relative to the
// largest delta among siblings. This is the core logic used for CSV, JSON,
// and table printing.
func GetPlainTrendLabel(delta, maxDelta int64) string {
	switch {
	case delta <= 0:
		return QuietValue
	case maxDelta > 0 && delta*2 >= maxDelta:
		return SurgingValue
	case maxDelta > 0 && delta*10 >= maxDelta:
		return RisingValue
	default:
		return SteadyValue
	}
}

// GetColorTrendLabel returns a colored trend label for console tables.
func GetColorTrendLabel(delta, maxDelta int64) string {
	text := GetPlainTrendLabel(delta, maxDelta)
	switch text {
	case SurgingValue:
		return SurgingColor.Sprint(text)
	case RisingValue:
		return RisingColor.Sprint(text)
	case SteadyValue:
		return SteadyColor.Sprint(text)
	default: // "Quiet"
		return QuietColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, falling
// back to os.Stdout when no path is configured.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// unreserved bytes pass through component escaping unchanged.
func isUnreservedByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '.' || c == '_' || c == '~' || c == '-':
		return true
	}
	return false
}

// EscapeComponent makes a key component safe for use as a single path
// segment on any filesystem. Escapes use '=' instead of '%' so the resulting
// names survive tooling that mangles percent signs.
func EscapeComponent(name string) string {
	if name == "." || name == ".." {
		// Dot names collide with directory navigation in path layouts.
		var b strings.Builder
		for i := 0; i < len(name); i++ {
			fmt.Fprintf(&b, "=%02X", name[i])
		}
		return b.String()
	}
	var b strings.Builder
	b.Grow(len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		if isUnreservedByte(c) {
			b.WriteByte(c)
		} else {
			fmt.Fprintf(&b, "=%02X", c)
		}
	}
	return b.String()
}

// UnescapeComponent reverses EscapeComponent.
func UnescapeComponent(s string) (string, error) {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '=' {
			b.WriteByte(c)
			continue
		}
		if i+2 >= len(s) {
			return "", fmt.Errorf("truncated escape in %q", s)
		}
		var v byte
		if _, err := fmt.Sscanf(s[i+1:i+3], "%02X", &v); err != nil {
			return "", fmt.Errorf("invalid escape in %q: %w", s, err)
		}
		b.WriteByte(v)
		i += 2
	}
	return b.String(), nil
}

// GetStoreDBFilePath returns the path to the SQLite DB file for record storage.
func GetStoreDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".pkgpulse.db"
	}
	return filepath.Join(homeDir, ".pkgpulse.db")
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warning %s: %v\n", msg, err)
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "Warning %s\n", msg)
}
