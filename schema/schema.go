// Package schema has models and shared types for all parts of pkgpulse.
package schema

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// NumLevels is the depth of the download hierarchy. The topology is a
// build-time constant of the domain, not a dynamically sized structure.
const NumLevels = 5

// Topology is the fixed ordered list of hierarchy level names. It defines how
// many rollup iterations occur and which child-level name labels each
// breakdown field in persisted records.
type Topology [NumLevels]string

// DefaultTopology is the hierarchy used for package download tracking.
var DefaultTopology = Topology{"channel", "package", "version", "platform", "file"}

// ChildLevel returns the level name of the children of a key at the given
// depth. A depth-1 key (a channel) has "package" children, and so on.
func (t Topology) ChildLevel(depth int) string {
	return t[depth]
}

// Key addresses one node of the hierarchy. It is an ordered tuple of 1 to
// NumLevels identifiers backed by a fixed array, so it is comparable and can
// be used directly as a map key.
type Key struct {
	parts [NumLevels]string
	depth int
}

// NewKey builds a key from level identifiers, outermost first.
func NewKey(parts ...string) (Key, error) {
	if len(parts) == 0 || len(parts) > NumLevels {
		return Key{}, fmt.Errorf("key must have 1 to %d components, got %d", NumLevels, len(parts))
	}
	var k Key
	for i, p := range parts {
		if p == "" {
			return Key{}, fmt.Errorf("key component %d is empty", i)
		}
		k.parts[i] = p
	}
	k.depth = len(parts)
	return k, nil
}

// MustKey is NewKey for fixtures and tests; it panics on invalid input.
func MustKey(parts ...string) Key {
	k, err := NewKey(parts...)
	if err != nil {
		panic(err)
	}
	return k
}

// Depth returns the number of components in the key.
func (k Key) Depth() int { return k.depth }

// IsLeaf reports whether the key addresses an individual distributable file.
func (k Key) IsLeaf() bool { return k.depth == NumLevels }

// Part returns the identifier at topology position i.
func (k Key) Part(i int) string { return k.parts[i] }

// Parts returns the key components as a slice, outermost first.
func (k Key) Parts() []string {
	out := make([]string, k.depth)
	copy(out, k.parts[:k.depth])
	return out
}

// Leaf returns the innermost component.
func (k Key) Leaf() string { return k.parts[k.depth-1] }

// Parent returns the key addressed by dropping the innermost component.
// The second return value is false for depth-1 (root level) keys.
func (k Key) Parent() (Key, bool) {
	if k.depth <= 1 {
		return Key{}, false
	}
	p := k
	p.parts[p.depth-1] = ""
	p.depth--
	return p, true
}

// String joins the components with "/" for logs and store addressing.
func (k Key) String() string {
	return strings.Join(k.Parts(), "/")
}

// DateFormat is the calendar date representation used everywhere.
const DateFormat = "2006-01-02"

// Date is a calendar date in ISO YYYY-MM-DD form. Zero-padded ISO dates order
// lexicographically, so Date values compare with the usual string operators.
type Date string

// ParseDate validates a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	if _, err := time.Parse(DateFormat, s); err != nil {
		return "", fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date(s), nil
}

// DateOf truncates a timestamp to its UTC calendar date.
func DateOf(t time.Time) Date {
	return Date(t.UTC().Format(DateFormat))
}

// Today returns the current UTC calendar date.
func Today() Date {
	return DateOf(time.Now())
}

// AddDays shifts the date by n calendar days (negative n moves backward).
// The receiver must be a valid date.
func (d Date) AddDays(n int) Date {
	t, _ := time.Parse(DateFormat, string(d))
	return DateOf(t.AddDate(0, 0, n))
}

// Time returns the date as midnight UTC.
func (d Date) Time() time.Time {
	t, _ := time.Parse(DateFormat, string(d))
	return t
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool { return d == "" }

// Point is a single (date, cumulative total) observation.
type Point struct {
	Date  Date
	Total int64
}

// Series is the per-date history of one hierarchy node, ascending by date.
// Invariant: strictly increasing dates, and no interior point whose total
// equals both its neighbors' totals.
type Series []Point

// TotalAt returns the carried-forward total at date d: the total of the
// latest point dated at or before d. The second return value is false when
// the series has no point at or before d.
func (s Series) TotalAt(d Date) (int64, bool) {
	// First index with date > d; the point before it carries forward.
	i := sort.Search(len(s), func(i int) bool { return s[i].Date > d })
	if i == 0 {
		return 0, false
	}
	return s[i-1].Total, true
}

// Last returns the most recent point.
func (s Series) Last() (Point, bool) {
	if len(s) == 0 {
		return Point{}, false
	}
	return s[len(s)-1], true
}

// Clone returns an independent copy of the series.
func (s Series) Clone() Series {
	if s == nil {
		return nil
	}
	out := make(Series, len(s))
	copy(out, s)
	return out
}

// Snapshot maps full-depth keys to non-negative cumulative totals, all
// captured as of one date.
type Snapshot map[Key]int64

// IntegrityError reports a stored series that violates the series invariant
// (duplicate or out-of-order dates discovered on load). It is scoped to one
// key and never aborts a whole run.
type IntegrityError struct {
	Key    Key
	Reason string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("data integrity violation for %s: %s", e.Key, e.Reason)
}
