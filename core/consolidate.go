// Package core has the rollup, consolidation and breakdown logic for
// download histories.
package core

import (
	"fmt"

	"github.com/huangsam/pkgpulse/schema"
)

// Consolidate merges one (date, total) observation into an existing series
// and removes redundant points. The total is clamped to zero before use. If
// the series already has a point on the given date its total is replaced;
// otherwise the point is inserted in date order. Re-applying the same
// observation to the consolidated result is a no-op.
func Consolidate(s schema.Series, d schema.Date, total int64) schema.Series {
	if total < 0 {
		total = 0
	}

	merged := make(schema.Series, 0, len(s)+1)
	inserted := false
	for _, p := range s {
		switch {
		case p.Date == d:
			p.Total = total
			inserted = true
		case p.Date > d && !inserted:
			merged = append(merged, schema.Point{Date: d, Total: total})
			inserted = true
		}
		merged = append(merged, p)
	}
	if !inserted {
		merged = append(merged, schema.Point{Date: d, Total: total})
	}

	return dedup(merged)
}

// dedup drops interior points that carry no information: a point whose total
// equals both its immediate neighbors' totals, unless it shares its date with
// the following point. Virtual sentinels bound the scan so endpoints are
// always retained. Date collisions cannot survive the merge step above but
// the guard is kept regardless.
func dedup(s schema.Series) schema.Series {
	if len(s) <= 2 {
		return s
	}
	out := make(schema.Series, 0, len(s))
	for i, curr := range s {
		prevTotal := int64(-1)
		if i > 0 {
			prevTotal = s[i-1].Total
		}
		nextTotal := int64(-1)
		nextDate := schema.Date("")
		if i < len(s)-1 {
			nextTotal = s[i+1].Total
			nextDate = s[i+1].Date
		}
		if i > 0 && i < len(s)-1 && prevTotal == curr.Total && curr.Total == nextTotal && curr.Date != nextDate {
			continue
		}
		out = append(out, curr)
	}
	return out
}

// ValidateSeries checks the invariant a stored series must satisfy on load:
// strictly ascending dates. Violations surface as an IntegrityError for the
// owning key, not a fatal abort of the run.
func ValidateSeries(key schema.Key, s schema.Series) error {
	for i, p := range s {
		if _, err := schema.ParseDate(string(p.Date)); err != nil {
			return &schema.IntegrityError{Key: key, Reason: fmt.Sprintf("point %d: %v", i, err)}
		}
		if i > 0 && s[i-1].Date >= p.Date {
			return &schema.IntegrityError{
				Key:    key,
				Reason: fmt.Sprintf("dates not strictly ascending at point %d (%s >= %s)", i, s[i-1].Date, p.Date),
			}
		}
	}
	return nil
}
