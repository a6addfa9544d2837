package core

import (
	"sort"

	"github.com/huangsam/pkgpulse/schema"
)

// ReconstructParent derives a parent's per-date total series from its
// children's series by backward carry-forward reconstruction. Children update
// on their own independent dates; the parent total at any date is the sum of
// each child's carried-forward total at that date, with a child contributing
// zero before its first known point.
//
// The walk anchors at the as-of date, where every child consolidated this run
// has a point, and moves backward through the union of all child dates.
// Crossing below a child's point changes that child's carried-forward value
// from the point's total to the previous point's total (or zero below the
// first point), so each point contributes one signed adjustment to a running
// parent total. Children reporting on the same date collapse into a single
// combined adjustment and a single parent point. A point is emitted only at
// dates where the combined total actually changes, so the result already
// satisfies the series dedup invariant.
func ReconstructParent(children map[string]schema.Series, asOf schema.Date) schema.Series {
	type changeEvent struct {
		date  schema.Date
		delta int64
	}

	dateSet := make(map[schema.Date]struct{})
	var events []changeEvent
	running := int64(0)

	for _, s := range children {
		for i, p := range s {
			if p.Date > asOf {
				// Points after the as-of date are ignored; snapshot totals
				// are only asserted accurate up to that date.
				break
			}
			dateSet[p.Date] = struct{}{}
			below := int64(0)
			if i > 0 {
				below = s[i-1].Total
			}
			events = append(events, changeEvent{date: p.Date, delta: below - p.Total})
		}
		if t, ok := s.TotalAt(asOf); ok {
			running += t
		}
	}
	dateSet[asOf] = struct{}{}

	dates := make([]schema.Date, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i] > dates[j] })
	sort.SliceStable(events, func(i, j int) bool { return events[i].date > events[j].date })

	reversed := make(schema.Series, 0, len(dates))
	ei := 0
	for _, d := range dates {
		for ei < len(events) && events[ei].date > d {
			running += events[ei].delta
			ei++
		}
		// The total at dates just below d tells whether d is a change date.
		totalBelow := running
		for j := ei; j < len(events) && events[j].date == d; j++ {
			totalBelow += events[j].delta
		}
		if totalBelow == running {
			continue
		}
		reversed = append(reversed, schema.Point{Date: d, Total: running})
	}

	out := make(schema.Series, len(reversed))
	for i, p := range reversed {
		out[len(reversed)-1-i] = p
	}
	return out
}
