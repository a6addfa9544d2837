package core

import (
	"sort"

	"github.com/huangsam/pkgpulse/schema"
)

// CurrentBreakdown ranks a node's children by their as-of-date totals and
// keeps the top k. Entries are sorted ascending by (total, child) so ties
// break deterministically, and the highest totals survive truncation.
func CurrentBreakdown(children map[string]schema.Series, asOf schema.Date, k int) []schema.BreakdownEntry {
	entries := make([]schema.BreakdownEntry, 0, len(children))
	for name, s := range children {
		t, ok := s.TotalAt(asOf)
		if !ok {
			continue
		}
		entries = append(entries, schema.BreakdownEntry{Child: name, Total: t})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Total != entries[j].Total {
			return entries[i].Total < entries[j].Total
		}
		return entries[i].Child < entries[j].Child
	})
	if len(entries) > k {
		entries = entries[len(entries)-k:]
	}
	return entries
}

// watermarkEvents walks one child's series forward within the recent window
// and records a point only when its total strictly exceeds the running
// maximum seen so far inside the window. Re-reports of unchanged totals and
// corrected-downward values produce no event.
func watermarkEvents(s schema.Series, windowStart, asOf schema.Date) []schema.Point {
	var events []schema.Point
	maxSeen := int64(-1)
	for _, p := range s {
		if p.Date <= windowStart || p.Date > asOf {
			continue
		}
		if p.Total > maxSeen {
			events = append(events, p)
			maxSeen = p.Total
		}
	}
	return events
}

// RecentBreakdown derives the per-date recent-activity breakdown for a node
// from its children's series, restricted to a trailing window of windowDays
// days ending at the as-of date.
//
// Children are ranked by recent delta: the as-of total minus the
// carried-forward total at the window-start boundary (zero when the child has
// no point at or before the boundary). The top k children by delta are kept,
// and for each date in the window on which any of them had a watermark event,
// an entry lists those children with their totals at that date. Dates with no
// qualifying events are omitted.
func RecentBreakdown(children map[string]schema.Series, asOf schema.Date, windowDays, k int) []schema.RecentEntry {
	windowStart := asOf.AddDays(-windowDays)

	type childActivity struct {
		name   string
		delta  int64
		events []schema.Point
	}

	ranked := make([]childActivity, 0, len(children))
	for name, s := range children {
		current, ok := s.TotalAt(asOf)
		if !ok {
			continue
		}
		baseline, _ := s.TotalAt(windowStart)
		ranked = append(ranked, childActivity{
			name:   name,
			delta:  current - baseline,
			events: watermarkEvents(s, windowStart, asOf),
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].delta != ranked[j].delta {
			return ranked[i].delta > ranked[j].delta
		}
		return ranked[i].name < ranked[j].name
	})
	if len(ranked) > k {
		ranked = ranked[:k]
	}

	byDate := make(map[schema.Date][]schema.BreakdownEntry)
	for _, c := range ranked {
		for _, ev := range c.events {
			byDate[ev.Date] = append(byDate[ev.Date], schema.BreakdownEntry{Child: c.name, Total: ev.Total})
		}
	}

	dates := make([]schema.Date, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i] < dates[j] })

	out := make([]schema.RecentEntry, 0, len(dates))
	for _, d := range dates {
		entries := byDate[d]
		sort.Slice(entries, func(i, j int) bool { return entries[i].Child < entries[j].Child })
		out = append(out, schema.RecentEntry{Date: d, Children: entries})
	}
	return out
}
