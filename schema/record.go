package schema

import (
	"encoding/json"
	"fmt"
)

// BreakdownEntry is one child's contribution within a breakdown list.
type BreakdownEntry struct {
	Child string
	Total int64
}

// RecentEntry lists the children that had a genuine download increase on one
// date within the recent window, each with its total at that date.
type RecentEntry struct {
	Date     Date
	Children []BreakdownEntry
}

// LevelRecord is the persisted artifact for one hierarchy node: its own
// deduplicated series plus, for non-leaf nodes, the bounded current and
// recent breakdowns of its children. A record is read at the start of a run,
// mutated by folding in the new as-of-date total, and rewritten; it is never
// deleted.
type LevelRecord struct {
	Key     Key
	Series  Series
	Current []BreakdownEntry
	Recent  []RecentEntry
}

// Persisted field names. Breakdown fields are derived from the topology
// position of the record's children, e.g. downloads_per_version.
const (
	fieldSeries     = "downloads_per_date"
	fieldRecent     = "recent_downloads"
	breakdownPrefix = "downloads_per_"
	fieldDate       = "date"
	fieldTotal      = "total"
)

// EncodeRecord serializes a record to its persisted JSON shape. Field names
// for breakdowns depend on the topology position of the record's children,
// so the document is assembled by hand rather than through struct tags.
// json.Marshal sorts map keys, which keeps the encoding byte-stable.
func EncodeRecord(topo Topology, rec *LevelRecord) ([]byte, error) {
	doc := make(map[string]any, rec.Key.Depth()+3)
	for i := 0; i < rec.Key.Depth(); i++ {
		doc[topo[i]] = rec.Key.Part(i)
	}

	series := make([]map[string]any, 0, len(rec.Series))
	for _, p := range rec.Series {
		series = append(series, map[string]any{fieldDate: string(p.Date), fieldTotal: p.Total})
	}
	doc[fieldSeries] = series

	if !rec.Key.IsLeaf() {
		child := topo.ChildLevel(rec.Key.Depth())
		doc[breakdownPrefix+child] = encodeBreakdown(child, rec.Current)

		recent := make([]map[string]any, 0, len(rec.Recent))
		for _, re := range rec.Recent {
			recent = append(recent, map[string]any{
				fieldDate:               string(re.Date),
				breakdownPrefix + child: encodeBreakdown(child, re.Children),
			})
		}
		doc[fieldRecent] = recent
	}

	return json.Marshal(doc)
}

func encodeBreakdown(child string, entries []BreakdownEntry) []map[string]any {
	out := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		out = append(out, map[string]any{child: e.Child, fieldTotal: e.Total})
	}
	return out
}

// DecodeRecord parses a persisted document back into a LevelRecord for the
// given key. Unknown fields are ignored so older records stay readable.
func DecodeRecord(topo Topology, key Key, data []byte) (*LevelRecord, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("record for %s: %w", key, err)
	}

	rec := &LevelRecord{Key: key}

	if raw, ok := doc[fieldSeries]; ok {
		var points []struct {
			Date  string `json:"date"`
			Total int64  `json:"total"`
		}
		if err := json.Unmarshal(raw, &points); err != nil {
			return nil, fmt.Errorf("record for %s: %s: %w", key, fieldSeries, err)
		}
		rec.Series = make(Series, 0, len(points))
		for _, p := range points {
			d, err := ParseDate(p.Date)
			if err != nil {
				return nil, fmt.Errorf("record for %s: %w", key, err)
			}
			rec.Series = append(rec.Series, Point{Date: d, Total: p.Total})
		}
	}

	if key.IsLeaf() {
		return rec, nil
	}
	child := topo.ChildLevel(key.Depth())

	if raw, ok := doc[breakdownPrefix+child]; ok {
		current, err := decodeBreakdown(child, raw)
		if err != nil {
			return nil, fmt.Errorf("record for %s: %w", key, err)
		}
		rec.Current = current
	}

	if raw, ok := doc[fieldRecent]; ok {
		var entries []map[string]json.RawMessage
		if err := json.Unmarshal(raw, &entries); err != nil {
			return nil, fmt.Errorf("record for %s: %s: %w", key, fieldRecent, err)
		}
		rec.Recent = make([]RecentEntry, 0, len(entries))
		for _, entry := range entries {
			var re RecentEntry
			var dateStr string
			if err := json.Unmarshal(entry[fieldDate], &dateStr); err != nil {
				return nil, fmt.Errorf("record for %s: %s: %w", key, fieldRecent, err)
			}
			d, err := ParseDate(dateStr)
			if err != nil {
				return nil, fmt.Errorf("record for %s: %w", key, err)
			}
			re.Date = d
			if raw, ok := entry[breakdownPrefix+child]; ok {
				re.Children, err = decodeBreakdown(child, raw)
				if err != nil {
					return nil, fmt.Errorf("record for %s: %w", key, err)
				}
			}
			rec.Recent = append(rec.Recent, re)
		}
	}

	return rec, nil
}

func decodeBreakdown(child string, raw json.RawMessage) ([]BreakdownEntry, error) {
	var items []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	entries := make([]BreakdownEntry, 0, len(items))
	for _, item := range items {
		var e BreakdownEntry
		nameRaw, ok := item[child]
		if !ok {
			return nil, fmt.Errorf("breakdown entry missing %q field", child)
		}
		if err := json.Unmarshal(nameRaw, &e.Child); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(item[fieldTotal], &e.Total); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}
