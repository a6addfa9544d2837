package schema

import "time"

// KeyError records a per-key failure during a run. Failed keys never abort
// sibling keys or other levels.
type KeyError struct {
	Key Key
	Err error
}

// LevelSummary reports one topology level's outcome for a run.
type LevelSummary struct {
	Level    string
	Updated  int
	Failed   int
	Duration time.Duration
	Errors   []KeyError
}

// RunSummary is the per-level outcome of one rollup run.
type RunSummary struct {
	AsOf     Date
	Levels   []LevelSummary
	Duration time.Duration
}

// TotalUpdated sums updated key counts across all levels.
func (r *RunSummary) TotalUpdated() int {
	n := 0
	for _, l := range r.Levels {
		n += l.Updated
	}
	return n
}

// TotalFailed sums failed key counts across all levels.
func (r *RunSummary) TotalFailed() int {
	n := 0
	for _, l := range r.Levels {
		n += l.Failed
	}
	return n
}
