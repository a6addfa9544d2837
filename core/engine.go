package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/huangsam/pkgpulse/internal/contract"
	"github.com/huangsam/pkgpulse/schema"
)

// EngineConfig holds the knobs of a rollup run. Values, not behavior, vary
// per deployment.
type EngineConfig struct {
	Topology         schema.Topology
	BreakdownLimit   int
	RecentWindowDays int
	Workers          int
}

// Engine folds one daily snapshot of leaf totals into every ancestor level.
// Distinct keys at the same level are independent and processed by a worker
// pool; levels are strictly ordered bottom-up because parent reconstruction
// reads the full, already-merged child series. The engine performs no
// locking: serializing overlapping runs for the same key is the caller's
// responsibility.
type Engine struct {
	store contract.RecordStore
	cfg   EngineConfig
}

// NewEngine creates a rollup engine over the given record store.
func NewEngine(store contract.RecordStore, cfg EngineConfig) *Engine {
	if cfg.BreakdownLimit <= 0 {
		cfg.BreakdownLimit = contract.DefaultBreakdownLimit
	}
	if cfg.RecentWindowDays <= 0 {
		cfg.RecentWindowDays = contract.DefaultRecentWindowDays
	}
	if cfg.Workers <= 0 {
		cfg.Workers = contract.DefaultWorkers
	}
	return &Engine{store: store, cfg: cfg}
}

// keyResult carries one key's outcome through the worker pool. A failed key
// may still produce a series; whatever data the run computed keeps flowing
// upward so ancestor totals stay anchored to the snapshot.
type keyResult struct {
	key    schema.Key
	series schema.Series
	err    error
}

// Run executes a full rollup: leaf consolidation for every key present in
// the snapshot, then level-by-level reconstruction up to the root. Each
// level's records are persisted before the next level starts, so an
// interrupted run reproduces identical output when repeated with the same
// snapshot and as-of date.
func (e *Engine) Run(ctx context.Context, snapshot schema.Snapshot, asOf schema.Date) (*schema.RunSummary, error) {
	if asOf.IsZero() {
		return nil, fmt.Errorf("as-of date is required")
	}
	for k := range snapshot {
		if !k.IsLeaf() {
			return nil, fmt.Errorf("snapshot key %s is not a leaf key", k)
		}
	}

	start := time.Now()
	summary := &schema.RunSummary{AsOf: asOf}

	childSeries := e.consolidateLeaves(ctx, snapshot, asOf, summary)

	// Parents at depth NumLevels-1 down to depth 1 (the root level, which
	// has no further parent).
	for depth := schema.NumLevels - 1; depth >= 1; depth-- {
		childSeries = e.rollupLevel(ctx, depth, childSeries, asOf, summary)
	}

	summary.Duration = time.Since(start)
	return summary, ctx.Err()
}

// consolidateLeaves folds the snapshot into every present leaf key's stored
// history. Keys absent from the snapshot are left untouched: no new point,
// prior history preserved.
func (e *Engine) consolidateLeaves(ctx context.Context, snapshot schema.Snapshot, asOf schema.Date, summary *schema.RunSummary) map[schema.Key]schema.Series {
	levelStart := time.Now()
	results := e.forEachKey(ctx, keysOf(snapshot), func(k schema.Key) keyResult {
		stored, err := e.loadSeries(k)
		if err != nil {
			// The stored history is unusable but the snapshot observation is
			// not; the key fails while its fresh total still rolls up.
			stored = nil
		}
		series := Consolidate(stored, asOf, snapshot[k])
		if err == nil {
			err = e.store.Save(k, &schema.LevelRecord{Key: k, Series: series})
		}
		return keyResult{key: k, series: series, err: err}
	})
	return e.collectLevel(results, e.cfg.Topology[schema.NumLevels-1], time.Since(levelStart), summary)
}

// rollupLevel reconstructs every parent of the given child series, persists
// the parents' records with breakdowns, and returns the reconstructed parent
// series as the next level's children input.
func (e *Engine) rollupLevel(ctx context.Context, depth int, childSeries map[schema.Key]schema.Series, asOf schema.Date, summary *schema.RunSummary) map[schema.Key]schema.Series {
	levelStart := time.Now()
	groups := make(map[schema.Key]map[string]schema.Series)
	for k, s := range childSeries {
		parent, ok := k.Parent()
		if !ok {
			continue
		}
		if groups[parent] == nil {
			groups[parent] = make(map[string]schema.Series)
		}
		groups[parent][k.Leaf()] = s
	}

	parents := make([]schema.Key, 0, len(groups))
	for p := range groups {
		parents = append(parents, p)
	}

	results := e.forEachKey(ctx, parents, func(parent schema.Key) keyResult {
		children := groups[parent]
		reconstructed := ReconstructParent(children, asOf)
		anchor, _ := reconstructed.TotalAt(asOf)

		stored, err := e.loadSeries(parent)
		if err == nil {
			rec := &schema.LevelRecord{
				Key:     parent,
				Series:  Consolidate(stored, asOf, anchor),
				Current: CurrentBreakdown(children, asOf, e.cfg.BreakdownLimit),
				Recent:  RecentBreakdown(children, asOf, e.cfg.RecentWindowDays, e.cfg.BreakdownLimit),
			}
			err = e.store.Save(parent, rec)
		}
		return keyResult{key: parent, series: reconstructed, err: err}
	})
	return e.collectLevel(results, e.cfg.Topology[depth-1], time.Since(levelStart), summary)
}

// loadSeries reads a key's stored series, treating a missing record as an
// empty series and checking the series invariant on the way in.
func (e *Engine) loadSeries(key schema.Key) (schema.Series, error) {
	rec, err := e.store.Load(key)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}
	if err := ValidateSeries(key, rec.Series); err != nil {
		return nil, err
	}
	return rec.Series, nil
}

// forEachKey fans the work function out over a bounded worker pool. Keys at
// one level share no mutable state, so no ordering holds between them.
func (e *Engine) forEachKey(ctx context.Context, keys []schema.Key, work func(schema.Key) keyResult) []keyResult {
	keyCh := make(chan schema.Key, len(keys))
	resultCh := make(chan keyResult, len(keys))
	var wg sync.WaitGroup

	for range e.cfg.Workers {
		wg.Go(func() {
			for k := range keyCh {
				if ctx.Err() != nil {
					resultCh <- keyResult{key: k, err: ctx.Err()}
					continue
				}
				resultCh <- work(k)
			}
		})
	}

	for _, k := range keys {
		keyCh <- k
	}
	close(keyCh)
	wg.Wait()
	close(resultCh)

	results := make([]keyResult, 0, len(keys))
	for r := range resultCh {
		results = append(results, r)
	}
	return results
}

// collectLevel folds one level's results into the run summary and returns
// the series map that feeds the next level up.
func (e *Engine) collectLevel(results []keyResult, levelName string, elapsed time.Duration, summary *schema.RunSummary) map[schema.Key]schema.Series {
	level := schema.LevelSummary{Level: levelName, Duration: elapsed}
	out := make(map[schema.Key]schema.Series, len(results))
	for _, r := range results {
		if r.err != nil {
			level.Failed++
			level.Errors = append(level.Errors, schema.KeyError{Key: r.key, Err: r.err})
		} else {
			level.Updated++
		}
		if r.series != nil {
			out[r.key] = r.series
		}
	}
	summary.Levels = append(summary.Levels, level)
	return out
}

func keysOf(snapshot schema.Snapshot) []schema.Key {
	keys := make([]schema.Key, 0, len(snapshot))
	for k := range snapshot {
		keys = append(keys, k)
	}
	return keys
}
