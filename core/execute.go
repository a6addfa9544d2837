package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/pkgpulse/internal/contract"
	"github.com/huangsam/pkgpulse/internal/outwriter"
	"github.com/huangsam/pkgpulse/schema"
)

// ExecuteRollup fetches a snapshot from the source, folds it into every level
// of the store, and prints the run summary. It serves as the main entry point
// for the 'rollup' mode.
func ExecuteRollup(ctx context.Context, cfg *contract.Config, src contract.CountSource, store contract.RecordStore) error {
	start := time.Now()

	fmt.Printf("Fetching download counts for %s...\n", cfg.AsOf)
	snapshot, err := src.Fetch(ctx, cfg.AsOf)
	if err != nil {
		return fmt.Errorf("failed to fetch download counts: %w", err)
	}
	if len(snapshot) == 0 {
		return fmt.Errorf("source returned no download counts")
	}
	fmt.Printf("Fetched %d file counts. Rolling up...\n", len(snapshot))

	engine := NewEngine(store, EngineConfig{
		Topology:         cfg.Topology,
		BreakdownLimit:   cfg.BreakdownLimit,
		RecentWindowDays: cfg.RecentWindowDays,
		Workers:          cfg.Workers,
	})
	summary, err := engine.Run(ctx, snapshot, cfg.AsOf)
	if err != nil {
		return err
	}

	duration := time.Since(start)
	return outwriter.NewOutWriter().WriteRunSummary(summary, cfg, duration)
}

// ExecuteTopChildren loads one node's record and prints its ranked child
// breakdown. It serves as the main entry point for the 'top' mode.
func ExecuteTopChildren(cfg *contract.Config, store contract.RecordStore, parts []string) error {
	rec, err := loadRecordByParts(store, parts)
	if err != nil {
		return err
	}
	if rec.Key.IsLeaf() {
		return fmt.Errorf("%s is a file key and has no children; use the history command", rec.Key)
	}
	return outwriter.NewOutWriter().WriteTopChildren(rec, cfg)
}

// ExecuteSeries loads one node's record and prints its download history. It
// serves as the main entry point for the 'history' mode.
func ExecuteSeries(cfg *contract.Config, store contract.RecordStore, parts []string) error {
	rec, err := loadRecordByParts(store, parts)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteSeries(rec, cfg)
}

// loadRecordByParts resolves positional key components to a stored record.
func loadRecordByParts(store contract.RecordStore, parts []string) (*schema.LevelRecord, error) {
	key, err := schema.NewKey(parts...)
	if err != nil {
		return nil, fmt.Errorf("invalid key: %w", err)
	}
	rec, err := store.Load(key)
	if err != nil {
		return nil, fmt.Errorf("failed to load record for %s: %w", key, err)
	}
	if rec == nil {
		return nil, fmt.Errorf("no record found for %s; run a rollup first", key)
	}
	return rec, nil
}
