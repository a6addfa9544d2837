package core

import (
	"testing"

	"github.com/huangsam/pkgpulse/schema"
	"github.com/stretchr/testify/assert"
)

// TestConsolidate tests merging a daily observation into a series.
func TestConsolidate(t *testing.T) {
	t.Run("insert into empty series", func(t *testing.T) {
		got := Consolidate(nil, "2026-03-01", 10)
		assert.Equal(t, schema.Series{{Date: "2026-03-01", Total: 10}}, got)
	})

	t.Run("append newer point", func(t *testing.T) {
		s := schema.Series{{Date: "2026-03-01", Total: 10}}
		got := Consolidate(s, "2026-03-02", 12)
		assert.Equal(t, schema.Series{
			{Date: "2026-03-01", Total: 10},
			{Date: "2026-03-02", Total: 12},
		}, got)
	})

	t.Run("insert backdated point in order", func(t *testing.T) {
		s := schema.Series{
			{Date: "2026-03-01", Total: 10},
			{Date: "2026-03-05", Total: 20},
		}
		got := Consolidate(s, "2026-03-03", 15)
		assert.Equal(t, schema.Series{
			{Date: "2026-03-01", Total: 10},
			{Date: "2026-03-03", Total: 15},
			{Date: "2026-03-05", Total: 20},
		}, got)
	})

	t.Run("replace total on same date", func(t *testing.T) {
		s := schema.Series{
			{Date: "2026-03-01", Total: 10},
			{Date: "2026-03-02", Total: 12},
		}
		got := Consolidate(s, "2026-03-02", 14)
		assert.Equal(t, schema.Series{
			{Date: "2026-03-01", Total: 10},
			{Date: "2026-03-02", Total: 14},
		}, got)
	})

	t.Run("negative total clamped to zero", func(t *testing.T) {
		got := Consolidate(nil, "2026-03-01", -5)
		assert.Equal(t, schema.Series{{Date: "2026-03-01", Total: 0}}, got)
	})

	t.Run("interior repeat of unchanged total is dropped", func(t *testing.T) {
		s := schema.Series{
			{Date: "2026-03-01", Total: 10},
			{Date: "2026-03-02", Total: 10},
		}
		got := Consolidate(s, "2026-03-03", 10)
		assert.Equal(t, schema.Series{
			{Date: "2026-03-01", Total: 10},
			{Date: "2026-03-03", Total: 10},
		}, got)
	})

	t.Run("flat run keeps the point adjacent to the change", func(t *testing.T) {
		s := schema.Series{
			{Date: "2026-03-01", Total: 5},
			{Date: "2026-03-02", Total: 5},
			{Date: "2026-03-03", Total: 5},
		}
		got := Consolidate(s, "2026-03-04", 9)
		assert.Equal(t, schema.Series{
			{Date: "2026-03-01", Total: 5},
			{Date: "2026-03-03", Total: 5},
			{Date: "2026-03-04", Total: 9},
		}, got)
	})

	t.Run("endpoints always survive dedup", func(t *testing.T) {
		s := schema.Series{{Date: "2026-03-01", Total: 10}}
		got := Consolidate(s, "2026-03-02", 10)
		assert.Equal(t, schema.Series{
			{Date: "2026-03-01", Total: 10},
			{Date: "2026-03-02", Total: 10},
		}, got)
	})

	t.Run("idempotent on reapply", func(t *testing.T) {
		s := schema.Series{
			{Date: "2026-03-01", Total: 10},
			{Date: "2026-03-04", Total: 17},
		}
		once := Consolidate(s, "2026-03-05", 22)
		twice := Consolidate(once, "2026-03-05", 22)
		assert.Equal(t, once, twice)
	})
}

// TestValidateSeries tests the stored-series invariant check.
func TestValidateSeries(t *testing.T) {
	key := schema.MustKey("bioconda", "samtools")

	t.Run("valid ascending series", func(t *testing.T) {
		s := schema.Series{
			{Date: "2026-03-01", Total: 10},
			{Date: "2026-03-02", Total: 12},
		}
		assert.NoError(t, ValidateSeries(key, s))
	})

	t.Run("empty series is valid", func(t *testing.T) {
		assert.NoError(t, ValidateSeries(key, nil))
	})

	t.Run("duplicate dates rejected", func(t *testing.T) {
		s := schema.Series{
			{Date: "2026-03-01", Total: 10},
			{Date: "2026-03-01", Total: 12},
		}
		err := ValidateSeries(key, s)
		assert.Error(t, err)
		var ierr *schema.IntegrityError
		assert.ErrorAs(t, err, &ierr)
		assert.Equal(t, key, ierr.Key)
	})

	t.Run("out of order dates rejected", func(t *testing.T) {
		s := schema.Series{
			{Date: "2026-03-02", Total: 10},
			{Date: "2026-03-01", Total: 12},
		}
		assert.Error(t, ValidateSeries(key, s))
	})

	t.Run("malformed date rejected", func(t *testing.T) {
		s := schema.Series{{Date: "03/01/2026", Total: 10}}
		assert.Error(t, ValidateSeries(key, s))
	})
}
