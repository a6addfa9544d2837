package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestKey tests key construction and navigation.
func TestKey(t *testing.T) {
	t.Run("full depth key", func(t *testing.T) {
		k, err := NewKey("bioconda", "samtools", "1.21", "linux-64", "samtools-1.21-0.conda")
		require.NoError(t, err)
		assert.Equal(t, NumLevels, k.Depth())
		assert.True(t, k.IsLeaf())
		assert.Equal(t, "samtools-1.21-0.conda", k.Leaf())
		assert.Equal(t, "bioconda/samtools/1.21/linux-64/samtools-1.21-0.conda", k.String())
	})

	t.Run("parent chain up to the root", func(t *testing.T) {
		k := MustKey("bioconda", "samtools", "1.21")
		p, ok := k.Parent()
		require.True(t, ok)
		assert.Equal(t, MustKey("bioconda", "samtools"), p)

		root := MustKey("bioconda")
		_, ok = root.Parent()
		assert.False(t, ok)
	})

	t.Run("comparable as map key", func(t *testing.T) {
		m := map[Key]int64{MustKey("bioconda", "samtools"): 7}
		assert.Equal(t, int64(7), m[MustKey("bioconda", "samtools")])
	})

	t.Run("rejects empty and oversized keys", func(t *testing.T) {
		_, err := NewKey()
		assert.Error(t, err)
		_, err = NewKey("a", "b", "c", "d", "e", "f")
		assert.Error(t, err)
		_, err = NewKey("bioconda", "")
		assert.Error(t, err)
	})
}

// TestDate tests date parsing and arithmetic.
func TestDate(t *testing.T) {
	t.Run("parse valid and invalid dates", func(t *testing.T) {
		d, err := ParseDate("2026-03-05")
		require.NoError(t, err)
		assert.Equal(t, Date("2026-03-05"), d)

		_, err = ParseDate("2026-3-5")
		assert.Error(t, err)
		_, err = ParseDate("not-a-date")
		assert.Error(t, err)
	})

	t.Run("lexicographic ordering matches chronology", func(t *testing.T) {
		assert.True(t, Date("2026-03-04") < Date("2026-03-05"))
		assert.True(t, Date("2025-12-31") < Date("2026-01-01"))
	})

	t.Run("add days crosses month boundaries", func(t *testing.T) {
		assert.Equal(t, Date("2026-03-02"), Date("2026-02-28").AddDays(2))
		assert.Equal(t, Date("2026-02-23"), Date("2026-03-05").AddDays(-10))
	})
}

// TestSeriesTotalAt tests carried-forward lookups.
func TestSeriesTotalAt(t *testing.T) {
	s := Series{
		{Date: "2026-03-01", Total: 10},
		{Date: "2026-03-04", Total: 17},
	}

	t.Run("exact match", func(t *testing.T) {
		total, ok := s.TotalAt("2026-03-04")
		require.True(t, ok)
		assert.Equal(t, int64(17), total)
	})

	t.Run("carries forward between points", func(t *testing.T) {
		total, ok := s.TotalAt("2026-03-03")
		require.True(t, ok)
		assert.Equal(t, int64(10), total)
	})

	t.Run("carries forward past the last point", func(t *testing.T) {
		total, ok := s.TotalAt("2026-12-31")
		require.True(t, ok)
		assert.Equal(t, int64(17), total)
	})

	t.Run("before first point", func(t *testing.T) {
		_, ok := s.TotalAt("2026-02-28")
		assert.False(t, ok)
	})

	t.Run("empty series", func(t *testing.T) {
		_, ok := Series{}.TotalAt("2026-03-01")
		assert.False(t, ok)
	})
}
