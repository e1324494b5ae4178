package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/newstag/pkg/domain"
)

func TestSelector_Select(t *testing.T) {
	mapping := domain.NewsMapping{1: "a", 2: "b", 3: "c"}

	t.Run("picks by sorted key position", func(t *testing.T) {
		for i, want := range []int64{1, 2, 3} {
			sel := &Selector{intn: func(int) int { return i }}
			id, news, err := sel.Select(mapping)
			require.NoError(t, err)
			assert.Equal(t, want, id)
			assert.Equal(t, mapping[want], news)
		}
	})

	t.Run("result is a member of the mapping", func(t *testing.T) {
		sel := NewSelector()
		for range 100 {
			id, news, err := sel.Select(mapping)
			require.NoError(t, err)
			assert.Contains(t, mapping, id)
			assert.Equal(t, mapping[id], news)
		}
	})

	t.Run("single entry", func(t *testing.T) {
		id, news, err := NewSelector().Select(domain.NewsMapping{7: "only"})
		require.NoError(t, err)
		assert.Equal(t, int64(7), id)
		assert.Equal(t, "only", news)
	})

	t.Run("empty mapping", func(t *testing.T) {
		_, _, err := NewSelector().Select(domain.NewsMapping{})
		assert.ErrorIs(t, err, ErrEmptyFeed)
		_, _, err = NewSelector().Select(nil)
		assert.ErrorIs(t, err, ErrEmptyFeed)
	})
}

func TestSelector_Uniform(t *testing.T) {
	const keys, draws = 5, 50000
	mapping := domain.NewsMapping{}
	for i := int64(1); i <= keys; i++ {
		mapping[i] = "news"
	}

	counts := map[int64]int{}
	sel := NewSelector()
	for range draws {
		id, _, err := sel.Select(mapping)
		require.NoError(t, err)
		counts[id]++
	}

	expected := float64(draws) / keys
	chi2 := 0.0
	for i := int64(1); i <= keys; i++ {
		d := float64(counts[i]) - expected
		chi2 += d * d / expected
	}
	// 4 degrees of freedom, critical value for p=0.0001 is about 23.5
	assert.Less(t, chi2, 23.5, "counts %v", counts)
}
