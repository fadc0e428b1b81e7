package generator

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSamplerDrawsDistinctItems(t *testing.T) {
	pool := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	s := newSampler(pool)
	rng := rand.New(rand.NewPCG(1, 1))

	for i := 0; i < 1000; i++ {
		k := 1 + i%len(pool)
		got := s.take(rng, k)
		assert.Len(t, got, k)

		seen := map[int]bool{}
		for _, v := range got {
			assert.False(t, seen[v], "item %d drawn twice in %v", v, got)
			assert.Contains(t, pool, v)
			seen[v] = true
		}
	}
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, pool, "pool must not be modified")
}

func TestSamplerClampsToPool(t *testing.T) {
	s := newSampler([]int{4, 9})
	rng := rand.New(rand.NewPCG(2, 2))

	assert.ElementsMatch(t, []int{4, 9}, s.take(rng, 3))
	assert.Empty(t, s.take(rng, 0))
	assert.Empty(t, s.take(rng, -1))
}

func TestSamplerCoversPoolUniformly(t *testing.T) {
	pool := []int{1, 2, 3, 4, 5}
	s := newSampler(pool)
	rng := rand.New(rand.NewPCG(3, 3))

	const draws = 50000
	hits := map[int]int{}
	for i := 0; i < draws; i++ {
		for _, v := range s.take(rng, 2) {
			hits[v]++
		}
	}
	// Each item is expected in 2/5 of the draws.
	want := draws * 2 / len(pool)
	for _, v := range pool {
		assert.InDelta(t, want, hits[v], float64(want)*0.05, "item %d", v)
	}
}

func TestSamplerResultIsCopy(t *testing.T) {
	s := newSampler([]int{1, 2, 3})
	rng := rand.New(rand.NewPCG(4, 4))

	first := s.take(rng, 3)
	snapshot := append([]int(nil), first...)
	s.take(rng, 3)
	assert.Equal(t, snapshot, first)
}
