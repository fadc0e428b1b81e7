package generator

import "math/rand/v2"

// sampler draws k distinct items from a fixed pool with a partial
// Fisher-Yates shuffle. The scratch slice is reused between draws; any
// permutation of the pool is a valid starting point for the next shuffle.
type sampler struct {
	scratch []int
}

func newSampler(pool []int) *sampler {
	return &sampler{scratch: append([]int(nil), pool...)}
}

// take returns k distinct pool items, or the whole pool shuffled when k
// exceeds its size. The result is a fresh slice.
func (s *sampler) take(rng *rand.Rand, k int) []int {
	n := len(s.scratch)
	k = max(0, min(k, n))
	for i := 0; i < k; i++ {
		j := i + rng.IntN(n-i)
		s.scratch[i], s.scratch[j] = s.scratch[j], s.scratch[i]
	}
	return append([]int(nil), s.scratch[:k]...)
}
