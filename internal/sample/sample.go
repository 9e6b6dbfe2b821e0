// Package sample picks a bounded random subset of subscription URLs.
package sample

import (
	"math/rand/v2"
)

// Pick returns at most limit URLs.
//
// When urls already fits within limit it is returned unchanged, order
// included. Otherwise exactly limit distinct elements are drawn uniformly
// without replacement; their order in the result is unspecified. urls is
// never modified. A nil rng uses the package-level random source.
func Pick(urls []string, limit int, rng *rand.Rand) []string {
	if len(urls) <= limit {
		return urls
	}
	if limit <= 0 {
		return []string{}
	}

	perm := permutation(len(urls), rng)
	picked := make([]string, limit)
	for i := range limit {
		picked[i] = urls[perm[i]]
	}
	return picked
}

// NewRand returns a deterministic source for a non-zero seed and nil
// otherwise, so that Pick falls back to the global source.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return nil
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) //nolint:gosec // Sampling is not security sensitive
}

func permutation(n int, rng *rand.Rand) []int {
	if rng == nil {
		return rand.Perm(n) //nolint:gosec // Sampling is not security sensitive
	}
	return rng.Perm(n)
}
