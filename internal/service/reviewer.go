package service

import (
	"math/rand"

	"github.com/haimng/Bestopia/internal/domain"
)

// ReviewerPools holds the seeded reviewer identities, partitioned by the
// persona they are written as. The pools are disjoint.
type ReviewerPools struct {
	Woman []int64
	Man   []int64
}

// ReviewerPicker assigns reviewer identities to synthesized product reviews.
type ReviewerPicker struct {
	pools ReviewerPools
	rng   *rand.Rand
}

// NewReviewerPicker creates a picker over the given pools. rng may be nil, in
// which case the picker falls back to the package-level random source.
func NewReviewerPicker(pools ReviewerPools, rng *rand.Rand) *ReviewerPicker {
	return &ReviewerPicker{pools: pools, rng: rng}
}

// Pick returns a reviewer id drawn uniformly from the pool matching the
// preference. GenderAll draws from the union of both pools.
func (p *ReviewerPicker) Pick(pref domain.GenderPreference) int64 {
	var pool []int64
	switch pref {
	case domain.GenderWoman:
		pool = p.pools.Woman
	case domain.GenderMan:
		pool = p.pools.Man
	default:
		pool = make([]int64, 0, len(p.pools.Woman)+len(p.pools.Man))
		pool = append(pool, p.pools.Woman...)
		pool = append(pool, p.pools.Man...)
	}
	if len(pool) == 0 {
		return 0
	}
	return pool[p.intn(len(pool))]
}

func (p *ReviewerPicker) intn(n int) int {
	if p.rng != nil {
		return p.rng.Intn(n)
	}
	return rand.Intn(n)
}
