package service

import (
	"math"
	"math/rand"
)

// ratingBase is the value the rating decay starts from.
const ratingBase = 5.0

// RatingSynthesizer derives per-position product ratings. The first two
// positions in a batch are pinned to 5.0; later positions get a small random
// jitter subtracted from a base that decays by a fixed 0.1 per position.
// There is no lower floor: a long enough batch keeps decaying. The decay is a
// content-realism heuristic, so the shape is kept exactly as is.
type RatingSynthesizer struct {
	rng *rand.Rand
}

// NewRatingSynthesizer creates a synthesizer. rng may be nil, in which case
// the package-level random source is used.
func NewRatingSynthesizer(rng *rand.Rand) *RatingSynthesizer {
	return &RatingSynthesizer{rng: rng}
}

// Rate returns the rating for the product at position and the base to carry
// into the next position.
func (s *RatingSynthesizer) Rate(position int, base float64) (rating, nextBase float64) {
	if position < 2 {
		return ratingBase, base
	}
	rating = math.Round((base-s.float64()*0.1)*10) / 10
	return rating, base - 0.1
}

func (s *RatingSynthesizer) float64() float64 {
	if s.rng != nil {
		return s.rng.Float64()
	}
	return rand.Float64()
}
