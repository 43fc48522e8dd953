package lossylink

//
// Loss and delay sampling
//

import (
	"math"
	"math/rand"
	"time"
)

// sampler draws the random outcomes governing one direction of a
// link: whether to lose an arriving item and how long to delay it.
// Each [Conn] owns its sampler and uses it only from its Read engine,
// so there is no locking around the underlying generator. Seeding the
// sampler explicitly makes the whole sequence of outcomes replayable.
type sampler struct {
	rng *rand.Rand
}

// newSampler creates a [sampler] using the given seed.
func newSampler(seed int64) *sampler {
	return &sampler{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// shouldLose draws whether to drop an item given the loss rate.
func (s *sampler) shouldLose(lossRate float64) bool {
	return s.rng.Float64() < lossRate
}

// sampleDelay draws a delivery delay as the absolute value of a sample
// from Normal(average, stddev). Folding the negative tail keeps the
// delay non-negative and matches the distribution the statistical
// baselines were collected with (see [Config.DelayStddev]).
func (s *sampler) sampleDelay(average, stddev time.Duration) time.Duration {
	seconds := s.rng.NormFloat64()*stddev.Seconds() + average.Seconds()
	return time.Duration(math.Abs(seconds) * float64(time.Second))
}
