package lossylink

import (
	"testing"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/ooni/lossylink/internal/runtimex"
)

func TestSamplerShouldLoseConvergence(t *testing.T) {
	if testing.Short() {
		t.Skip("skip test in short mode")
	}
	const (
		trials   = 100000
		lossRate = 0.3
	)
	s := newSampler(42)
	lost := 0
	for i := 0; i < trials; i++ {
		if s.shouldLose(lossRate) {
			lost++
		}
	}
	fraction := float64(lost) / float64(trials)
	if fraction < lossRate-0.01 || fraction > lossRate+0.01 {
		t.Fatal("empirical loss fraction did not converge", fraction)
	}
}

func TestSamplerSampleDelay(t *testing.T) {
	t.Run("samples are never negative", func(t *testing.T) {
		s := newSampler(17)
		for i := 0; i < 10000; i++ {
			if d := s.sampleDelay(time.Millisecond, 10*time.Millisecond); d < 0 {
				t.Fatal("negative delay", d)
			}
		}
	})

	t.Run("zero stddev degenerates to the average", func(t *testing.T) {
		s := newSampler(17)
		for i := 0; i < 100; i++ {
			if d := s.sampleDelay(5*time.Millisecond, 0); d != 5*time.Millisecond {
				t.Fatal("unexpected delay", d)
			}
		}
	})

	t.Run("the folded mean sits between avg and avg plus stddev", func(t *testing.T) {
		if testing.Short() {
			t.Skip("skip test in short mode")
		}
		const (
			average = 5 * time.Millisecond
			stddev  = 3 * time.Millisecond
		)
		s := newSampler(42)
		var samples []float64
		for i := 0; i < 100000; i++ {
			samples = append(samples, s.sampleDelay(average, stddev).Seconds())
		}
		mean := runtimex.Try1(stats.Mean(samples))
		// folding the negative tail onto the positive side can only
		// raise the mean above the nominal average, and by no more
		// than one stddev
		if mean < average.Seconds() || mean > (average + stddev).Seconds() {
			t.Fatal("empirical mean out of range", mean)
		}
	})
}

func TestSamplerReproducibility(t *testing.T) {
	t.Run("equal seeds replay the same draws", func(t *testing.T) {
		first, second := newSampler(11), newSampler(11)
		for i := 0; i < 1000; i++ {
			if first.shouldLose(0.5) != second.shouldLose(0.5) {
				t.Fatal("draw mismatch at", i)
			}
			d1 := first.sampleDelay(time.Millisecond, time.Millisecond)
			d2 := second.sampleDelay(time.Millisecond, time.Millisecond)
			if d1 != d2 {
				t.Fatal("delay mismatch at", i)
			}
		}
	})

	t.Run("per-direction seeds draw independent sequences", func(t *testing.T) {
		config := &Config{Seed: 11}
		seedLeft, seedRight := config.seeds()
		left, right := newSampler(seedLeft), newSampler(seedRight)
		equal := 0
		const trials = 64
		for i := 0; i < trials; i++ {
			if left.rng.Float64() == right.rng.Float64() {
				equal++
			}
		}
		if equal == trials {
			t.Fatal("the two directions share the same draw sequence")
		}
	})
}
