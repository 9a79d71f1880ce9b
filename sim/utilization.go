// Utilization models: pure functions from simulated time to fractional CPU
// demand in [0,1]. Models are shared by reference across workload units that
// use the same demand profile.

package sim

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// UtilizationModel maps simulated time to a fractional CPU demand in [0,1].
// Implementations must be idempotent: calling Utilization twice for the same
// time returns the same value.
type UtilizationModel interface {
	Utilization(time float64) float64
}

// UtilizationFull models a workload that demands 100% of its share at all
// times.
type UtilizationFull struct{}

func (UtilizationFull) Utilization(_ float64) float64 { return 1.0 }

// UtilizationFixed models a constant fractional demand.
type UtilizationFixed struct {
	Fraction float64
}

func (u UtilizationFixed) Utilization(_ float64) float64 {
	return clampFraction(u.Fraction)
}

// UtilizationStep models a demand that switches from Before to After once
// the clock reaches SwitchTime.
type UtilizationStep struct {
	SwitchTime float64
	Before     float64
	After      float64
}

func (u UtilizationStep) Utilization(time float64) float64 {
	if time < u.SwitchTime {
		return clampFraction(u.Before)
	}
	return clampFraction(u.After)
}

// UtilizationRamp models a demand that grows linearly from zero at rate
// Slope per time unit, saturating at 1.
type UtilizationRamp struct {
	Slope float64
}

func (u UtilizationRamp) Utilization(time float64) float64 {
	return clampFraction(u.Slope * time)
}

// UtilizationStochastic draws a uniform random demand per distinct time.
// Draws are cached so repeated calls for the same time return the same value,
// and the generator is explicitly seeded so identical scenarios produce
// identical demand sequences.
type UtilizationStochastic struct {
	dist  distuv.Uniform
	cache map[float64]float64
}

// NewUtilizationStochastic creates a stochastic model seeded with seed.
func NewUtilizationStochastic(seed int64) *UtilizationStochastic {
	return &UtilizationStochastic{
		dist: distuv.Uniform{
			Min: 0,
			Max: 1,
			Src: rand.NewSource(uint64(seed)),
		},
		cache: make(map[float64]float64),
	}
}

func (u *UtilizationStochastic) Utilization(time float64) float64 {
	if v, ok := u.cache[time]; ok {
		return v
	}
	v := u.dist.Rand()
	u.cache[time] = v
	return v
}

// UtilizationTrace replays a recorded demand profile sampled every
// SampleInterval time units. Times past the last sample hold its value.
type UtilizationTrace struct {
	Samples        []float64
	SampleInterval float64
}

func (u UtilizationTrace) Utilization(time float64) float64 {
	if len(u.Samples) == 0 {
		return 0
	}
	idx := 0
	if u.SampleInterval > 0 && time > 0 {
		idx = int(math.Floor(time / u.SampleInterval))
	}
	if idx >= len(u.Samples) {
		idx = len(u.Samples) - 1
	}
	return clampFraction(u.Samples[idx])
}

func clampFraction(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
