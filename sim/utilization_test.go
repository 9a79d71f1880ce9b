package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUtilizationFull_AlwaysOne(t *testing.T) {
	um := UtilizationFull{}
	for _, tm := range []float64{0, 0.5, 10, 1e6} {
		assert.Equal(t, 1.0, um.Utilization(tm))
	}
}

func TestUtilizationFixed_ClampsToUnitRange(t *testing.T) {
	assert.Equal(t, 0.4, UtilizationFixed{Fraction: 0.4}.Utilization(3))
	assert.Equal(t, 1.0, UtilizationFixed{Fraction: 1.7}.Utilization(3))
	assert.Equal(t, 0.0, UtilizationFixed{Fraction: -0.2}.Utilization(3))
}

func TestUtilizationStep_SwitchesAtThreshold(t *testing.T) {
	um := UtilizationStep{SwitchTime: 5, Before: 0.2, After: 0.9}
	assert.Equal(t, 0.2, um.Utilization(0))
	assert.Equal(t, 0.2, um.Utilization(4.999))
	assert.Equal(t, 0.9, um.Utilization(5))
	assert.Equal(t, 0.9, um.Utilization(100))
}

func TestUtilizationRamp_GrowsAndSaturates(t *testing.T) {
	um := UtilizationRamp{Slope: 0.1}
	assert.Equal(t, 0.0, um.Utilization(0))
	assert.InDelta(t, 0.5, um.Utilization(5), 1e-12)
	assert.Equal(t, 1.0, um.Utilization(50))
}

func TestUtilizationStochastic_IdempotentPerTime(t *testing.T) {
	// GIVEN a seeded stochastic model
	um := NewUtilizationStochastic(42)

	// WHEN the same time is queried twice
	first := um.Utilization(3.5)
	second := um.Utilization(3.5)

	// THEN the draw is cached and the value is in range
	assert.Equal(t, first, second)
	if first < 0 || first > 1 {
		t.Errorf("stochastic utilization out of range: %v", first)
	}
}

func TestUtilizationStochastic_SameSeedSameSequence(t *testing.T) {
	a := NewUtilizationStochastic(7)
	b := NewUtilizationStochastic(7)
	for _, tm := range []float64{0, 1, 2, 3} {
		assert.Equal(t, a.Utilization(tm), b.Utilization(tm))
	}
}

func TestUtilizationTrace_LooksUpSamples(t *testing.T) {
	um := UtilizationTrace{Samples: []float64{0.1, 0.5, 1.0}, SampleInterval: 2}
	assert.Equal(t, 0.1, um.Utilization(0))
	assert.Equal(t, 0.1, um.Utilization(1.9))
	assert.Equal(t, 0.5, um.Utilization(2))
	assert.Equal(t, 1.0, um.Utilization(4))
	// times past the last sample hold its value
	assert.Equal(t, 1.0, um.Utilization(1000))
}
