package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWorkloadUnit_RejectsInvalidParameters(t *testing.T) {
	um := UtilizationFull{}
	cases := []struct {
		name   string
		length float64
		pes    int
		um     UtilizationModel
	}{
		{"zero length", 0, 1, um},
		{"negative length", -5, 1, um},
		{"zero pes", 100, 0, um},
		{"nil utilization model", 100, 1, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewWorkloadUnit("w", tc.length, tc.pes, tc.um)
			assert.Error(t, err)
		})
	}
}

func TestWorkloadUnit_MonotonicCompletion(t *testing.T) {
	// GIVEN a unit that has just finished
	u, err := NewWorkloadUnit("w", 1000, 1, UtilizationFull{})
	assert.NoError(t, err)
	u.addProgress(999)
	u.markFinished(3.25)

	// THEN executed length equals length exactly, with no overshoot
	assert.Equal(t, u.Length, u.ExecutedLength())
	assert.True(t, u.Finished())
	assert.Equal(t, 3.25, u.FinishTime())

	// WHEN further progress or finish calls arrive
	u.addProgress(500)
	u.markFinished(9.0)

	// THEN the unit is immutable
	assert.Equal(t, u.Length, u.ExecutedLength())
	assert.Equal(t, 3.25, u.FinishTime())
}

func TestWorkloadUnit_ProgressClampsAtLength(t *testing.T) {
	u, _ := NewWorkloadUnit("w", 100, 1, UtilizationFull{})
	u.addProgress(250)
	if got := u.ExecutedLength(); got != 100 {
		t.Errorf("executed length: got %v, want 100", got)
	}
}
