// Defines the WorkloadUnit struct that models a single executable task in the
// simulation. Tracks total length, executed progress, and the exact instant
// the unit finished.

package sim

import (
	"fmt"

	"github.com/pkg/errors"
)

// WorkloadStatus represents the lifecycle state of a workload unit.
type WorkloadStatus string

const (
	WorkloadWaiting  WorkloadStatus = "waiting"
	WorkloadRunning  WorkloadStatus = "running"
	WorkloadFinished WorkloadStatus = "finished"
)

// WorkloadUnit models a single unit of executable work bound to a
// utilization model and a PE requirement. Length is expressed in
// instruction-equivalent units per PE, so a unit's execution time is
// Length divided by the per-PE MIPS rate it runs at.
//
// Progress is mutated exclusively by the owning CloudletScheduler; once the
// unit is finished its executed length equals Length exactly and never
// changes again.
type WorkloadUnit struct {
	ID          string
	Length      float64
	Pes         int
	Utilization UtilizationModel

	status     WorkloadStatus
	executed   float64
	finishTime float64
}

// NewWorkloadUnit validates parameters and creates a waiting workload unit.
func NewWorkloadUnit(id string, length float64, pes int, um UtilizationModel) (*WorkloadUnit, error) {
	if length <= 0 {
		return nil, errors.Errorf("workload %s: length must be positive, got %v", id, length)
	}
	if pes <= 0 {
		return nil, errors.Errorf("workload %s: pes must be positive, got %d", id, pes)
	}
	if um == nil {
		return nil, errors.Errorf("workload %s: utilization model must not be nil", id)
	}
	return &WorkloadUnit{
		ID:          id,
		Length:      length,
		Pes:         pes,
		Utilization: um,
		status:      WorkloadWaiting,
	}, nil
}

// Status returns the unit's lifecycle state.
func (u *WorkloadUnit) Status() WorkloadStatus { return u.status }

// ExecutedLength returns the instruction-equivalent work done so far.
func (u *WorkloadUnit) ExecutedLength() float64 { return u.executed }

// RemainingLength returns the work left before the unit finishes.
func (u *WorkloadUnit) RemainingLength() float64 { return u.Length - u.executed }

// Finished reports whether the unit has completed all of its work.
func (u *WorkloadUnit) Finished() bool { return u.status == WorkloadFinished }

// FinishTime returns the exact simulated instant the unit finished.
// Only meaningful once Finished() is true.
func (u *WorkloadUnit) FinishTime() float64 { return u.finishTime }

// addProgress advances executed length. No-op once finished.
func (u *WorkloadUnit) addProgress(delta float64) {
	if u.status == WorkloadFinished || delta <= 0 {
		return
	}
	u.status = WorkloadRunning
	u.executed += delta
	if u.executed > u.Length {
		u.executed = u.Length
	}
}

// markFinished finalizes the unit at the exact completion instant.
// Executed length is clamped to Length so completion is exact, never an
// overshoot.
func (u *WorkloadUnit) markFinished(time float64) {
	if u.status == WorkloadFinished {
		return
	}
	u.status = WorkloadFinished
	u.executed = u.Length
	u.finishTime = time
}

// markRunning transitions a waiting unit to running (space-shared admission).
func (u *WorkloadUnit) markRunning() {
	if u.status == WorkloadWaiting {
		u.status = WorkloadRunning
	}
}

func (u *WorkloadUnit) String() string {
	return fmt.Sprintf("WorkloadUnit: (ID: %s, Status: %s, Executed: %.1f/%.1f)",
		u.ID, u.status, u.executed, u.Length)
}
