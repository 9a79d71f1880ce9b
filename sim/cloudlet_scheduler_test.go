package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func mustUnit(t *testing.T, id string, length float64, pes int) *WorkloadUnit {
	t.Helper()
	u, err := NewWorkloadUnit(id, length, pes, UtilizationFull{})
	if err != nil {
		t.Fatalf("NewWorkloadUnit(%s): %v", id, err)
	}
	return u
}

func TestNewCloudletScheduler_KnownNames(t *testing.T) {
	assert.IsType(t, &CloudletSchedulerTimeShared{}, NewCloudletScheduler(""))
	assert.IsType(t, &CloudletSchedulerTimeShared{}, NewCloudletScheduler("time-shared"))
	assert.IsType(t, &CloudletSchedulerSpaceShared{}, NewCloudletScheduler("space-shared"))
}

func TestNewCloudletScheduler_UnknownNamePanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("NewCloudletScheduler(bogus) did not panic")
		}
	}()
	NewCloudletScheduler("bogus")
}

func TestCloudletSchedulerTimeShared_SingleUnitRunsAtPerPeRate(t *testing.T) {
	// GIVEN a 2-PE VM allocation of 2000 MIPS and one 2-PE unit
	cs := &CloudletSchedulerTimeShared{}
	cs.bindVmPes(2)
	u := mustUnit(t, "w", 10000, 2)
	cs.Submit(u)

	// WHEN two time units elapse
	finished := cs.UpdateProcessing(0, 2, 2000)

	// THEN the unit advances at the per-PE rate of 1000 MIPS
	assert.Empty(t, finished)
	assert.InDelta(t, 2000, u.ExecutedLength(), 1e-9)
}

func TestCloudletSchedulerTimeShared_OversubscriptionShrinksShares(t *testing.T) {
	// GIVEN three single-PE units on a 2-PE VM with 2000 MIPS allocated
	cs := &CloudletSchedulerTimeShared{}
	cs.bindVmPes(2)
	units := []*WorkloadUnit{
		mustUnit(t, "a", 10000, 1),
		mustUnit(t, "b", 10000, 1),
		mustUnit(t, "c", 10000, 1),
	}
	for _, u := range units {
		cs.Submit(u)
	}

	// WHEN one time unit elapses
	cs.UpdateProcessing(0, 1, 2000)

	// THEN capacity is divided across the 3 demanded PEs
	for _, u := range units {
		assert.InDelta(t, 2000.0/3.0, u.ExecutedLength(), 1e-9)
	}
}

func TestCloudletSchedulerTimeShared_ExactCompletionInterpolation(t *testing.T) {
	// GIVEN a unit with 1000 remaining work at a 1000 MIPS per-PE rate
	cs := &CloudletSchedulerTimeShared{}
	cs.bindVmPes(1)
	u := mustUnit(t, "w", 5000, 1)
	cs.Submit(u)
	cs.UpdateProcessing(0, 4, 1000) // executed 4000

	// WHEN a 2-unit interval starting at t=4 covers the completion
	finished := cs.UpdateProcessing(4, 2, 1000)

	// THEN the completion lands at t=5 by interpolation, not at t=6
	assert.Len(t, finished, 1)
	assert.InDelta(t, 5.0, u.FinishTime(), 1e-6)
	assert.Equal(t, u.Length, u.ExecutedLength())
}

func TestCloudletSchedulerTimeShared_ZeroAllocationIsStarvationNotError(t *testing.T) {
	cs := &CloudletSchedulerTimeShared{}
	cs.bindVmPes(2)
	u := mustUnit(t, "w", 1000, 1)
	cs.Submit(u)

	finished := cs.UpdateProcessing(0, 10, 0)

	assert.Empty(t, finished)
	assert.Equal(t, 0.0, u.ExecutedLength())
	assert.True(t, math.IsInf(cs.PredictCompletionTime(10, 0), 1))
}

func TestCloudletSchedulerTimeShared_PredictCompletionTime(t *testing.T) {
	cs := &CloudletSchedulerTimeShared{}
	cs.bindVmPes(2)
	cs.Submit(mustUnit(t, "long", 10000, 2))
	cs.Submit(mustUnit(t, "short", 5000, 2))

	// per-PE capacity is 2000/max(4,2) = 500; short finishes first
	got := cs.PredictCompletionTime(0, 2000)
	assert.InDelta(t, 10.0, got, 1e-9)
}

func TestCloudletSchedulerSpaceShared_QueuesWhenPesInsufficient(t *testing.T) {
	// GIVEN a 2-PE VM running one 2-PE unit with two 1-PE units behind it
	cs := &CloudletSchedulerSpaceShared{}
	cs.bindVmPes(2)
	head := mustUnit(t, "head", 2000, 2)
	q1 := mustUnit(t, "q1", 1000, 1)
	q2 := mustUnit(t, "q2", 1000, 1)
	cs.Submit(head)
	cs.Submit(q1)
	cs.Submit(q2)

	assert.Equal(t, WorkloadRunning, head.Status())
	assert.Equal(t, WorkloadWaiting, q1.Status())
	assert.Equal(t, WorkloadWaiting, q2.Status())

	// WHEN the head runs to completion (per-PE rate 1000, finishes at t=2)
	finished := cs.UpdateProcessing(0, 2, 2000)

	// THEN the queued units are promoted together into the freed PEs
	assert.Len(t, finished, 1)
	assert.Equal(t, "head", finished[0].ID)
	assert.InDelta(t, 2.0, head.FinishTime(), 1e-6)
	assert.Equal(t, WorkloadRunning, q1.Status())
	assert.Equal(t, WorkloadRunning, q2.Status())

	// AND they make progress in the next interval while head stays untouched
	cs.UpdateProcessing(2, 1, 2000)
	assert.InDelta(t, 1000, q1.ExecutedLength(), 1e-9)
	assert.InDelta(t, 1000, q2.ExecutedLength(), 1e-9)
	assert.Equal(t, head.Length, head.ExecutedLength())
}

func TestCloudletSchedulerSpaceShared_FIFOHeadBlocksQueue(t *testing.T) {
	// GIVEN a 2-PE VM where the queue head needs both PEs but only one is free
	cs := &CloudletSchedulerSpaceShared{}
	cs.bindVmPes(2)
	running := mustUnit(t, "running", 4000, 1)
	wide := mustUnit(t, "wide", 1000, 2)
	narrow := mustUnit(t, "narrow", 1000, 1)
	cs.Submit(running)
	cs.Submit(wide)
	cs.Submit(narrow)

	// THEN the narrow unit behind the blocked head waits too
	assert.Equal(t, WorkloadRunning, running.Status())
	assert.Equal(t, WorkloadWaiting, wide.Status())
	assert.Equal(t, WorkloadWaiting, narrow.Status())
}

func TestCloudletSchedulerSpaceShared_PredictIgnoresQueuedUnits(t *testing.T) {
	cs := &CloudletSchedulerSpaceShared{}
	cs.bindVmPes(1)
	cs.Submit(mustUnit(t, "running", 2000, 1))
	cs.Submit(mustUnit(t, "queued", 10, 1))

	// per-PE rate 1000: only the running unit's completion is predicted
	got := cs.PredictCompletionTime(0, 1000)
	assert.InDelta(t, 2.0, got, 1e-9)
}
