// Intra-VM scheduling policies: decide how a VM's allocated MIPS is divided
// among its workload units each interval, advance progress, and detect
// completions at their exact sub-interval instants.

package sim

import (
	"fmt"
	"math"
)

// completionEps guards the finished-length comparison against floating-point
// drift so a unit is never reported finished one tick early or late.
const completionEps = 1e-9

// CloudletScheduler assigns a VM's allocated MIPS capacity among its workload
// units and detects per-unit completion.
//
// All rates are per-PE: a unit's Length is work per PE, so a unit running at
// per-PE capacity c finishes after RemainingLength()/c time units. Allocated
// MIPS of 0 with unfinished units is legitimate starvation, not an error:
// the units simply make zero progress that interval.
type CloudletScheduler interface {
	// Submit registers a workload unit with the scheduler.
	Submit(u *WorkloadUnit)

	// UpdateProcessing advances all units over [startTime, startTime+elapsed)
	// under the given VM allocation and returns the units that finished
	// during the interval, each finalized at its exact completion instant.
	UpdateProcessing(startTime, elapsed, allocatedMips float64) []*WorkloadUnit

	// PredictCompletionTime returns the earliest future instant at which a
	// unit will finish, assuming the current allocation and the demand at
	// now hold. Returns +Inf when no unit can finish (idle or starved).
	PredictCompletionTime(now, allocatedMips float64) float64

	// HasUnfinished reports whether any submitted unit has work left.
	HasUnfinished() bool

	// Units returns all submitted units in submission order.
	Units() []*WorkloadUnit

	// bindVmPes ties the scheduler to its owning VM's PE count.
	bindVmPes(pes int)
}

// NewCloudletScheduler creates a CloudletScheduler by name.
// Valid names: "time-shared" (default), "space-shared".
// Empty string defaults to time-shared (for config default compatibility).
// Panics on unrecognized names.
func NewCloudletScheduler(name string) CloudletScheduler {
	switch name {
	case "", "time-shared":
		return &CloudletSchedulerTimeShared{}
	case "space-shared":
		return &CloudletSchedulerSpaceShared{}
	default:
		panic(fmt.Sprintf("unknown cloudlet scheduler %q", name))
	}
}

// IsValidCloudletScheduler reports whether name names a known policy.
func IsValidCloudletScheduler(name string) bool {
	switch name {
	case "", "time-shared", "space-shared":
		return true
	}
	return false
}

// === Time-shared policy ===

// CloudletSchedulerTimeShared runs every unfinished unit concurrently.
// The per-PE capacity each unit executes at is the VM's allocation divided by
// the larger of the VM's PE count and the total PEs demanded by active units,
// so capacity shrinks uniformly once units oversubscribe the VM's PEs.
type CloudletSchedulerTimeShared struct {
	units []*WorkloadUnit
	vmPes int
}

func (cs *CloudletSchedulerTimeShared) bindVmPes(pes int) { cs.vmPes = pes }

func (cs *CloudletSchedulerTimeShared) Submit(u *WorkloadUnit) {
	if u == nil {
		panic("Submit: unit must not be nil")
	}
	u.markRunning()
	cs.units = append(cs.units, u)
}

func (cs *CloudletSchedulerTimeShared) Units() []*WorkloadUnit { return cs.units }

func (cs *CloudletSchedulerTimeShared) HasUnfinished() bool {
	for _, u := range cs.units {
		if !u.Finished() {
			return true
		}
	}
	return false
}

// perPeCapacity computes the per-PE MIPS rate active units execute at.
func (cs *CloudletSchedulerTimeShared) perPeCapacity(allocatedMips float64) float64 {
	activePes := 0
	for _, u := range cs.units {
		if !u.Finished() {
			activePes += u.Pes
		}
	}
	if activePes == 0 {
		return 0
	}
	divisor := cs.vmPes
	if activePes > divisor {
		divisor = activePes
	}
	return allocatedMips / float64(divisor)
}

func (cs *CloudletSchedulerTimeShared) UpdateProcessing(startTime, elapsed, allocatedMips float64) []*WorkloadUnit {
	if elapsed <= 0 {
		return nil
	}
	capacity := cs.perPeCapacity(allocatedMips)
	var finished []*WorkloadUnit
	for _, u := range cs.units {
		if u.Finished() {
			continue
		}
		if done := advanceUnit(u, startTime, elapsed, capacity); done {
			finished = append(finished, u)
		}
	}
	return finished
}

func (cs *CloudletSchedulerTimeShared) PredictCompletionTime(now, allocatedMips float64) float64 {
	capacity := cs.perPeCapacity(allocatedMips)
	earliest := math.Inf(1)
	for _, u := range cs.units {
		if u.Finished() {
			continue
		}
		if t := predictUnit(u, now, capacity); t < earliest {
			earliest = t
		}
	}
	return earliest
}

// === Space-shared policy ===

// CloudletSchedulerSpaceShared grants PEs to units exclusively: units run
// while the sum of their PE requirements fits the VM's PEs, the rest queue
// FIFO and are promoted as running units finish. Each running unit executes
// at the VM's full per-PE rate.
type CloudletSchedulerSpaceShared struct {
	units   []*WorkloadUnit
	running []*WorkloadUnit
	waiting RunQueue
	usedPes int
	vmPes   int
}

func (cs *CloudletSchedulerSpaceShared) bindVmPes(pes int) { cs.vmPes = pes }

func (cs *CloudletSchedulerSpaceShared) Submit(u *WorkloadUnit) {
	if u == nil {
		panic("Submit: unit must not be nil")
	}
	cs.units = append(cs.units, u)
	if cs.usedPes+u.Pes <= cs.vmPes {
		u.markRunning()
		cs.running = append(cs.running, u)
		cs.usedPes += u.Pes
		return
	}
	cs.waiting.Enqueue(u)
}

func (cs *CloudletSchedulerSpaceShared) Units() []*WorkloadUnit { return cs.units }

func (cs *CloudletSchedulerSpaceShared) HasUnfinished() bool {
	return len(cs.running) > 0 || cs.waiting.Len() > 0
}

// perPeCapacity is the VM's allocation spread across its PEs; a running unit
// occupies its PEs exclusively at this rate.
func (cs *CloudletSchedulerSpaceShared) perPeCapacity(allocatedMips float64) float64 {
	if cs.vmPes == 0 {
		return 0
	}
	return allocatedMips / float64(cs.vmPes)
}

func (cs *CloudletSchedulerSpaceShared) UpdateProcessing(startTime, elapsed, allocatedMips float64) []*WorkloadUnit {
	if elapsed <= 0 {
		return nil
	}
	capacity := cs.perPeCapacity(allocatedMips)
	var finished []*WorkloadUnit
	for _, u := range cs.running {
		if done := advanceUnit(u, startTime, elapsed, capacity); done {
			finished = append(finished, u)
		}
	}
	for _, u := range finished {
		cs.removeRunning(u)
	}
	cs.promote()
	return finished
}

// removeRunning drops a finished unit from the running set and frees its PEs.
func (cs *CloudletSchedulerSpaceShared) removeRunning(u *WorkloadUnit) {
	for i, r := range cs.running {
		if r == u {
			cs.running = append(cs.running[:i], cs.running[i+1:]...)
			cs.usedPes -= u.Pes
			return
		}
	}
}

// promote moves queued units into the running set while their PEs fit.
// Promotion is strictly FIFO: a blocked head blocks everything behind it.
func (cs *CloudletSchedulerSpaceShared) promote() {
	for cs.waiting.Len() > 0 {
		head := cs.waiting.Peek()
		if cs.usedPes+head.Pes > cs.vmPes {
			return
		}
		cs.waiting.Dequeue()
		head.markRunning()
		cs.running = append(cs.running, head)
		cs.usedPes += head.Pes
	}
}

func (cs *CloudletSchedulerSpaceShared) PredictCompletionTime(now, allocatedMips float64) float64 {
	capacity := cs.perPeCapacity(allocatedMips)
	earliest := math.Inf(1)
	for _, u := range cs.running {
		if t := predictUnit(u, now, capacity); t < earliest {
			earliest = t
		}
	}
	return earliest
}

// === Shared progress arithmetic ===

// advanceUnit moves one unit forward over [startTime, startTime+elapsed) at
// the given per-PE capacity. Demand is sampled at the interval start, which
// keeps progress and completion prediction in exact agreement for models
// that are constant over the interval. Reports whether the unit finished;
// the exact completion instant is found by linear interpolation within the
// interval rather than snapped to the interval end.
func advanceUnit(u *WorkloadUnit, startTime, elapsed, capacity float64) bool {
	rate := capacity * u.Utilization.Utilization(startTime)
	if rate <= 0 {
		return false // starved this interval: zero progress, not an error
	}
	remaining := u.RemainingLength()
	if rate*elapsed+completionEps >= remaining {
		u.markFinished(startTime + remaining/rate)
		return true
	}
	u.addProgress(rate * elapsed)
	return false
}

// predictUnit estimates when a unit finishes assuming the demand at now
// holds. Returns +Inf for a starved unit.
func predictUnit(u *WorkloadUnit, now, capacity float64) float64 {
	rate := capacity * u.Utilization.Utilization(now)
	if rate <= 0 {
		return math.Inf(1)
	}
	return now + u.RemainingLength()/rate
}
