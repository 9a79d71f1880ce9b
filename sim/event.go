package sim

import "github.com/sirupsen/logrus"

// Event defines the interface for all simulation events. Each event has a
// Time (simulated seconds), a Priority used to order events that share the
// same time, and an Execute method that advances simulation state.
//
// Same-time ordering matters: workload completions run before periodic host
// updates so capacity is never transiently reported as consumed after a unit
// has actually finished.
type Event interface {
	Time() float64
	Priority() int
	Execute(*Simulation)
}

// Event kind priorities, lowest executes first at equal times.
const (
	priorityWorkloadFinished = iota
	priorityVmFinished
	priorityHostUpdate
)

// WorkloadFinishedEvent is a host update scheduled at the predicted instant
// a workload unit completes, so the completion lands on its exact
// sub-interval time instead of the next tick boundary.
type WorkloadFinishedEvent struct {
	time float64
	host *Host
	seq  int64 // stale when the host has since rescheduled its next update
}

func (e *WorkloadFinishedEvent) Time() float64 { return e.time }

func (e *WorkloadFinishedEvent) Priority() int { return priorityWorkloadFinished }

func (e *WorkloadFinishedEvent) Execute(s *Simulation) {
	if e.seq != e.host.updateSeq {
		logrus.Debugf("[t=%.3f] host %d: stale completion update dropped", e.time, e.host.ID)
		return
	}
	e.host.updateProcessing(s, e.time)
}

// VmFinishedEvent fires when all of a VM's workload units have finished.
// It consults the release predicate and, when allowed, reclaims the VM's
// capacity at this exact instant. Retained VMs from earlier deferrals are
// re-evaluated here as well.
type VmFinishedEvent struct {
	time float64
	host *Host
	vm   *Vm
}

func (e *VmFinishedEvent) Time() float64 { return e.time }

func (e *VmFinishedEvent) Priority() int { return priorityVmFinished }

func (e *VmFinishedEvent) Execute(s *Simulation) {
	logrus.Infof("[t=%.3f] host %d: vm %s finished all workload units", e.time, e.host.ID, e.vm.ID)
	for _, h := range s.Hosts {
		if h != e.host {
			// A release here may unblock retained VMs anywhere in the
			// scenario (for predicates that span hosts). Bring such hosts
			// current before reclaiming their capacity.
			if !h.hasReleasable(s) {
				continue
			}
			h.advanceTo(s, e.time)
		}
		h.releaseFinished(s)
		h.reallocate()
		h.scheduleNextUpdate(s, e.time)
		h.notify(s, e.time)
	}
}

// HostUpdateEvent is the periodic capacity re-evaluation, fired every
// scheduling interval while the host has pending work.
type HostUpdateEvent struct {
	time float64
	host *Host
	seq  int64
}

func (e *HostUpdateEvent) Time() float64 { return e.time }

func (e *HostUpdateEvent) Priority() int { return priorityHostUpdate }

func (e *HostUpdateEvent) Execute(s *Simulation) {
	if e.seq != e.host.updateSeq {
		logrus.Debugf("[t=%.3f] host %d: stale periodic update dropped", e.time, e.host.ID)
		return
	}
	e.host.updateProcessing(s, e.time)
}
