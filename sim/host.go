// Defines the Host: a fixed pool of PEs with a MIPS rating, a VmScheduler
// that partitions that capacity among active VMs, and the update-processing
// loop that advances workload progress and reclaims capacity.

package sim

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// capacityEps tolerates floating-point residue when verifying that
// allocations stay within capacity.
const capacityEps = 1e-6

// Host owns PE capacity and the VMs placed on it. All mutation happens
// inside event execution; between events a host is always in a settled
// state where the sum of VM allocations does not exceed capacity.
type Host struct {
	ID        int
	Pes       int
	MipsPerPe float64
	Scheduler VmScheduler

	// Interval is the nominal period between capacity re-evaluations.
	// Zero means the host updates only on state-changing events
	// (admissions and predicted completions).
	Interval float64

	vms        []*Vm
	lastUpdate float64
	updateSeq  int64
	listeners  []HostUpdateListener
}

// NewHost validates parameters and creates an idle host. A nil scheduler
// defaults to space-shared.
func NewHost(id, pes int, mipsPerPe float64, scheduler VmScheduler, interval float64) (*Host, error) {
	if pes <= 0 {
		return nil, errors.Errorf("host %d: pes must be positive, got %d", id, pes)
	}
	if mipsPerPe <= 0 {
		return nil, errors.Errorf("host %d: mips per pe must be positive, got %v", id, mipsPerPe)
	}
	if interval < 0 {
		return nil, errors.Errorf("host %d: scheduling interval must not be negative, got %v", id, interval)
	}
	if scheduler == nil {
		scheduler = NewVmScheduler("")
	}
	return &Host{
		ID:        id,
		Pes:       pes,
		MipsPerPe: mipsPerPe,
		Scheduler: scheduler,
		Interval:  interval,
	}, nil
}

// TotalMips returns the host's full capacity.
func (h *Host) TotalMips() float64 {
	return float64(h.Pes) * h.MipsPerPe
}

// AvailableMips returns capacity not currently allocated to any VM.
func (h *Host) AvailableMips() float64 {
	allocated := 0.0
	for _, vm := range h.vms {
		allocated += vm.AllocatedMips()
	}
	return h.TotalMips() - allocated
}

// Vms returns the active VMs in admission order.
func (h *Host) Vms() []*Vm {
	return h.vms
}

// AddListener registers a read-only observer of this host's updates.
func (h *Host) AddListener(l HostUpdateListener) {
	if l == nil {
		panic("AddListener: listener must not be nil")
	}
	h.listeners = append(h.listeners, l)
}

// AddVm admits a VM and recomputes allocations. Under the space-shared
// policy a VM asking for more PEs than the host owns is rejected outright:
// it could never be allocated and would occupy the active set forever.
func (h *Host) AddVm(vm *Vm) error {
	if vm == nil {
		return errors.New("AddVm: vm must not be nil")
	}
	if _, spaceShared := h.Scheduler.(*VmSchedulerSpaceShared); spaceShared && vm.Pes > h.Pes {
		return errors.Errorf("host %d: vm %s requests %d pes but host has %d", h.ID, vm.ID, vm.Pes, h.Pes)
	}
	h.vms = append(h.vms, vm)
	h.reallocate()
	logrus.Debugf("host %d: admitted %s, available %.0f MIPS", h.ID, vm, h.AvailableMips())
	return nil
}

// RemoveVm releases a VM's capacity and recomputes the survivors' shares.
func (h *Host) RemoveVm(vm *Vm) {
	for i, v := range h.vms {
		if v == vm {
			h.vms = append(h.vms[:i], h.vms[i+1:]...)
			vm.setAllocatedMips(0)
			h.reallocate()
			return
		}
	}
}

// reallocate re-runs the VmScheduler and verifies the capacity invariant.
// An allocation sum above capacity is a scheduler bug, never a user error,
// so it fails fast instead of clamping.
func (h *Host) reallocate() {
	h.Scheduler.AllocateMips(h.Pes, h.MipsPerPe, h.vms)
	allocated := 0.0
	for _, vm := range h.vms {
		allocated += vm.AllocatedMips()
	}
	if allocated > h.TotalMips()+capacityEps {
		panic(fmt.Sprintf("host %d: allocated %.6f MIPS above capacity %.6f", h.ID, allocated, h.TotalMips()))
	}
}

// updateProcessing advances every VM's workload over [lastUpdate, now] under
// the allocations settled at the previous update, finalizes units that
// completed, and recomputes allocations for the interval starting at now.
// VMs whose last unit just finished get a VmFinishedEvent at now; in that
// case listener notification is deferred to the release decision so
// observers only see the settled capacity for this instant.
func (h *Host) updateProcessing(s *Simulation, now float64) {
	deferred := h.advanceTo(s, now)
	h.reallocate()
	h.scheduleNextUpdate(s, now)
	if !deferred {
		h.notify(s, now)
	}
}

// advanceTo moves workload progress forward to now and schedules a
// VmFinishedEvent for every VM whose last unit completed during the
// interval. Reports whether any such event was scheduled.
func (h *Host) advanceTo(s *Simulation, now float64) bool {
	elapsed := now - h.lastUpdate
	for _, vm := range h.vms {
		finished := vm.Scheduler.UpdateProcessing(h.lastUpdate, elapsed, vm.AllocatedMips())
		for _, u := range finished {
			logrus.Infof("[t=%.3f] host %d: %s of vm %s finished at t=%.6f", now, h.ID, u.ID, vm.ID, u.FinishTime())
			s.recordWorkloadFinished(u)
		}
	}
	h.lastUpdate = now

	deferred := false
	for _, vm := range h.vms {
		if vm.IsFinished() && !vm.finishEmitted {
			vm.finishEmitted = true
			s.Schedule(&VmFinishedEvent{time: now, host: h, vm: vm})
			deferred = true
		}
	}
	return deferred
}

// hasReleasable reports whether the host retains a finished VM whose
// release the predicate now allows. Only VMs whose finish has already been
// processed count; freshly finished VMs go through their own
// VmFinishedEvent.
func (h *Host) hasReleasable(s *Simulation) bool {
	for _, vm := range h.vms {
		if vm.finishEmitted && vm.IsFinished() && s.Release(vm) {
			return true
		}
	}
	return false
}

// scheduleNextUpdate schedules the host's single next update: the earliest
// predicted workload completion or the periodic interval, whichever comes
// first. Bumping updateSeq invalidates any previously scheduled update so a
// host never carries two pending updates.
func (h *Host) scheduleNextUpdate(s *Simulation, now float64) {
	h.updateSeq++

	pending := false
	for _, vm := range h.vms {
		if vm.Scheduler.HasUnfinished() {
			pending = true
			break
		}
	}
	if !pending {
		return // idle: releases of retained VMs are driven by VmFinishedEvents
	}

	completion := math.Inf(1)
	for _, vm := range h.vms {
		if t := vm.Scheduler.PredictCompletionTime(now, vm.AllocatedMips()); t < completion {
			completion = t
		}
	}
	periodic := math.Inf(1)
	if h.Interval > 0 {
		periodic = now + h.Interval
	}

	switch {
	case completion <= periodic && !math.IsInf(completion, 1):
		s.Schedule(&WorkloadFinishedEvent{time: completion, host: h, seq: h.updateSeq})
	case !math.IsInf(periodic, 1):
		s.Schedule(&HostUpdateEvent{time: periodic, host: h, seq: h.updateSeq})
	}
}

// releaseFinished reclaims capacity of every finished VM the release
// predicate allows, including VMs retained by an earlier deferral.
// Returns the number of VMs released.
func (h *Host) releaseFinished(s *Simulation) int {
	released := 0
	for _, vm := range append([]*Vm(nil), h.vms...) {
		if !vm.IsFinished() || !s.Release(vm) {
			continue
		}
		prior := vm.AllocatedMips()
		h.RemoveVm(vm)
		released++
		s.recordVmReleased(vm)
		logrus.Infof("[t=%.3f] host %d: released vm %s, reclaimed %.0f MIPS, available %.0f",
			h.lastUpdate, h.ID, vm.ID, prior, h.AvailableMips())
	}
	return released
}

// notify reports the settled state at now to the metrics sink and to every
// registered listener. Listener panics are isolated per listener.
func (h *Host) notify(s *Simulation, now float64) {
	allocations := make(map[string]float64, len(h.vms))
	for _, vm := range h.vms {
		allocations[vm.ID] = vm.AllocatedMips()
	}
	info := HostUpdateInfo{
		Time:          now,
		Host:          h,
		AvailableMips: h.AvailableMips(),
		VmAllocations: allocations,
	}
	s.observe(info)
	for _, l := range h.listeners {
		notifyListener(l, info)
	}
}
