// Defines the Vm struct that models a virtual machine placed on a host.
// A VM owns workload units, delegates intra-VM scheduling to its
// CloudletScheduler, and carries the MIPS allocation its host granted it.

package sim

import (
	"fmt"

	"github.com/pkg/errors"
)

// Vm models a virtual machine. Pes and Mips describe the request (Mips is
// per PE); allocatedMips is derived, set exclusively by the host's
// VmScheduler each interval.
type Vm struct {
	ID        string
	Pes       int
	Mips      float64
	Scheduler CloudletScheduler

	allocatedMips float64
	finishEmitted bool // a VmFinishedEvent has been scheduled for this VM
}

// NewVm validates the request and creates a VM bound to the given cloudlet
// scheduler. A nil scheduler defaults to time-shared.
func NewVm(id string, pes int, mips float64, scheduler CloudletScheduler) (*Vm, error) {
	if pes <= 0 {
		return nil, errors.Errorf("vm %s: pes must be positive, got %d", id, pes)
	}
	if mips <= 0 {
		return nil, errors.Errorf("vm %s: mips must be positive, got %v", id, mips)
	}
	if scheduler == nil {
		scheduler = NewCloudletScheduler("")
	}
	scheduler.bindVmPes(pes)
	return &Vm{
		ID:        id,
		Pes:       pes,
		Mips:      mips,
		Scheduler: scheduler,
	}, nil
}

// Submit hands a workload unit to the VM's cloudlet scheduler.
func (vm *Vm) Submit(u *WorkloadUnit) {
	vm.Scheduler.Submit(u)
}

// RequestedMips returns the total MIPS the VM asks of its host.
func (vm *Vm) RequestedMips() float64 {
	return float64(vm.Pes) * vm.Mips
}

// AllocatedMips returns the MIPS the host granted for the current interval.
func (vm *Vm) AllocatedMips() float64 {
	return vm.allocatedMips
}

// setAllocatedMips records the VmScheduler's grant. Allocating above the
// VM's own request is a scheduler bug.
func (vm *Vm) setAllocatedMips(mips float64) {
	if mips > vm.RequestedMips()+capacityEps {
		panic(fmt.Sprintf("vm %s: allocated %.2f MIPS above requested %.2f", vm.ID, mips, vm.RequestedMips()))
	}
	vm.allocatedMips = mips
}

// IsFinished reports whether all of the VM's workload units have completed.
func (vm *Vm) IsFinished() bool {
	return !vm.Scheduler.HasUnfinished()
}

func (vm *Vm) String() string {
	return fmt.Sprintf("Vm: (ID: %s, Pes: %d, Mips: %.0f, Allocated: %.0f)",
		vm.ID, vm.Pes, vm.Mips, vm.allocatedMips)
}
