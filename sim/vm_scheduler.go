// Host-level scheduling policies: partition a host's PE/MIPS capacity among
// its active VMs each interval.

package sim

import "fmt"

// VmScheduler distributes a host's total capacity among active VMs for the
// current interval by setting each VM's allocated MIPS. Allocations are
// recomputed from scratch every interval, so capacity freed by a removed VM
// is redistributed on the next allocation pass.
type VmScheduler interface {
	AllocateMips(totalPes int, mipsPerPe float64, vms []*Vm)
}

// NewVmScheduler creates a VmScheduler by name.
// Valid names: "space-shared" (default), "time-shared".
// Panics on unrecognized names.
func NewVmScheduler(name string) VmScheduler {
	switch name {
	case "", "space-shared":
		return &VmSchedulerSpaceShared{}
	case "time-shared":
		return &VmSchedulerTimeShared{}
	default:
		panic(fmt.Sprintf("unknown vm scheduler %q", name))
	}
}

// IsValidVmScheduler reports whether name names a known policy.
func IsValidVmScheduler(name string) bool {
	switch name {
	case "", "space-shared", "time-shared":
		return true
	}
	return false
}

// VmSchedulerSpaceShared grants each VM its full requested MIPS if enough
// free PEs remain, in admission order; otherwise the VM receives zero for
// the interval (blocked, not failed). A partial allocation is never made.
type VmSchedulerSpaceShared struct{}

func (VmSchedulerSpaceShared) AllocateMips(totalPes int, _ float64, vms []*Vm) {
	freePes := totalPes
	for _, vm := range vms {
		if vm.Pes <= freePes {
			vm.setAllocatedMips(vm.RequestedMips())
			freePes -= vm.Pes
			continue
		}
		vm.setAllocatedMips(0)
	}
}

// VmSchedulerTimeShared grants every VM a share proportional to its request.
// When aggregate demand exceeds host capacity the shares shrink uniformly;
// no VM is blocked outright.
type VmSchedulerTimeShared struct{}

func (VmSchedulerTimeShared) AllocateMips(totalPes int, mipsPerPe float64, vms []*Vm) {
	capacity := float64(totalPes) * mipsPerPe
	demand := 0.0
	for _, vm := range vms {
		demand += vm.RequestedMips()
	}
	scale := 1.0
	if demand > capacity && demand > 0 {
		scale = capacity / demand
	}
	for _, vm := range vms {
		vm.setAllocatedMips(vm.RequestedMips() * scale)
	}
}
