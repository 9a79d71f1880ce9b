// Package sim provides the discrete-event core that tracks how much
// processing capacity of a host remains available while virtual machines
// execute workload units on it.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - workload.go: WorkloadUnit lifecycle (waiting -> running -> finished)
//   - event.go: Event types that drive the simulation (host update, workload
//     finished, VM finished) and their same-time ordering
//   - engine.go: The event loop and the heap-backed event queue
//
// # Architecture
//
// Capacity flows top-down on every update: the engine advances the clock to
// the next event, the owning Host re-runs its VmScheduler to partition PE
// capacity among active VMs, each VM's CloudletScheduler advances workload
// progress under its allocation, and the Host reports AvailableMips to
// registered listeners.
//
// # Key Interfaces
//
// The extension points are small, closed interfaces:
//   - UtilizationModel: time -> fractional CPU demand in [0,1]
//   - VmScheduler: partition host capacity among VMs (space- or time-shared)
//   - CloudletScheduler: partition a VM's allocation among its workload
//     units (space- or time-shared)
//   - HostUpdateListener: read-only observer of per-update capacity
//   - ReleasePredicate: broker-level "may this VM's capacity be reclaimed"
package sim
