// Broker-level release policy. The core only consumes a boolean "may this
// VM's capacity be reclaimed now" signal; when and why a broker defers the
// release is external policy.

package sim

// ReleasePredicate is consulted whenever all of a VM's workload units have
// finished. Returning false leaves the VM occupying its allocated capacity;
// the engine re-consults the predicate for retained VMs every time another
// VM finishes.
type ReleasePredicate func(vm *Vm) bool

// ReleaseImmediately reclaims a VM's capacity the instant its last workload
// unit finishes.
func ReleaseImmediately(_ *Vm) bool { return true }

// RetainUntilAllFinished builds a predicate that holds every listed VM's
// capacity until all of them have finished, then releases them together.
// This reproduces the broker behavior where per-VM teardown is deferred
// until the broker's whole VM set is done.
func RetainUntilAllFinished(vms []*Vm) ReleasePredicate {
	return func(_ *Vm) bool {
		for _, vm := range vms {
			if !vm.IsFinished() {
				return false
			}
		}
		return true
	}
}
