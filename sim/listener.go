// Observer surface: read-only callbacks fired after every host update with
// the current time, the host, and its remaining capacity.

package sim

import "github.com/sirupsen/logrus"

// HostUpdateInfo is the payload delivered to listeners after each host
// update. VmAllocations maps VM ID to the MIPS allocated for the interval
// that starts at Time; it is a snapshot and safe to retain.
type HostUpdateInfo struct {
	Time          float64
	Host          *Host
	AvailableMips float64
	VmAllocations map[string]float64
}

// HostUpdateListener observes host updates. Listeners are read-only: they
// must not mutate simulation state.
type HostUpdateListener interface {
	OnHostUpdate(info HostUpdateInfo)
}

// HostUpdateListenerFunc adapts a plain function to HostUpdateListener.
type HostUpdateListenerFunc func(info HostUpdateInfo)

func (f HostUpdateListenerFunc) OnHostUpdate(info HostUpdateInfo) { f(info) }

// notifyListener invokes one listener, isolating panics so a failing
// listener neither aborts the remaining listeners nor halts the engine.
func notifyListener(l HostUpdateListener, info HostUpdateInfo) {
	defer func() {
		if r := recover(); r != nil {
			logrus.Errorf("host %d: listener panicked at t=%.3f: %v", info.Host.ID, info.Time, r)
		}
	}()
	l.OnHostUpdate(info)
}
