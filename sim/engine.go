// sim/engine.go
package sim

import (
	"container/heap"
	"strconv"

	"github.com/sirupsen/logrus"
	tally "github.com/uber-go/tally/v4"
)

// queuedEvent pairs an event with its scheduling sequence number, the final
// tie-breaker that makes event order fully deterministic.
type queuedEvent struct {
	ev  Event
	seq int64
}

// EventQueue implements heap.Interface and orders events by time, then by
// event-kind priority, then by scheduling order.
// See canonical Golang example here: https://pkg.go.dev/container/heap#example-package-IntHeap
type EventQueue []queuedEvent

func (eq EventQueue) Len() int { return len(eq) }

func (eq EventQueue) Less(i, j int) bool {
	if eq[i].ev.Time() != eq[j].ev.Time() {
		return eq[i].ev.Time() < eq[j].ev.Time()
	}
	if eq[i].ev.Priority() != eq[j].ev.Priority() {
		return eq[i].ev.Priority() < eq[j].ev.Priority()
	}
	return eq[i].seq < eq[j].seq
}

func (eq EventQueue) Swap(i, j int) { eq[i], eq[j] = eq[j], eq[i] }

func (eq *EventQueue) Push(x any) {
	*eq = append(*eq, x.(queuedEvent))
}

func (eq *EventQueue) Pop() any {
	old := *eq
	n := len(old)
	item := old[n-1]
	*eq = old[0 : n-1]
	return item
}

// Simulation is the core object that holds simulated time, the hosts, and
// the event loop. It is single-threaded by design: every mutation of host
// and workload state happens inside Run, one event at a time.
type Simulation struct {
	Clock float64
	// Horizon cuts the run at the given simulated time; zero or negative
	// means the simulation runs until the event queue drains.
	Horizon float64
	// EventQueue has all the simulator events, like periodic host updates
	// and predicted workload completions.
	EventQueue EventQueue
	Hosts      []*Host
	Metrics    *Metrics
	// Release is the broker-level predicate consulted when all of a VM's
	// workload units are finished. Defaults to ReleaseImmediately.
	Release ReleasePredicate

	scope       tally.Scope
	scheduleSeq int64
	stopped     bool
}

// NewSimulation creates an empty simulation. A nil scope disables metrics
// emission (tally.NoopScope).
func NewSimulation(horizon float64, scope tally.Scope) *Simulation {
	if scope == nil {
		scope = tally.NoopScope
	}
	return &Simulation{
		Horizon:    horizon,
		EventQueue: make(EventQueue, 0),
		Metrics:    NewMetrics(),
		Release:    ReleaseImmediately,
		scope:      scope,
	}
}

// AddHost registers a host with the simulation.
func (s *Simulation) AddHost(h *Host) {
	s.Hosts = append(s.Hosts, h)
}

// Schedule pushes an event into the simulation's EventQueue.
func (s *Simulation) Schedule(ev Event) {
	s.scheduleSeq++
	heap.Push(&s.EventQueue, queuedEvent{ev: ev, seq: s.scheduleSeq})
}

// Stop requests termination. Takes effect between events, so settled state
// is never interrupted mid-interval.
func (s *Simulation) Stop() {
	s.stopped = true
}

// Run drains the event queue in time order. Each non-idle host gets an
// initial update at the current clock so the starting capacity is observed,
// then hosts chain their own follow-up updates until no VM has pending work.
func (s *Simulation) Run() {
	for _, h := range s.Hosts {
		if len(h.vms) == 0 {
			continue
		}
		h.lastUpdate = s.Clock
		h.updateSeq++
		s.Schedule(&HostUpdateEvent{time: s.Clock, host: h, seq: h.updateSeq})
	}

	for !s.stopped && len(s.EventQueue) > 0 {
		qe := heap.Pop(&s.EventQueue).(queuedEvent)
		ev := qe.ev
		if s.Horizon > 0 && ev.Time() > s.Horizon {
			break
		}
		// advance the clock
		s.Clock = ev.Time()
		logrus.Debugf("[t=%.3f] Executing %T", s.Clock, ev)
		ev.Execute(s)
		s.Metrics.EventsProcessed++
		s.scope.Counter("events_processed").Inc(1)
	}
	s.Metrics.SimEndedTime = s.Clock
	logrus.Infof("[t=%.3f] Simulation ended", s.Clock)
}

// observe feeds a settled host update into the metrics trajectory and the
// tally scope.
func (s *Simulation) observe(info HostUpdateInfo) {
	s.Metrics.Record(Observation{
		Time:          info.Time,
		HostID:        info.Host.ID,
		TotalMips:     info.Host.TotalMips(),
		AvailableMips: info.AvailableMips,
	})
	s.scope.Tagged(map[string]string{"host": strconv.Itoa(info.Host.ID)}).
		Gauge("available_mips").Update(info.AvailableMips)
}

func (s *Simulation) recordWorkloadFinished(u *WorkloadUnit) {
	s.Metrics.FinishedUnits = append(s.Metrics.FinishedUnits, UnitRecord{
		ID:         u.ID,
		FinishTime: u.FinishTime(),
	})
	s.scope.Counter("workloads_finished").Inc(1)
}

func (s *Simulation) recordVmReleased(vm *Vm) {
	s.Metrics.VmsReleased++
	s.Metrics.ReleasedVmIds = append(s.Metrics.ReleasedVmIds, vm.ID)
	s.scope.Counter("vms_released").Inc(1)
}
