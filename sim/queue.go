// Implements the RunQueue, which holds workload units waiting for free PEs
// under the space-shared cloudlet scheduler. Units are enqueued on submission
// when the VM has no spare PEs for them.

package sim

import (
	"fmt"
	"strings"
)

// RunQueue represents a FIFO queue of workload units waiting to be granted
// PEs. In the simulator, this models the pool of submitted units that are
// waiting for a running unit to finish and free capacity.
type RunQueue struct {
	queue []*WorkloadUnit // FIFO queue of workload units
}

// Enqueue adds a workload unit to the back of the queue.
func (rq *RunQueue) Enqueue(u *WorkloadUnit) {
	if u == nil {
		panic("Enqueue: unit must not be nil")
	}
	rq.queue = append(rq.queue, u)
}

// Len returns the number of units in the queue.
func (rq *RunQueue) Len() int {
	return len(rq.queue)
}

// Peek returns the unit at the front of the queue without removing it.
// Returns nil if the queue is empty.
func (rq *RunQueue) Peek() *WorkloadUnit {
	if len(rq.queue) == 0 {
		return nil
	}
	return rq.queue[0]
}

// Dequeue removes and returns the unit at the front of the queue.
// Returns nil if the queue is empty.
func (rq *RunQueue) Dequeue() *WorkloadUnit {
	if len(rq.queue) == 0 {
		return nil
	}
	u := rq.queue[0]
	rq.queue = rq.queue[1:]
	return u
}

// Items returns the queue contents for iteration.
// The returned slice is the queue's internal storage -- callers within the
// sim package may iterate over it but MUST NOT append to or reslice it.
func (rq *RunQueue) Items() []*WorkloadUnit {
	return rq.queue
}

func (rq *RunQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, u := range rq.queue {
		sb.WriteString(fmt.Sprint(u.ID))
		if i < len(rq.queue)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}
