// Tracks simulation-wide results: the per-update available-capacity
// trajectory, finished workload units, and released VMs.

package sim

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Observation is one settled (time, capacity) point of a host's trajectory.
// Observations are appended in event-execution order, so two runs of the
// same scenario produce identical slices.
type Observation struct {
	Time          float64
	HostID        int
	TotalMips     float64
	AvailableMips float64
}

// UnitRecord captures a workload unit's exact completion instant.
type UnitRecord struct {
	ID         string
	FinishTime float64
}

// Metrics aggregates statistics about the simulation for final reporting.
type Metrics struct {
	Observations    []Observation
	FinishedUnits   []UnitRecord
	ReleasedVmIds   []string
	VmsReleased     int
	EventsProcessed int
	SimEndedTime    float64
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

// Record appends one trajectory point.
func (m *Metrics) Record(obs Observation) {
	m.Observations = append(m.Observations, obs)
}

// AvailableSeries returns the available-MIPS values observed for one host,
// in event order.
func (m *Metrics) AvailableSeries(hostID int) []float64 {
	var series []float64
	for _, obs := range m.Observations {
		if obs.HostID == hostID {
			series = append(series, obs.AvailableMips)
		}
	}
	return series
}

// Print displays aggregated metrics at the end of the simulation:
// workload completion instants, VM releases, and a summary of the
// available-capacity trajectory.
func (m *Metrics) Print() {
	fmt.Println("=== Simulation Metrics ===")
	fmt.Printf("Events processed     : %d\n", m.EventsProcessed)
	fmt.Printf("Simulation end time  : %.3f\n", m.SimEndedTime)
	fmt.Printf("Workloads finished   : %d\n", len(m.FinishedUnits))
	for _, u := range m.FinishedUnits {
		fmt.Printf("  %-16s finished at t=%.6f\n", u.ID, u.FinishTime)
	}
	fmt.Printf("VMs released         : %d %v\n", m.VmsReleased, m.ReleasedVmIds)

	seen := map[int]bool{}
	var hosts []int
	for _, obs := range m.Observations {
		if !seen[obs.HostID] {
			seen[obs.HostID] = true
			hosts = append(hosts, obs.HostID)
		}
	}
	sort.Ints(hosts)
	for _, id := range hosts {
		series := m.AvailableSeries(id)
		if len(series) == 0 {
			continue
		}
		total := 0.0
		for _, obs := range m.Observations {
			if obs.HostID == id {
				total = obs.TotalMips
				break
			}
		}
		mean := stat.Mean(series, nil)
		fmt.Printf("Host %d trajectory    : %d observations, available MIPS mean=%.1f min=%.1f max=%.1f\n",
			id, len(series), mean, floats.Min(series), floats.Max(series))
		if total > 0 {
			fmt.Printf("Host %d mean usage    : %.1f%%\n", id, 100*(1-mean/total))
		}
	}
}
