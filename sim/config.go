// Scenario description: the declarative form of hosts, VMs, and workload
// units consumed from YAML or built directly in code. All validation happens
// here, at admission time, so misconfigured entities never enter the event
// queue.

package sim

import (
	"github.com/pkg/errors"
	tally "github.com/uber-go/tally/v4"
)

// UtilizationConfig selects and parameterizes a utilization model.
// Model is one of: "full" (default), "fixed", "step", "ramp", "stochastic",
// "trace". Only the fields of the chosen model are read.
type UtilizationConfig struct {
	Model          string    `yaml:"model"`
	Fraction       float64   `yaml:"fraction"`
	SwitchTime     float64   `yaml:"switchTime"`
	Before         float64   `yaml:"before"`
	After          float64   `yaml:"after"`
	Slope          float64   `yaml:"slope"`
	Seed           int64     `yaml:"seed"`
	Samples        []float64 `yaml:"samples"`
	SampleInterval float64   `yaml:"sampleInterval"`
}

// Build creates the configured utilization model.
func (c UtilizationConfig) Build() (UtilizationModel, error) {
	switch c.Model {
	case "", "full":
		return UtilizationFull{}, nil
	case "fixed":
		return UtilizationFixed{Fraction: c.Fraction}, nil
	case "step":
		return UtilizationStep{SwitchTime: c.SwitchTime, Before: c.Before, After: c.After}, nil
	case "ramp":
		return UtilizationRamp{Slope: c.Slope}, nil
	case "stochastic":
		return NewUtilizationStochastic(c.Seed), nil
	case "trace":
		if len(c.Samples) == 0 {
			return nil, errors.New("trace utilization model needs at least one sample")
		}
		if c.SampleInterval <= 0 {
			return nil, errors.Errorf("trace utilization model needs a positive sampleInterval, got %v", c.SampleInterval)
		}
		return UtilizationTrace{Samples: c.Samples, SampleInterval: c.SampleInterval}, nil
	default:
		return nil, errors.Errorf("unknown utilization model %q", c.Model)
	}
}

// WorkloadConfig declares one workload unit.
type WorkloadConfig struct {
	ID          string            `yaml:"id"`
	Length      float64           `yaml:"length"`
	Pes         int               `yaml:"pes"`
	Utilization UtilizationConfig `yaml:"utilization"`
}

// VmConfig declares one VM and the workload units submitted to it.
// Scheduler names a cloudlet scheduler policy ("time-shared" default,
// "space-shared").
type VmConfig struct {
	ID        string           `yaml:"id"`
	Pes       int              `yaml:"pes"`
	Mips      float64          `yaml:"mips"`
	Scheduler string           `yaml:"scheduler"`
	Workloads []WorkloadConfig `yaml:"workloads"`
}

// HostConfig declares one host and the VMs placed on it.
// Scheduler names a VM scheduler policy ("space-shared" default,
// "time-shared").
type HostConfig struct {
	ID        int        `yaml:"id"`
	Pes       int        `yaml:"pes"`
	MipsPerPe float64    `yaml:"mipsPerPe"`
	Scheduler string     `yaml:"scheduler"`
	Vms       []VmConfig `yaml:"vms"`
}

// ScenarioConfig is the root of a scenario description.
//
// Interval is the scheduling interval shared by all hosts; zero means hosts
// update only on state-changing events. ReleasePolicy is "immediate"
// (default) or "all-finished", which holds every VM's capacity until all VMs
// in the scenario are done.
type ScenarioConfig struct {
	Interval      float64      `yaml:"interval"`
	Horizon       float64      `yaml:"horizon"`
	ReleasePolicy string       `yaml:"releasePolicy"`
	Hosts         []HostConfig `yaml:"hosts"`
}

// BuildScenario validates the configuration and assembles a ready-to-run
// simulation. A nil scope disables metrics emission.
func BuildScenario(cfg ScenarioConfig, scope tally.Scope) (*Simulation, error) {
	if len(cfg.Hosts) == 0 {
		return nil, errors.New("scenario declares no hosts")
	}

	s := NewSimulation(cfg.Horizon, scope)
	var allVms []*Vm

	for _, hc := range cfg.Hosts {
		if !IsValidVmScheduler(hc.Scheduler) {
			return nil, errors.Errorf("host %d: unknown vm scheduler %q", hc.ID, hc.Scheduler)
		}
		host, err := NewHost(hc.ID, hc.Pes, hc.MipsPerPe, NewVmScheduler(hc.Scheduler), cfg.Interval)
		if err != nil {
			return nil, errors.Wrap(err, "invalid host")
		}
		for _, vc := range hc.Vms {
			if !IsValidCloudletScheduler(vc.Scheduler) {
				return nil, errors.Errorf("vm %s: unknown cloudlet scheduler %q", vc.ID, vc.Scheduler)
			}
			vm, err := NewVm(vc.ID, vc.Pes, vc.Mips, NewCloudletScheduler(vc.Scheduler))
			if err != nil {
				return nil, errors.Wrap(err, "invalid vm")
			}
			for _, wc := range vc.Workloads {
				um, err := wc.Utilization.Build()
				if err != nil {
					return nil, errors.Wrapf(err, "workload %s", wc.ID)
				}
				unit, err := NewWorkloadUnit(wc.ID, wc.Length, wc.Pes, um)
				if err != nil {
					return nil, errors.Wrap(err, "invalid workload")
				}
				vm.Submit(unit)
			}
			if err := host.AddVm(vm); err != nil {
				return nil, errors.Wrap(err, "vm admission rejected")
			}
			allVms = append(allVms, vm)
		}
		s.AddHost(host)
	}

	switch cfg.ReleasePolicy {
	case "", "immediate":
		s.Release = ReleaseImmediately
	case "all-finished":
		s.Release = RetainUntilAllFinished(allVms)
	default:
		return nil, errors.Errorf("unknown release policy %q", cfg.ReleasePolicy)
	}

	return s, nil
}
