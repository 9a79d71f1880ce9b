// Loads the YAML scenario description consumed by the run command.

package cmd

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	sim "github.com/hostcap-sim/hostcap-sim/sim"
)

// LoadScenario reads and parses a scenario file. Semantic validation
// (positive PEs, known policy names, ...) happens later in
// sim.BuildScenario; this only covers I/O and YAML shape.
func LoadScenario(path string) (sim.ScenarioConfig, error) {
	var cfg sim.ScenarioConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "failed to read scenario file %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "failed to parse scenario file %s", path)
	}
	return cfg, nil
}
