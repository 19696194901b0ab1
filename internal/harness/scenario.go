package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/claudiarawson/CECS-427-Network-Dynamic-Population-Model/internal/graph"
	"github.com/claudiarawson/CECS-427-Network-Dynamic-Population-Model/internal/sim"
)

// Scenario defines a conformance test scenario: one simulation run with
// expectations on its counts and final states.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Config holds the simulation parameters.
	Config ConfigSection `yaml:"config"`

	// Graph holds the contact network as isolated nodes plus edges.
	Graph GraphSection `yaml:"graph"`

	// Vaccinated pins the vaccinated set instead of sampling it.
	Vaccinated []int `yaml:"vaccinated,omitempty"`

	// Sheltered pins the sheltered set instead of sampling it.
	Sheltered []int `yaml:"sheltered,omitempty"`

	// Expect holds the assertions checked after the run.
	Expect ExpectSection `yaml:"expect"`
}

// ConfigSection mirrors the simulation config in YAML form. Threshold,
// probability, and the random seed default to 0.5, 0.1, and 42 when
// omitted, matching the scenario file schema.
type ConfigSection struct {
	Mode           string   `yaml:"mode"`
	Seeds          []int    `yaml:"seeds"`
	Threshold      *float64 `yaml:"threshold,omitempty"`
	Probability    *float64 `yaml:"probability,omitempty"`
	Lifespan       int      `yaml:"lifespan"`
	InfectiousDays int      `yaml:"infectious_days,omitempty"`
	Shelter        float64  `yaml:"shelter,omitempty"`
	Vaccination    float64  `yaml:"vaccination,omitempty"`
	RandomSeed     *int64   `yaml:"random_seed,omitempty"`
}

// GraphSection holds the contact network edge list.
type GraphSection struct {
	Nodes []int   `yaml:"nodes,omitempty"`
	Edges [][]int `yaml:"edges"`
}

// ExpectSection holds the scenario's assertions. All fields are
// optional, but at least one must be present.
type ExpectSection struct {
	// DailyNewCases is the exact per-day new-case sequence.
	DailyNewCases []int `yaml:"daily_new_cases,omitempty"`

	// TotalNewCases is the sum of new cases across the run.
	TotalNewCases *int `yaml:"total_new_cases,omitempty"`

	// FinalStates maps node ids to their expected final state.
	// Subset match - only listed nodes are checked.
	FinalStates map[int]string `yaml:"final_states,omitempty"`

	// StateCounts maps states to the expected number of nodes ending
	// in them. Subset match - only listed states are checked.
	StateCounts map[string]int `yaml:"state_counts,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "expects:" vs "expect:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// SimConfig converts the YAML config into the simulation driver's record.
func (s *Scenario) SimConfig() sim.Config {
	cfg := sim.Config{
		Name:                  s.Name,
		Mode:                  sim.Mode(s.Config.Mode),
		Seeds:                 toNodeIDs(s.Config.Seeds),
		Threshold:             0.5,
		InfectionProbability:  0.1,
		Lifespan:              s.Config.Lifespan,
		InfectiousDays:        s.Config.InfectiousDays,
		ShelterProportion:     s.Config.Shelter,
		VaccinationProportion: s.Config.Vaccination,
		RandomSeed:            sim.DefaultRandomSeed,
	}
	if s.Config.Threshold != nil {
		cfg.Threshold = *s.Config.Threshold
	}
	if s.Config.Probability != nil {
		cfg.InfectionProbability = *s.Config.Probability
	}
	if s.Config.RandomSeed != nil {
		cfg.RandomSeed = *s.Config.RandomSeed
	}
	return cfg
}

// BuildGraph materializes the scenario's contact network.
func (s *Scenario) BuildGraph() (*graph.Directed, error) {
	edges := make([][2]graph.NodeID, len(s.Graph.Edges))
	for i, e := range s.Graph.Edges {
		if len(e) != 2 {
			return nil, fmt.Errorf("graph.edges[%d]: edge must be a [from, to] pair, got %d elements", i, len(e))
		}
		edges[i] = [2]graph.NodeID{graph.NodeID(e[0]), graph.NodeID(e[1])}
	}
	return graph.FromEdges(toNodeIDs(s.Graph.Nodes), edges), nil
}

func toNodeIDs(ids []int) []graph.NodeID {
	out := make([]graph.NodeID, len(ids))
	for i, id := range ids {
		out[i] = graph.NodeID(id)
	}
	return out
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if !sim.Mode(s.Config.Mode).Valid() {
		return fmt.Errorf("config.mode: unknown mode %q", s.Config.Mode)
	}

	if s.Config.Lifespan <= 0 {
		return fmt.Errorf("config.lifespan must be positive, got %d", s.Config.Lifespan)
	}

	for i, e := range s.Graph.Edges {
		if len(e) != 2 {
			return fmt.Errorf("graph.edges[%d]: edge must be a [from, to] pair, got %d elements", i, len(e))
		}
	}

	for node, state := range s.Expect.FinalStates {
		if !sim.NodeState(state).Valid() {
			return fmt.Errorf("expect.final_states[%d]: unknown state %q", node, state)
		}
	}
	for state := range s.Expect.StateCounts {
		if !sim.NodeState(state).Valid() {
			return fmt.Errorf("expect.state_counts: unknown state %q", state)
		}
	}

	if s.Expect.DailyNewCases == nil && s.Expect.TotalNewCases == nil &&
		len(s.Expect.FinalStates) == 0 && len(s.Expect.StateCounts) == 0 {
		return fmt.Errorf("expect must contain at least one assertion")
	}

	return nil
}
