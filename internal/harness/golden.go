package harness

import (
	"encoding/json"
	"strconv"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// TraceSnapshot captures the complete trace for a scenario execution.
// Map keys are strings so JSON marshaling orders them deterministically.
type TraceSnapshot struct {
	ScenarioName string            `json:"scenario_name"`
	Mode         string            `json:"mode"`
	Days         []DaySnapshot     `json:"days"`
	FinalStates  map[string]string `json:"final_states"`
}

// RunWithGolden executes a scenario, requires its expectations to pass,
// and compares the trace snapshot against a golden file stored at
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}

	for _, failure := range result.Errors {
		t.Errorf("scenario %s: %s", scenario.Name, failure)
	}

	finalStates := make(map[string]string, len(result.FinalStates))
	for node, state := range result.FinalStates {
		finalStates[strconv.Itoa(int(node))] = string(state)
	}

	snapshot := TraceSnapshot{
		ScenarioName: scenario.Name,
		Mode:         scenario.Config.Mode,
		Days:         result.Trace,
		FinalStates:  finalStates,
	}

	traceJSON, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}
	traceJSON = append(traceJSON, '\n')

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, traceJSON)

	return nil
}
