package harness

import (
	"fmt"
	"slices"
	"sort"

	"github.com/claudiarawson/CECS-427-Network-Dynamic-Population-Model/internal/graph"
	"github.com/claudiarawson/CECS-427-Network-Dynamic-Population-Model/internal/sim"
)

// DaySnapshot captures one simulated day for the trace.
type DaySnapshot struct {
	Day      int `json:"day"`
	NewCases int `json:"new_cases"`
	Infected int `json:"infected"`
}

// Result holds the outcome of executing one scenario.
type Result struct {
	// Pass is true when every expectation held.
	Pass bool

	// Errors lists each failed expectation.
	Errors []string

	// DailyNewCases is the run's per-day new-case sequence.
	DailyNewCases []int

	// FinalStates maps every node to its final state.
	FinalStates map[graph.NodeID]sim.NodeState

	// Trace is the per-day snapshot sequence used for golden files.
	Trace []DaySnapshot
}

// Run executes a scenario and evaluates its expectations.
//
// The simulation itself can be rejected (bad parameters, unknown seeds,
// empty graph); that is returned as an error, not a failed expectation.
func Run(scenario *Scenario) (*Result, error) {
	cfg := scenario.SimConfig()

	g, err := scenario.BuildGraph()
	if err != nil {
		return nil, err
	}

	opts := []sim.Option{}
	if scenario.Vaccinated != nil {
		opts = append(opts, sim.WithVaccinated(toNodeIDs(scenario.Vaccinated)))
	}
	if scenario.Sheltered != nil {
		opts = append(opts, sim.WithSheltered(toNodeIDs(scenario.Sheltered)))
	}

	var trace []DaySnapshot
	opts = append(opts, sim.WithObserver(sim.ObserverFunc(func(day, newCases int, pop *sim.Population) {
		trace = append(trace, DaySnapshot{
			Day:      day,
			NewCases: newCases,
			Infected: pop.CountInState(sim.Infected),
		})
	})))

	res, err := sim.Run(g, cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	result := &Result{
		DailyNewCases: res.DailyNewCases,
		FinalStates:   res.FinalStates,
		Trace:         trace,
	}
	result.Errors = checkExpectations(scenario, res)
	result.Pass = len(result.Errors) == 0

	return result, nil
}

// checkExpectations evaluates every expectation and collects failures.
func checkExpectations(scenario *Scenario, res *sim.Result) []string {
	var errs []string
	expect := scenario.Expect

	if expect.DailyNewCases != nil && !slices.Equal(res.DailyNewCases, expect.DailyNewCases) {
		errs = append(errs, fmt.Sprintf("daily_new_cases: expected %v, got %v", expect.DailyNewCases, res.DailyNewCases))
	}

	if expect.TotalNewCases != nil && res.TotalNewCases() != *expect.TotalNewCases {
		errs = append(errs, fmt.Sprintf("total_new_cases: expected %d, got %d", *expect.TotalNewCases, res.TotalNewCases()))
	}

	// Subset match on listed nodes, in node order for stable output.
	nodes := make([]int, 0, len(expect.FinalStates))
	for node := range expect.FinalStates {
		nodes = append(nodes, node)
	}
	sort.Ints(nodes)
	for _, node := range nodes {
		want := sim.NodeState(expect.FinalStates[node])
		got, ok := res.FinalStates[graph.NodeID(node)]
		if !ok {
			errs = append(errs, fmt.Sprintf("final_states[%d]: node not in graph", node))
			continue
		}
		if got != want {
			errs = append(errs, fmt.Sprintf("final_states[%d]: expected %s, got %s", node, want, got))
		}
	}

	states := make([]string, 0, len(expect.StateCounts))
	for state := range expect.StateCounts {
		states = append(states, state)
	}
	sort.Strings(states)
	for _, state := range states {
		want := expect.StateCounts[state]
		if got := res.CountInState(sim.NodeState(state)); got != want {
			errs = append(errs, fmt.Sprintf("state_counts[%s]: expected %d, got %d", state, want, got))
		}
	}

	return errs
}
