// Package harness provides conformance testing for the spread simulator.
//
// The harness loads scenario files, executes the configured spread
// process, and validates expectations against the run's day-by-day
// counts and final node states.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	config:
//	  mode: cascade
//	  seeds: [0]
//	  threshold: 0.5
//	  lifespan: 3
//	graph:
//	  edges:
//	    - [0, 1]
//	    - [1, 2]
//	vaccinated: [1]
//	expect:
//	  daily_new_cases: [1, 1, 1]
//	  final_states:
//	    0: I
//	  state_counts:
//	    I: 4
//
// # Expectation Types
//
// The following expectation fields are supported:
//
//   - daily_new_cases: the exact per-day new-case sequence
//   - total_new_cases: the sum of new cases across the run
//   - final_states: per-node final state (subset match)
//   - state_counts: number of nodes ending in each state (subset match)
//
// # Deterministic Testing
//
// Scenarios run with an explicit random seed (default 42), so the same
// file produces the same counts and final states on every execution.
// The optional vaccinated and sheltered lists pin those sets exactly
// instead of sampling them, which keeps hand-written expectations
// independent of the sampling order.
//
// Golden snapshots of the per-day trace are compared with goldie; run
// go test ./internal/harness -update to regenerate them.
package harness
