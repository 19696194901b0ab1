package sim

import (
	"github.com/claudiarawson/CECS-427-Network-Dynamic-Population-Model/internal/graph"
)

// stochasticRule is the probabilistic infection process with timed
// recovery. States are {S, I, R, V}; Recovered and Vaccinated are
// absorbing.
type stochasticRule struct {
	g              *graph.Directed
	probability    float64
	infectiousDays int
	src            Source
}

// Step runs one day in two strictly ordered phases.
//
// Recovery first: every Infected node's clock advances, and nodes at or
// past the infectious duration become Recovered. Those recoveries are
// visible to the infection phase of the same day.
//
// Infection second: each eligible node is exposed to its infected
// predecessors in sorted order, one independent draw per exposure. The
// first successful draw makes the node a new case and stops further
// exposures (at-least-one-success semantics, not a combined
// probability).
func (r *stochasticRule) Step(day int, pop *Population) []graph.NodeID {
	for _, n := range pop.Nodes() {
		if pop.State(n) != Infected {
			continue
		}
		if pop.tickInfected(n) >= r.infectiousDays {
			pop.setRecovered(n)
		}
	}

	var newCases []graph.NodeID
	for _, n := range pop.Nodes() {
		if !pop.eligible(n) {
			continue
		}
		for _, p := range r.g.Predecessors(n) {
			if pop.State(p) != Infected {
				continue
			}
			if r.src.Float64() < r.probability {
				newCases = append(newCases, n)
				break
			}
		}
	}
	return newCases
}
