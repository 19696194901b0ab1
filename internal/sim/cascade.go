package sim

import (
	"github.com/claudiarawson/CECS-427-Network-Dynamic-Population-Model/internal/graph"
)

// cascadeRule is the deterministic threshold diffusion. States are
// limited to {S, I, V}; Infected and Vaccinated are both absorbing.
type cascadeRule struct {
	g         *graph.Directed
	threshold float64
}

// Step returns the nodes activating today: every eligible node whose
// infected-predecessor fraction meets the threshold, judged against the
// state at the start of the day.
//
// A node with no predecessors can never activate; the explicit skip is
// what keeps the fraction well-defined.
func (r *cascadeRule) Step(day int, pop *Population) []graph.NodeID {
	var activated []graph.NodeID
	for _, n := range pop.Nodes() {
		if !pop.eligible(n) {
			continue
		}
		preds := r.g.Predecessors(n)
		if len(preds) == 0 {
			continue
		}
		infected := 0
		for _, p := range preds {
			if pop.State(p) == Infected {
				infected++
			}
		}
		if float64(infected)/float64(len(preds)) >= r.threshold {
			activated = append(activated, n)
		}
	}
	return activated
}
