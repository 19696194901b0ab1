package sim

import (
	"github.com/claudiarawson/CECS-427-Network-Dynamic-Population-Model/internal/graph"
)

// InitialStates assigns every node its starting state.
//
// Every node starts Susceptible unless vaccinated. Seeds then become
// Infected only if currently Susceptible: seeding never overrides
// vaccination.
func InitialStates(nodes []graph.NodeID, seeds []graph.NodeID, vaccinated map[graph.NodeID]struct{}) map[graph.NodeID]NodeState {
	states := make(map[graph.NodeID]NodeState, len(nodes))
	for _, n := range nodes {
		if _, ok := vaccinated[n]; ok {
			states[n] = Vaccinated
		} else {
			states[n] = Susceptible
		}
	}
	for _, s := range seeds {
		if states[s] == Susceptible {
			states[s] = Infected
		}
	}
	return states
}

// ValidateSeeds rejects seed identifiers not present in the graph.
// Returns an INVALID_SEED ConfigError naming every offender, or nil.
func ValidateSeeds(g *graph.Directed, seeds []graph.NodeID) error {
	var missing []graph.NodeID
	for _, s := range seeds {
		if !g.HasNode(s) {
			missing = append(missing, s)
		}
	}
	if len(missing) > 0 {
		return NewInvalidSeedError(missing)
	}
	return nil
}

// Population is the mutable per-run state: one NodeState per node, the
// recovery clocks, and the sheltered set. A Population is owned
// exclusively by one running simulation.
type Population struct {
	nodes     []graph.NodeID
	states    map[graph.NodeID]NodeState
	clocks    map[graph.NodeID]int
	sheltered map[graph.NodeID]struct{}
}

// newPopulation builds the run's population from initializer output.
// nodes must already be in the graph's sorted order.
func newPopulation(nodes []graph.NodeID, states map[graph.NodeID]NodeState, sheltered map[graph.NodeID]struct{}) *Population {
	return &Population{
		nodes:     nodes,
		states:    states,
		clocks:    make(map[graph.NodeID]int, len(nodes)),
		sheltered: sheltered,
	}
}

// Nodes returns all node identifiers in the run's iteration order.
// The returned slice is shared; callers must not modify it.
func (p *Population) Nodes() []graph.NodeID {
	return p.nodes
}

// State returns the node's current state.
func (p *Population) State(id graph.NodeID) NodeState {
	return p.states[id]
}

// IsSheltered reports whether the node is structurally excluded from
// acquiring new infections.
func (p *Population) IsSheltered(id graph.NodeID) bool {
	_, ok := p.sheltered[id]
	return ok
}

// eligible reports whether the node can acquire a new infection today:
// currently Susceptible and not sheltered. Vaccinated and Recovered are
// excluded by the state check alone.
func (p *Population) eligible(id graph.NodeID) bool {
	return p.states[id] == Susceptible && !p.IsSheltered(id)
}

// markInfected applies a new-case transition: state Infected, recovery
// clock reset to zero.
func (p *Population) markInfected(id graph.NodeID) {
	p.states[id] = Infected
	p.clocks[id] = 0
}

// tickInfected advances the node's recovery clock by one day and
// returns the new value. Only meaningful for Infected nodes.
func (p *Population) tickInfected(id graph.NodeID) int {
	p.clocks[id]++
	return p.clocks[id]
}

// setRecovered transitions the node to the terminal Recovered state.
func (p *Population) setRecovered(id graph.NodeID) {
	p.states[id] = Recovered
}

// StateView returns a copy of the current state mapping. Safe for
// observers and results to retain.
func (p *Population) StateView() map[graph.NodeID]NodeState {
	view := make(map[graph.NodeID]NodeState, len(p.states))
	for id, st := range p.states {
		view[id] = st
	}
	return view
}

// CountInState returns how many nodes currently hold state st.
func (p *Population) CountInState(st NodeState) int {
	n := 0
	for _, s := range p.states {
		if s == st {
			n++
		}
	}
	return n
}
