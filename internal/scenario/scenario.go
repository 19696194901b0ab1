// Package scenario loads simulation scenario files written in CUE.
//
// A scenario bundles everything one run needs: the spread process and
// its knobs, the seed nodes, the population proportions, the random
// seed, and the contact network itself as an inline edge list. Files
// are validated against an embedded CUE schema before any field is
// decoded, so range errors carry source positions.
package scenario

import (
	"github.com/claudiarawson/CECS-427-Network-Dynamic-Population-Model/internal/graph"
	"github.com/claudiarawson/CECS-427-Network-Dynamic-Population-Model/internal/sim"
)

// Scenario is a decoded, schema-validated scenario file.
type Scenario struct {
	Name           string
	Mode           sim.Mode
	Seeds          []graph.NodeID
	Threshold      float64
	Probability    float64
	Lifespan       int
	InfectiousDays int
	Shelter        float64
	Vaccination    float64
	RandomSeed     int64

	// Isolated nodes and directed edges of the contact network.
	Nodes []graph.NodeID
	Edges [][2]graph.NodeID
}

// Config converts the scenario into the simulation driver's record.
func (s *Scenario) Config() sim.Config {
	return sim.Config{
		Name:                  s.Name,
		Mode:                  s.Mode,
		Seeds:                 s.Seeds,
		Threshold:             s.Threshold,
		InfectionProbability:  s.Probability,
		Lifespan:              s.Lifespan,
		InfectiousDays:        s.InfectiousDays,
		ShelterProportion:     s.Shelter,
		VaccinationProportion: s.Vaccination,
		RandomSeed:            s.RandomSeed,
	}
}

// BuildGraph materializes the scenario's contact network.
func (s *Scenario) BuildGraph() *graph.Directed {
	return graph.FromEdges(s.Nodes, s.Edges)
}
