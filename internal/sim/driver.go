package sim

import (
	"log/slog"

	"github.com/claudiarawson/CECS-427-Network-Dynamic-Population-Model/internal/graph"
)

// Rule computes one day's newly infected nodes from the population as it
// stands at the start of the day. Implementations must not apply the
// new-case transitions themselves; the driver applies the whole batch
// after Step returns. Recovery transitions (stochastic) are the one
// exception: they belong to the rule's first phase and are applied
// in-place so the infection phase sees them.
type Rule interface {
	Step(day int, pop *Population) []graph.NodeID
}

// Observer is notified after each simulated day with the day index
// (zero-based), that day's new-case count, and the live population.
// Observers must treat the population as read-only. Rendering and
// interactive stepping belong here, never in the engines.
type Observer interface {
	AfterDay(day int, newCases int, pop *Population)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(day int, newCases int, pop *Population)

// AfterDay implements Observer.
func (f ObserverFunc) AfterDay(day int, newCases int, pop *Population) {
	f(day, newCases, pop)
}

// Option configures a run.
type Option func(*runner)

// WithObserver registers a per-day observer.
func WithObserver(obs Observer) Option {
	return func(r *runner) {
		r.observer = obs
	}
}

// WithSource overrides the run's random source. Used by tests to script
// exact draw sequences; production runs derive the source from
// Config.RandomSeed.
func WithSource(src Source) Option {
	return func(r *runner) {
		r.src = src
	}
}

// WithSheltered pins the sheltered set to exactly these nodes. The
// shelter proportion is ignored and no random draws are consumed for
// shelter sampling.
func WithSheltered(nodes []graph.NodeID) Option {
	return func(r *runner) {
		r.sheltered = pinSet(nodes)
	}
}

// WithVaccinated pins the vaccinated set to exactly these nodes. The
// vaccination proportion is ignored and no random draws are consumed
// for vaccination sampling.
func WithVaccinated(nodes []graph.NodeID) Option {
	return func(r *runner) {
		r.vaccinated = pinSet(nodes)
	}
}

func pinSet(nodes []graph.NodeID) map[graph.NodeID]struct{} {
	set := make(map[graph.NodeID]struct{}, len(nodes))
	for _, n := range nodes {
		set[n] = struct{}{}
	}
	return set
}

type runner struct {
	observer   Observer
	src        Source
	sheltered  map[graph.NodeID]struct{}
	vaccinated map[graph.NodeID]struct{}
}

// Run validates cfg, initializes the population, and executes the
// configured spread process for cfg.Lifespan days.
//
// Validation order: parameters, non-empty graph, seed membership. The
// sheltered set is sampled before the vaccinated set, both without
// replacement from the same random stream, so a fixed seed pins both
// sets as well as the stochastic draws that follow.
func Run(g *graph.Directed, cfg Config, opts ...Option) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if g == nil || g.Len() == 0 {
		return nil, NewEmptyGraphError()
	}
	if err := ValidateSeeds(g, cfg.Seeds); err != nil {
		return nil, err
	}

	r := &runner{}
	for _, opt := range opts {
		opt(r)
	}
	if r.src == nil {
		r.src = NewSource(cfg.RandomSeed)
	}

	nodes := g.Nodes()
	sheltered := r.sheltered
	if sheltered == nil {
		sheltered = sampleNodes(r.src, nodes, int(cfg.ShelterProportion*float64(len(nodes))))
	}
	vaccinated := r.vaccinated
	if vaccinated == nil {
		vaccinated = sampleNodes(r.src, nodes, int(cfg.VaccinationProportion*float64(len(nodes))))
	}

	states := InitialStates(nodes, cfg.Seeds, vaccinated)
	pop := newPopulation(nodes, states, sheltered)

	var rule Rule
	switch cfg.Mode {
	case ModeCascade:
		rule = &cascadeRule{g: g, threshold: cfg.Threshold}
	case ModeStochastic:
		rule = &stochasticRule{
			g:              g,
			probability:    cfg.InfectionProbability,
			infectiousDays: cfg.InfectiousDuration(),
			src:            r.src,
		}
	}

	slog.Info("simulation starting",
		"name", cfg.Name,
		"mode", cfg.Mode,
		"nodes", len(nodes),
		"seeds", len(cfg.Seeds),
		"days", cfg.Lifespan,
		"sheltered", len(sheltered),
		"vaccinated", len(vaccinated),
	)

	result := &Result{
		DailyNewCases: make([]int, 0, cfg.Lifespan),
	}
	for day := 0; day < cfg.Lifespan; day++ {
		batch := rule.Step(day, pop)
		for _, n := range batch {
			pop.markInfected(n)
		}
		result.DailyNewCases = append(result.DailyNewCases, len(batch))

		slog.Debug("day complete",
			"day", day,
			"new_cases", len(batch),
			"infected", pop.CountInState(Infected),
		)

		if r.observer != nil {
			r.observer.AfterDay(day, len(batch), pop)
		}
	}

	result.FinalStates = pop.StateView()

	slog.Info("simulation complete",
		"name", cfg.Name,
		"mode", cfg.Mode,
		"total_new_cases", result.TotalNewCases(),
		"final_infected", result.CountInState(Infected),
		"final_recovered", result.CountInState(Recovered),
	)

	return result, nil
}
