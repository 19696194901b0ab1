package sim

import (
	"github.com/claudiarawson/CECS-427-Network-Dynamic-Population-Model/internal/graph"
)

// DefaultRandomSeed matches the fixed seed historically used for
// reproducible classroom runs.
const DefaultRandomSeed = 42

// Config is the validated record driving one simulation run.
type Config struct {
	// Name labels the run in reports and the run archive.
	Name string

	// Mode selects cascade or stochastic spread.
	Mode Mode

	// Seeds are forced into the Infected state at initialization,
	// unless vaccinated.
	Seeds []graph.NodeID

	// Threshold is the cascade activation fraction in [0,1]. A node
	// activates when infected predecessors / total predecessors >=
	// Threshold (boundary equality triggers).
	Threshold float64

	// InfectionProbability is the per-predecessor-exposure infection
	// probability in [0,1] for the stochastic process.
	InfectionProbability float64

	// Lifespan is the run length in days. For the stochastic process it
	// also serves as the infectious duration unless InfectiousDays
	// overrides it. One knob serving two roles is historical; prefer
	// setting InfectiousDays explicitly.
	Lifespan int

	// InfectiousDays, when positive, is the number of consecutive
	// infected days before a node recovers. Zero means "use Lifespan".
	InfectiousDays int

	// ShelterProportion in [0,1] of nodes structurally excluded from
	// acquiring new infections for the whole run.
	ShelterProportion float64

	// VaccinationProportion in [0,1] of nodes permanently immunized at
	// initialization.
	VaccinationProportion float64

	// RandomSeed fixes the random stream: population sampling and
	// stochastic exposure draws. Same seed + same config = same run.
	RandomSeed int64
}

// Validate rejects out-of-range parameters before a run starts.
//
// Checks, in order: mode, run length, the mode's spread knob, the two
// population proportions. Returns the first violation as a typed
// ConfigError (INVALID_PARAMETER).
func (c Config) Validate() error {
	if !c.Mode.Valid() {
		return NewInvalidParameterError("mode", string(c.Mode))
	}
	if c.Lifespan <= 0 {
		return NewInvalidParameterError("lifespan", c.Lifespan)
	}
	if c.InfectiousDays < 0 {
		return NewInvalidParameterError("infectiousDays", c.InfectiousDays)
	}
	if c.Mode == ModeCascade && !inUnitInterval(c.Threshold) {
		return NewInvalidParameterError("threshold", c.Threshold)
	}
	if c.Mode == ModeStochastic && !inUnitInterval(c.InfectionProbability) {
		return NewInvalidParameterError("probability", c.InfectionProbability)
	}
	if !inUnitInterval(c.ShelterProportion) {
		return NewInvalidParameterError("shelter", c.ShelterProportion)
	}
	if !inUnitInterval(c.VaccinationProportion) {
		return NewInvalidParameterError("vaccination", c.VaccinationProportion)
	}
	return nil
}

// InfectiousDuration resolves the recovery duration: the explicit
// InfectiousDays knob when set, otherwise Lifespan.
func (c Config) InfectiousDuration() int {
	if c.InfectiousDays > 0 {
		return c.InfectiousDays
	}
	return c.Lifespan
}

func inUnitInterval(v float64) bool {
	return v >= 0 && v <= 1
}
