package sim

// NodeState is the health state of a single node. Every node holds
// exactly one state at any point in a run.
type NodeState string

const (
	// Susceptible nodes are eligible to become infected.
	Susceptible NodeState = "S"
	// Infected nodes are actively infectious. They recover only in the
	// stochastic process; the cascade never leaves this state.
	Infected NodeState = "I"
	// Recovered is terminal for a run: immune to re-infection.
	// Reachable only through the stochastic process.
	Recovered NodeState = "R"
	// Vaccinated is assigned once at initialization and never changes.
	Vaccinated NodeState = "V"
)

// Valid reports whether s is one of the four defined states.
func (s NodeState) Valid() bool {
	switch s {
	case Susceptible, Infected, Recovered, Vaccinated:
		return true
	}
	return false
}

// Mode selects which spread process a run executes.
type Mode string

const (
	// ModeCascade runs the deterministic threshold diffusion.
	ModeCascade Mode = "cascade"
	// ModeStochastic runs the probabilistic infection process with
	// timed recovery.
	ModeStochastic Mode = "stochastic"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeCascade || m == ModeStochastic
}
