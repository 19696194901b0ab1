package sim

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claudiarawson/CECS-427-Network-Dynamic-Population-Model/internal/graph"
	"github.com/claudiarawson/CECS-427-Network-Dynamic-Population-Model/internal/testutil"
)

func TestRun_RejectsInvalidConfigBeforeSimulating(t *testing.T) {
	g := ringGraph()

	_, err := Run(g, Config{Mode: "covid", Lifespan: 3})
	assert.True(t, IsInvalidParameter(err))

	_, err = Run(g, Config{Mode: ModeCascade, Threshold: 2, Lifespan: 3})
	assert.True(t, IsInvalidParameter(err))
}

func TestRun_RejectsEmptyGraph(t *testing.T) {
	_, err := Run(graph.NewDirected(), validCascadeConfig())
	assert.True(t, IsEmptyGraph(err))

	_, err = Run(nil, validCascadeConfig())
	assert.True(t, IsEmptyGraph(err))
}

func TestRun_RejectsUnknownSeeds(t *testing.T) {
	cfg := validCascadeConfig()
	cfg.Seeds = []graph.NodeID{0, 99}

	_, err := Run(ringGraph(), cfg)
	assert.True(t, IsInvalidSeed(err))

	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, []graph.NodeID{99}, ce.Seeds)
}

func TestRun_CascadeRingScenario(t *testing.T) {
	cfg := validCascadeConfig()
	cfg.Seeds = []graph.NodeID{0}

	res, err := Run(ringGraph(), cfg)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 1, 1}, res.DailyNewCases)
	assert.Equal(t, 4, res.CountInState(Infected))
	assert.Equal(t, 3, res.TotalNewCases())
}

func TestRun_VaccinationSampledFromConfiguredProportion(t *testing.T) {
	// 4 nodes at proportion 0.25 vaccinates exactly one node. The
	// scripted draw selects index 1 of the sorted pool [0 1 2 3],
	// reproducing the ring-with-vaccinated-node-1 scenario: spread is
	// fully blocked.
	cfg := validCascadeConfig()
	cfg.Seeds = []graph.NodeID{0}
	cfg.VaccinationProportion = 0.25

	res, err := Run(ringGraph(), cfg, WithSource(testutil.NewScriptedSource(0.3)))
	require.NoError(t, err)

	assert.Equal(t, []int{0, 0, 0}, res.DailyNewCases)
	assert.Equal(t, Vaccinated, res.FinalStates[1])
	assert.Equal(t, 1, res.CountInState(Vaccinated))
}

func TestRun_ShelterSampledBeforeVaccination(t *testing.T) {
	// Both proportions 0.25: the first draw picks the sheltered node,
	// the second the vaccinated node, from the same stream.
	cfg := validCascadeConfig()
	cfg.Seeds = []graph.NodeID{0}
	cfg.ShelterProportion = 0.25
	cfg.VaccinationProportion = 0.25

	// Each sample draws from a fresh copy of the sorted pool:
	// 0.55 → index 2 sheltered, then 0.3 → index 1 vaccinated.
	res, err := Run(ringGraph(), cfg, WithSource(testutil.NewScriptedSource(0.55, 0.3)))
	require.NoError(t, err)

	assert.Equal(t, Vaccinated, res.FinalStates[1])
	assert.Equal(t, Susceptible, res.FinalStates[2], "sheltered node stays susceptible")
}

func TestRun_PinnedVaccinatedSetBlocksSpread(t *testing.T) {
	cfg := validCascadeConfig()
	cfg.Seeds = []graph.NodeID{0}

	res, err := Run(ringGraph(), cfg, WithVaccinated([]graph.NodeID{1}))
	require.NoError(t, err)

	assert.Equal(t, []int{0, 0, 0}, res.DailyNewCases)
	assert.Equal(t, Vaccinated, res.FinalStates[1])
}

func TestRun_PinnedShelteredSetStopsAtShelter(t *testing.T) {
	cfg := validCascadeConfig()
	cfg.Seeds = []graph.NodeID{0}
	cfg.Lifespan = 4

	res, err := Run(ringGraph(), cfg, WithSheltered([]graph.NodeID{2}))
	require.NoError(t, err)

	// Node 1 is infected on day 0; node 2 shelters and never turns, so
	// node 3 has no infected predecessor either.
	assert.Equal(t, []int{1, 0, 0, 0}, res.DailyNewCases)
	assert.Equal(t, Susceptible, res.FinalStates[2])
	assert.Equal(t, Susceptible, res.FinalStates[3])
}

func TestRun_DeterministicAcrossRuns(t *testing.T) {
	cfg := Config{
		Name:                  "repro",
		Mode:                  ModeStochastic,
		Seeds:                 []graph.NodeID{0},
		InfectionProbability:  0.4,
		Lifespan:              8,
		ShelterProportion:     0.1,
		VaccinationProportion: 0.2,
		RandomSeed:            DefaultRandomSeed,
	}
	g := graph.FromEdges(nil, [][2]graph.NodeID{
		{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 0}, {0, 5}, {5, 6}, {6, 7}, {7, 8}, {8, 9}, {9, 0}, {2, 7}, {5, 3},
	})

	first, err := Run(g, cfg)
	require.NoError(t, err)
	second, err := Run(g, cfg)
	require.NoError(t, err)

	assert.Equal(t, first.DailyNewCases, second.DailyNewCases)
	assert.Equal(t, first.FinalStates, second.FinalStates)
}

func TestRun_DifferentSeedsDiverge(t *testing.T) {
	cfg := Config{
		Mode:                 ModeStochastic,
		Seeds:                []graph.NodeID{0},
		InfectionProbability: 0.5,
		Lifespan:             6,
	}
	g := ringGraph()

	// With p=0.5 on a 4-ring, 20 seeds producing identical day-by-day
	// counts would mean the seed is being ignored.
	distinct := make(map[string]bool)
	for seed := int64(1); seed <= 20; seed++ {
		cfg.RandomSeed = seed
		res, err := Run(g, cfg)
		require.NoError(t, err)
		distinct[fmt.Sprint(res.DailyNewCases)] = true
	}
	assert.Greater(t, len(distinct), 1)
}

func TestRun_ResultLengthMatchesLifespan(t *testing.T) {
	cfg := validCascadeConfig()
	cfg.Seeds = []graph.NodeID{0}
	cfg.Lifespan = 7

	res, err := Run(ringGraph(), cfg)
	require.NoError(t, err)

	assert.Len(t, res.DailyNewCases, 7, "no early exit on fixpoint")
	assert.Equal(t, []int{1, 1, 1, 0, 0, 0, 0}, res.DailyNewCases)
}

func TestRun_ObserverSeesEveryDay(t *testing.T) {
	cfg := validCascadeConfig()
	cfg.Seeds = []graph.NodeID{0}

	var days []int
	var cases []int
	obs := ObserverFunc(func(day, newCases int, pop *Population) {
		days = append(days, day)
		cases = append(cases, newCases)
		for _, n := range pop.Nodes() {
			assert.True(t, pop.State(n).Valid(), "node %d must hold exactly one valid state", n)
		}
	})

	_, err := Run(ringGraph(), cfg, WithObserver(obs))
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2}, days)
	assert.Equal(t, []int{1, 1, 1}, cases)
}

func TestRun_StatesAlwaysMutuallyExclusive(t *testing.T) {
	cfg := Config{
		Mode:                 ModeStochastic,
		Seeds:                []graph.NodeID{0},
		InfectionProbability: 0.7,
		Lifespan:             5,
		InfectiousDays:       2,
		RandomSeed:           7,
	}

	obs := ObserverFunc(func(day, newCases int, pop *Population) {
		total := 0
		for _, st := range []NodeState{Susceptible, Infected, Recovered, Vaccinated} {
			total += pop.CountInState(st)
		}
		assert.Equal(t, len(pop.Nodes()), total, "day %d: states must partition the population", day)
	})

	_, err := Run(ringGraph(), cfg, WithObserver(obs))
	require.NoError(t, err)
}
