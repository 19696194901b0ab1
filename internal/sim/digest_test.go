package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claudiarawson/CECS-427-Network-Dynamic-Population-Model/internal/graph"
)

func TestResultDigest_StableForIdenticalRuns(t *testing.T) {
	cfg := validCascadeConfig()
	cfg.Seeds = []graph.NodeID{0}

	a, err := Run(ringGraph(), cfg)
	require.NoError(t, err)
	b, err := Run(ringGraph(), cfg)
	require.NoError(t, err)

	assert.Equal(t, ResultDigest(cfg, a), ResultDigest(cfg, b))
	assert.Len(t, ResultDigest(cfg, a), 64, "hex-encoded SHA-256")
}

func TestResultDigest_SensitiveToConfig(t *testing.T) {
	cfg := validCascadeConfig()
	cfg.Seeds = []graph.NodeID{0}

	res, err := Run(ringGraph(), cfg)
	require.NoError(t, err)
	base := ResultDigest(cfg, res)

	altered := cfg
	altered.Threshold = 0.6
	assert.NotEqual(t, base, ResultDigest(altered, res))

	altered = cfg
	altered.RandomSeed = 99
	assert.NotEqual(t, base, ResultDigest(altered, res))
}

func TestResultDigest_SensitiveToCounts(t *testing.T) {
	cfg := validCascadeConfig()
	a := &Result{DailyNewCases: []int{1, 1, 1}, FinalStates: map[graph.NodeID]NodeState{0: Infected}}
	b := &Result{DailyNewCases: []int{1, 1, 0}, FinalStates: map[graph.NodeID]NodeState{0: Infected}}

	assert.NotEqual(t, ResultDigest(cfg, a), ResultDigest(cfg, b))
}

func TestResultDigest_NormalizesScenarioName(t *testing.T) {
	// "é" precomposed vs combining sequence must hash identically.
	res := &Result{DailyNewCases: []int{0}, FinalStates: map[graph.NodeID]NodeState{0: Susceptible}}

	precomposed := validCascadeConfig()
	precomposed.Name = "café"
	combining := validCascadeConfig()
	combining.Name = "café"

	assert.Equal(t, ResultDigest(precomposed, res), ResultDigest(combining, res))
}
