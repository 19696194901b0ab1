package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claudiarawson/CECS-427-Network-Dynamic-Population-Model/internal/graph"
	"github.com/claudiarawson/CECS-427-Network-Dynamic-Population-Model/internal/sim"
)

const ringCascadeCUE = `
scenario: {
	name: "ring-cascade"
	mode: "cascade"
	seeds: [0]
	threshold: 0.5
	lifespan:  3
	graph: {
		edges: [[0, 1], [1, 2], [2, 3], [3, 0]]
	}
}
`

func TestCompile_RingCascade(t *testing.T) {
	s, err := Compile([]byte(ringCascadeCUE), "ring.cue")
	require.NoError(t, err)

	assert.Equal(t, "ring-cascade", s.Name)
	assert.Equal(t, sim.ModeCascade, s.Mode)
	assert.Equal(t, []graph.NodeID{0}, s.Seeds)
	assert.Equal(t, 0.5, s.Threshold)
	assert.Equal(t, 3, s.Lifespan)
	assert.Len(t, s.Edges, 4)
}

func TestCompile_DefaultsApplied(t *testing.T) {
	s, err := Compile([]byte(ringCascadeCUE), "ring.cue")
	require.NoError(t, err)

	assert.Equal(t, 0.1, s.Probability, "schema default")
	assert.Equal(t, 0.0, s.Shelter)
	assert.Equal(t, 0.0, s.Vaccination)
	assert.Equal(t, int64(sim.DefaultRandomSeed), s.RandomSeed)
	assert.Equal(t, 0, s.InfectiousDays, "absent optional knob stays zero")
}

func TestCompile_RejectsOutOfRangeThreshold(t *testing.T) {
	src := `
scenario: {
	name: "bad"
	mode: "cascade"
	seeds: [0]
	threshold: 1.5
	lifespan:  3
	graph: edges: [[0, 1]]
}
`
	_, err := Compile([]byte(src), "bad.cue")
	assert.Error(t, err)
}

func TestCompile_RejectsUnknownMode(t *testing.T) {
	src := `
scenario: {
	name: "bad"
	mode: "covid"
	seeds: [0]
	lifespan: 3
	graph: edges: [[0, 1]]
}
`
	_, err := Compile([]byte(src), "bad.cue")
	assert.Error(t, err)
}

func TestCompile_RejectsMissingScenarioStruct(t *testing.T) {
	_, err := Compile([]byte(`other: {}`), "bad.cue")
	require.Error(t, err)

	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "scenario", ce.Field)
}

func TestCompile_RejectsMalformedEdge(t *testing.T) {
	src := `
scenario: {
	name: "bad"
	mode: "cascade"
	seeds: [0]
	lifespan: 3
	graph: edges: [[0, 1, 2]]
}
`
	_, err := Compile([]byte(src), "bad.cue")
	assert.Error(t, err)
}

func TestCompile_RejectsZeroLifespan(t *testing.T) {
	src := `
scenario: {
	name: "bad"
	mode: "cascade"
	seeds: [0]
	lifespan: 0
	graph: edges: [[0, 1]]
}
`
	_, err := Compile([]byte(src), "bad.cue")
	assert.Error(t, err)
}

func TestCompile_InfectiousDaysOverride(t *testing.T) {
	src := `
scenario: {
	name: "stoch"
	mode: "stochastic"
	seeds: [0]
	probability:    1.0
	lifespan:       10
	infectiousDays: 2
	graph: edges: [[0, 1]]
}
`
	s, err := Compile([]byte(src), "stoch.cue")
	require.NoError(t, err)
	assert.Equal(t, 2, s.InfectiousDays)

	cfg := s.Config()
	assert.Equal(t, 2, cfg.InfectiousDays)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ring.cue")
	require.NoError(t, os.WriteFile(path, []byte(ringCascadeCUE), 0o644))

	s, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ring-cascade", s.Name)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.cue"))
	assert.Error(t, err)
}

func TestScenario_BuildGraph(t *testing.T) {
	src := `
scenario: {
	name: "iso"
	mode: "cascade"
	seeds: [0]
	lifespan: 1
	graph: {
		nodes: [9]
		edges: [[0, 1]]
	}
}
`
	s, err := Compile([]byte(src), "iso.cue")
	require.NoError(t, err)

	g := s.BuildGraph()
	assert.Equal(t, 3, g.Len())
	assert.True(t, g.HasNode(9))
	assert.Equal(t, []graph.NodeID{0}, g.Predecessors(1))
}

func TestScenario_EndToEndRun(t *testing.T) {
	s, err := Compile([]byte(ringCascadeCUE), "ring.cue")
	require.NoError(t, err)

	res, err := sim.Run(s.BuildGraph(), s.Config())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1, 1}, res.DailyNewCases)
}
