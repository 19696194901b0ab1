package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claudiarawson/CECS-427-Network-Dynamic-Population-Model/internal/graph"
	"github.com/claudiarawson/CECS-427-Network-Dynamic-Population-Model/internal/sim"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func ringRun(t *testing.T) (sim.Config, *sim.Result) {
	t.Helper()
	cfg := sim.Config{
		Name:      "ring",
		Mode:      sim.ModeCascade,
		Seeds:     []graph.NodeID{0},
		Threshold: 0.5,
		Lifespan:  3,
	}
	g := graph.FromEdges(nil, [][2]graph.NodeID{{0, 1}, {1, 2}, {2, 3}, {3, 0}})
	res, err := sim.Run(g, cfg)
	require.NoError(t, err)
	return cfg, res
}

func TestOpen_InMemory(t *testing.T) {
	st := openTestStore(t)
	assert.NotNil(t, st)
}

func TestWriteRun_ReadRun_RoundTrip(t *testing.T) {
	st := openTestStore(t)
	cfg, res := ringRun(t)

	run := NewArchivedRun("run-1", cfg, res)
	require.NoError(t, st.WriteRun(context.Background(), run))

	got, err := st.ReadRun(context.Background(), "run-1")
	require.NoError(t, err)

	assert.Equal(t, "ring", got.Name)
	assert.Equal(t, sim.ModeCascade, got.Mode)
	assert.Equal(t, []graph.NodeID{0}, got.Seeds)
	assert.Equal(t, []int{1, 1, 1}, got.DailyNewCases)
	assert.Equal(t, res.FinalStates, got.FinalStates)
	assert.Equal(t, run.ResultDigest, got.ResultDigest)
	assert.NotEmpty(t, got.CreatedAt)
}

func TestWriteRun_Idempotent(t *testing.T) {
	st := openTestStore(t)
	cfg, res := ringRun(t)
	run := NewArchivedRun("run-1", cfg, res)

	require.NoError(t, st.WriteRun(context.Background(), run))
	require.NoError(t, st.WriteRun(context.Background(), run), "re-archiving the same id must be a no-op")

	runs, err := st.ListRuns(context.Background())
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestReadRun_NotFound(t *testing.T) {
	st := openTestStore(t)

	_, err := st.ReadRun(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestListRuns_ArchivalOrder(t *testing.T) {
	st := openTestStore(t)
	cfg, res := ringRun(t)

	for _, id := range []string{"a-run", "b-run", "c-run"} {
		require.NoError(t, st.WriteRun(context.Background(), NewArchivedRun(id, cfg, res)))
	}

	runs, err := st.ListRuns(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "a-run", runs[0].ID)
	assert.Equal(t, "c-run", runs[2].ID)
	assert.Equal(t, 3, runs[0].Days)
}

func TestArchivedRun_ConfigRoundTrip(t *testing.T) {
	cfg, res := ringRun(t)
	run := NewArchivedRun("run-1", cfg, res)

	rebuilt := run.Config()
	assert.NoError(t, rebuilt.Validate())
	assert.Equal(t, cfg.Mode, rebuilt.Mode)
	assert.Equal(t, cfg.Seeds, rebuilt.Seeds)
	assert.Equal(t, cfg.Lifespan, rebuilt.Lifespan)
	assert.Equal(t, cfg.InfectiousDuration(), rebuilt.InfectiousDays, "duration is stored resolved")
}

func TestParseSeeds(t *testing.T) {
	seeds, err := parseSeeds("0,5,12")
	require.NoError(t, err)
	assert.Equal(t, []graph.NodeID{0, 5, 12}, seeds)

	seeds, err = parseSeeds("")
	require.NoError(t, err)
	assert.Nil(t, seeds)

	_, err = parseSeeds("0,x")
	assert.Error(t, err)
}

func TestFixedIDGenerator(t *testing.T) {
	gen := NewFixedIDGenerator("id-1", "id-2")

	assert.Equal(t, "id-1", gen.Generate())
	assert.Equal(t, "id-2", gen.Generate())
	assert.Panics(t, func() { gen.Generate() })
}

func TestUUIDv7Generator_Unique(t *testing.T) {
	gen := UUIDv7Generator{}

	a := gen.Generate()
	b := gen.Generate()
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 36)
}
