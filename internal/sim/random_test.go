package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/claudiarawson/CECS-427-Network-Dynamic-Population-Model/internal/graph"
	"github.com/claudiarawson/CECS-427-Network-Dynamic-Population-Model/internal/testutil"
)

func TestSampleNodes_ExactSize(t *testing.T) {
	pool := []graph.NodeID{0, 1, 2, 3, 4}

	picked := sampleNodes(NewSource(42), pool, 3)
	assert.Len(t, picked, 3)
	for id := range picked {
		assert.Contains(t, pool, id)
	}
}

func TestSampleNodes_WithoutReplacement(t *testing.T) {
	// Requesting the whole pool must yield the whole pool.
	pool := []graph.NodeID{0, 1, 2, 3}

	picked := sampleNodes(NewSource(7), pool, 4)
	assert.Len(t, picked, 4)
}

func TestSampleNodes_ClampsToPoolSize(t *testing.T) {
	pool := []graph.NodeID{0, 1}

	picked := sampleNodes(NewSource(1), pool, 10)
	assert.Len(t, picked, 2)
}

func TestSampleNodes_ZeroAndNegative(t *testing.T) {
	pool := []graph.NodeID{0, 1, 2}

	assert.Empty(t, sampleNodes(NewSource(1), pool, 0))
	assert.Empty(t, sampleNodes(NewSource(1), pool, -1))
}

func TestSampleNodes_DeterministicForSeed(t *testing.T) {
	pool := []graph.NodeID{0, 1, 2, 3, 4, 5, 6, 7}

	a := sampleNodes(NewSource(42), pool, 4)
	b := sampleNodes(NewSource(42), pool, 4)
	assert.Equal(t, a, b)
}

func TestSampleNodes_ScriptedDrawsPickExpectedNodes(t *testing.T) {
	pool := []graph.NodeID{0, 1, 2, 3}

	// 0.0 picks index 0; next 0.0 picks the new index 1 occupant.
	picked := sampleNodes(testutil.NewScriptedSource(0.0, 0.0), pool, 2)
	assert.Equal(t, nodeSet(0, 1), picked)
}

func TestSampleNodes_GuardsDrawOfOne(t *testing.T) {
	pool := []graph.NodeID{0, 1, 2}

	// A scripted draw of exactly 1.0 must not index past the pool.
	picked := sampleNodes(testutil.NewScriptedSource(1.0), pool, 1)
	assert.Len(t, picked, 1)
}

func TestSampleNodes_DoesNotMutatePool(t *testing.T) {
	pool := []graph.NodeID{3, 1, 2, 0}
	sampleNodes(NewSource(9), pool, 3)

	assert.Equal(t, []graph.NodeID{3, 1, 2, 0}, pool)
}
