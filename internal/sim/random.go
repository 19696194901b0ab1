package sim

import (
	"math/rand"

	"github.com/claudiarawson/CECS-427-Network-Dynamic-Population-Model/internal/graph"
)

// Source supplies the random draws for one run.
//
// A run owns its Source exclusively; nothing is shared with other runs
// or with ambient process-wide randomness. This makes runs composable
// and reproducible: the same seed and config yield the same draw
// sequence because nodes and predecessors are iterated in sorted order.
//
// Implemented by *rand.Rand (production, via NewSource) and by
// testutil.ScriptedSource (tests).
type Source interface {
	Float64() float64
}

// NewSource returns a seeded production Source.
func NewSource(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}

// sampleNodes draws n distinct nodes from pool without replacement,
// consuming exactly n draws from src.
//
// Uses a partial Fisher-Yates over a copy of pool. pool must be in a
// stable order (the graph's sorted node order) for the result to be
// deterministic under a fixed seed.
func sampleNodes(src Source, pool []graph.NodeID, n int) map[graph.NodeID]struct{} {
	if n > len(pool) {
		n = len(pool)
	}
	picked := make(map[graph.NodeID]struct{}, n)
	if n <= 0 {
		return picked
	}

	work := make([]graph.NodeID, len(pool))
	copy(work, pool)
	for i := 0; i < n; i++ {
		j := i + int(src.Float64()*float64(len(work)-i))
		// Float64 returns values in [0,1); guard the j == len(work)
		// edge anyway against a scripted source returning exactly 1.
		if j >= len(work) {
			j = len(work) - 1
		}
		work[i], work[j] = work[j], work[i]
		picked[work[i]] = struct{}{}
	}
	return picked
}
