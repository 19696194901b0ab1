package sim

import (
	"github.com/claudiarawson/CECS-427-Network-Dynamic-Population-Model/internal/graph"
)

// Result is the output of one run: the ordered per-day new-infection
// counts (length = the configured run length) and the final state of
// every node. Created fresh per run and returned to the caller; the
// engines retain nothing.
type Result struct {
	DailyNewCases []int
	FinalStates   map[graph.NodeID]NodeState
}

// TotalNewCases returns the sum of all daily new-case counts. Seeds are
// not counted; they were infected before day zero.
func (r *Result) TotalNewCases() int {
	total := 0
	for _, c := range r.DailyNewCases {
		total += c
	}
	return total
}

// CountInState returns how many nodes ended the run in state st.
func (r *Result) CountInState(st NodeState) int {
	n := 0
	for _, s := range r.FinalStates {
		if s == st {
			n++
		}
	}
	return n
}
