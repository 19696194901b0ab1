// Package testutil provides deterministic test doubles for the
// simulation's random-draw source.
package testutil

import "sync"

// ScriptedSource returns a predetermined sequence of draws.
//
// This gives tests exact control over stochastic outcomes: each value is
// consumed by one exposure check (or one sampling step), in the same
// order the engine makes them.
//
// Thread-safety: safe for concurrent use via internal mutex, though the
// engines are single-threaded.
type ScriptedSource struct {
	mu    sync.Mutex
	draws []float64
	idx   int
}

// NewScriptedSource creates a source that returns draws in order.
//
// Example:
//
//	src := testutil.NewScriptedSource(0.9, 0.05)
//	src.Float64() // 0.9  (exposure fails against probability 0.1)
//	src.Float64() // 0.05 (exposure succeeds)
//	src.Float64() // panic: all draws exhausted
func NewScriptedSource(draws ...float64) *ScriptedSource {
	return &ScriptedSource{draws: draws}
}

// Float64 returns the next scripted draw.
//
// Panics if all draws have been consumed. This is a fail-fast approach
// to catch test misconfiguration (the run made more draws than the test
// scripted).
func (s *ScriptedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.idx >= len(s.draws) {
		panic("ScriptedSource: all draws exhausted")
	}
	v := s.draws[s.idx]
	s.idx++
	return v
}

// Remaining returns how many scripted draws are left unconsumed.
// Tests use this to assert the engine made exactly the expected number
// of draws.
func (s *ScriptedSource) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.draws) - s.idx
}

// ConstantSource returns the same draw forever. Useful when every
// exposure should succeed (0.0) or fail (0.999...).
type ConstantSource float64

// Float64 returns the constant value.
func (c ConstantSource) Float64() float64 {
	return float64(c)
}
