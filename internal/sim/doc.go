// Package sim implements discrete-time spread processes over a directed
// contact network: a deterministic threshold cascade and a stochastic
// SIR-like infection process with timed recovery.
//
// ARCHITECTURE:
//
// Single-Writer Day Loop:
// A run is a bounded, strictly serial loop over simulated days. Each day
// the active rule computes the set of newly infected nodes from a
// snapshot of the prior day's state, then the driver applies the whole
// batch at once and records the count. No node's transition within a day
// can affect another node's eligibility that same day.
//
// Per-Day Flow:
//  1. Driver validates config, seeds the population, samples sheltered
//     and vaccinated sets
//  2. Rule.Step() scans nodes in sorted order, returns today's new cases
//  3. Driver applies the batch (state + recovery clock reset)
//  4. Daily count appended to the result; optional observer notified
//
// CRITICAL PATTERNS:
//
// Deterministic Iteration:
// Nodes and predecessors are always visited in ascending identifier
// order. Combined with an explicit seeded random source, two runs with
// the same config produce identical day-by-day counts and final states.
//
// Validate Before Day Zero:
// All configuration errors (bad seeds, out-of-range parameters, empty
// graph) are rejected before the loop starts. The rules themselves never
// fail mid-run; numeric edge cases such as a node with no predecessors
// are handled by explicit skip rules.
package sim
