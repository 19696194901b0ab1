package sim

import (
	"errors"
	"fmt"

	"github.com/claudiarawson/CECS-427-Network-Dynamic-Population-Model/internal/graph"
)

// ConfigError represents a configuration problem detected before a run
// starts. The engines assume validated input and never fail mid-run, so
// every rejectable condition surfaces here.
//
// ConfigError includes structured fields for diagnostics.
type ConfigError struct {
	// Code identifies the error category.
	Code ConfigErrorCode

	// Message is a human-readable description.
	Message string

	// Field names the offending config field, when one applies.
	Field string

	// Seeds lists the offending seed identifiers for INVALID_SEED.
	Seeds []graph.NodeID
}

// ConfigErrorCode categorizes configuration errors.
type ConfigErrorCode string

const (
	// ErrCodeInvalidSeed indicates a seed node not present in the graph.
	ErrCodeInvalidSeed ConfigErrorCode = "INVALID_SEED"

	// ErrCodeInvalidParameter indicates a probability, threshold, or
	// proportion outside [0,1], or a non-positive run length.
	ErrCodeInvalidParameter ConfigErrorCode = "INVALID_PARAMETER"

	// ErrCodeEmptyGraph indicates a graph with zero nodes, for which
	// population sampling is impossible.
	ErrCodeEmptyGraph ConfigErrorCode = "EMPTY_GRAPH"
)

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if len(e.Seeds) > 0 {
		return fmt.Sprintf("%s: %s (seeds=%v)", e.Code, e.Message, e.Seeds)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field=%s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsInvalidSeed returns true if the error is a bad-seed error.
// Uses errors.As to handle wrapped errors.
func IsInvalidSeed(err error) bool {
	var ce *ConfigError
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeInvalidSeed
	}
	return false
}

// IsInvalidParameter returns true if the error is an out-of-range
// parameter error. Uses errors.As to handle wrapped errors.
func IsInvalidParameter(err error) bool {
	var ce *ConfigError
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeInvalidParameter
	}
	return false
}

// IsEmptyGraph returns true if the error is an empty-graph error.
// Uses errors.As to handle wrapped errors.
func IsEmptyGraph(err error) bool {
	var ce *ConfigError
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeEmptyGraph
	}
	return false
}

// NewInvalidSeedError creates a ConfigError naming the seeds that are
// not part of the graph's node set.
func NewInvalidSeedError(missing []graph.NodeID) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeInvalidSeed,
		Message: "seed node not present in graph",
		Seeds:   missing,
	}
}

// NewInvalidParameterError creates a ConfigError for an out-of-range
// field value.
func NewInvalidParameterError(field string, value any) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeInvalidParameter,
		Message: fmt.Sprintf("value %v out of range", value),
		Field:   field,
	}
}

// NewEmptyGraphError creates a ConfigError for a zero-node graph.
func NewEmptyGraphError() *ConfigError {
	return &ConfigError{
		Code:    ErrCodeEmptyGraph,
		Message: "graph has no nodes; population sampling impossible",
	}
}
