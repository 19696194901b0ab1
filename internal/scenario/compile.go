package scenario

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/claudiarawson/CECS-427-Network-Dynamic-Population-Model/internal/graph"
	"github.com/claudiarawson/CECS-427-Network-Dynamic-Population-Model/internal/sim"
)

//go:embed schema.cue
var schemaCUE string

// CompileError reports a scenario file problem with its CUE source
// position when one is available.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: scenario field %q: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Field, e.Message)
	}
	if e.Field != "" {
		return fmt.Sprintf("scenario field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("scenario: %s", e.Message)
}

// LoadFile reads and compiles a scenario file.
//
// The file's top-level "scenario" struct is unified with the embedded
// schema, so range and type violations are reported against the user's
// source, then decoded into a Scenario.
func LoadFile(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}
	return Compile(data, path)
}

// Compile parses scenario source. filename is used in error positions.
func Compile(src []byte, filename string) (*Scenario, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		// Embedded schema is compiled at build time; failing here is a
		// packaging bug, not user error.
		return nil, fmt.Errorf("compile embedded schema: %w", err)
	}

	file := ctx.CompileBytes(src, cue.Filename(filename))
	if err := file.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	root := file.LookupPath(cue.ParsePath("scenario"))
	if !root.Exists() {
		return nil, &CompileError{Field: "scenario", Message: "top-level scenario struct is required"}
	}

	unified := schema.LookupPath(cue.ParsePath("#Scenario")).Unify(root)
	if err := unified.Validate(cue.Final(), cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	return compileScenario(unified)
}

// compileScenario decodes a schema-validated CUE value field by field.
func compileScenario(v cue.Value) (*Scenario, error) {
	s := &Scenario{}

	name, err := lookup(v, "name").String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	s.Name = name

	mode, err := lookup(v, "mode").String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	s.Mode = sim.Mode(mode)

	s.Seeds, err = decodeNodeList(lookup(v, "seeds"))
	if err != nil {
		return nil, err
	}

	if s.Threshold, err = lookup(v, "threshold").Float64(); err != nil {
		return nil, formatCUEError(err)
	}
	if s.Probability, err = lookup(v, "probability").Float64(); err != nil {
		return nil, formatCUEError(err)
	}

	lifespan, err := lookup(v, "lifespan").Int64()
	if err != nil {
		return nil, formatCUEError(err)
	}
	s.Lifespan = int(lifespan)

	if idVal := v.LookupPath(cue.ParsePath("infectiousDays")); idVal.Exists() {
		days, err := idVal.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		s.InfectiousDays = int(days)
	}

	if s.Shelter, err = lookup(v, "shelter").Float64(); err != nil {
		return nil, formatCUEError(err)
	}
	if s.Vaccination, err = lookup(v, "vaccination").Float64(); err != nil {
		return nil, formatCUEError(err)
	}

	randomSeed, err := lookup(v, "randomSeed").Int64()
	if err != nil {
		return nil, formatCUEError(err)
	}
	s.RandomSeed = randomSeed

	s.Nodes, err = decodeNodeList(lookup(v, "graph.nodes"))
	if err != nil {
		return nil, err
	}

	s.Edges, err = decodeEdgeList(lookup(v, "graph.edges"))
	if err != nil {
		return nil, err
	}

	return s, nil
}

// lookup resolves a path and applies the schema default when the user
// left the field to its disjunction.
func lookup(v cue.Value, path string) cue.Value {
	val := v.LookupPath(cue.ParsePath(path))
	if d, ok := val.Default(); ok {
		return d
	}
	return val
}

// decodeNodeList reads a CUE list of ints as node identifiers.
func decodeNodeList(v cue.Value) ([]graph.NodeID, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var ids []graph.NodeID
	for iter.Next() {
		n, err := iter.Value().Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		ids = append(ids, graph.NodeID(n))
	}
	return ids, nil
}

// decodeEdgeList reads a CUE list of [from, to] int pairs.
func decodeEdgeList(v cue.Value) ([][2]graph.NodeID, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var edges [][2]graph.NodeID
	for iter.Next() {
		pair, err := decodeNodeList(iter.Value())
		if err != nil {
			return nil, err
		}
		if len(pair) != 2 {
			return nil, &CompileError{
				Field:   "graph.edges",
				Message: fmt.Sprintf("edge must be a [from, to] pair, got %d elements", len(pair)),
				Pos:     iter.Value().Pos(),
			}
		}
		edges = append(edges, [2]graph.NodeID{pair[0], pair[1]})
	}
	return edges, nil
}

// formatCUEError converts a CUE error into a CompileError carrying the
// first source position CUE reports.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &CompileError{Message: err.Error()}
	}
	first := errs[0]
	return &CompileError{
		Message: first.Error(),
		Pos:     first.Position(),
	}
}
