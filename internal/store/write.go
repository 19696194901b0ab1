package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/claudiarawson/CECS-427-Network-Dynamic-Population-Model/internal/graph"
	"github.com/claudiarawson/CECS-427-Network-Dynamic-Population-Model/internal/sim"
)

// ArchivedRun is one run's parameter record plus its results, as stored
// in (or read from) the archive.
type ArchivedRun struct {
	ID             string
	Name           string
	Mode           sim.Mode
	Seeds          []graph.NodeID
	Threshold      float64
	Probability    float64
	Lifespan       int
	InfectiousDays int
	Shelter        float64
	Vaccination    float64
	RandomSeed     int64
	ResultDigest   string
	CreatedAt      string

	DailyNewCases []int
	FinalStates   map[graph.NodeID]sim.NodeState
}

// NewArchivedRun packages a completed run for archival. The infectious
// duration is stored resolved, so replay does not depend on the
// lifespan fallback rule.
func NewArchivedRun(id string, cfg sim.Config, res *sim.Result) ArchivedRun {
	return ArchivedRun{
		ID:             id,
		Name:           cfg.Name,
		Mode:           cfg.Mode,
		Seeds:          cfg.Seeds,
		Threshold:      cfg.Threshold,
		Probability:    cfg.InfectionProbability,
		Lifespan:       cfg.Lifespan,
		InfectiousDays: cfg.InfectiousDuration(),
		Shelter:        cfg.ShelterProportion,
		Vaccination:    cfg.VaccinationProportion,
		RandomSeed:     cfg.RandomSeed,
		ResultDigest:   sim.ResultDigest(cfg, res),
		DailyNewCases:  res.DailyNewCases,
		FinalStates:    res.FinalStates,
	}
}

// Config reconstructs the simulation config that produced this run.
// Used by replay to re-execute the run from scratch.
func (r ArchivedRun) Config() sim.Config {
	return sim.Config{
		Name:                  r.Name,
		Mode:                  r.Mode,
		Seeds:                 r.Seeds,
		Threshold:             r.Threshold,
		InfectionProbability:  r.Probability,
		Lifespan:              r.Lifespan,
		InfectiousDays:        r.InfectiousDays,
		ShelterProportion:     r.Shelter,
		VaccinationProportion: r.Vaccination,
		RandomSeed:            r.RandomSeed,
	}
}

// WriteRun archives a run atomically: the run row, every daily count,
// and every final state land in one transaction. Re-archiving an
// existing run id is a silent no-op (ON CONFLICT DO NOTHING).
func (s *Store) WriteRun(ctx context.Context, run ArchivedRun) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write run %s: begin: %w", run.ID, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, name, mode, seeds, threshold, probability, lifespan, infectious_days, shelter, vaccination, random_seed, result_digest)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.Name,
		string(run.Mode),
		marshalSeeds(run.Seeds),
		run.Threshold,
		run.Probability,
		run.Lifespan,
		run.InfectiousDays,
		run.Shelter,
		run.Vaccination,
		run.RandomSeed,
		run.ResultDigest,
	)
	if err != nil {
		return fmt.Errorf("write run %s: %w", run.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Already archived; skip children to keep the write idempotent.
		return tx.Commit()
	}

	for day, count := range run.DailyNewCases {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO daily_counts (run_id, day, new_cases)
			VALUES (?, ?, ?)
			ON CONFLICT DO NOTHING
		`, run.ID, day, count); err != nil {
			return fmt.Errorf("write run %s: day %d: %w", run.ID, day, err)
		}
	}

	for node, state := range run.FinalStates {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO final_states (run_id, node, state)
			VALUES (?, ?, ?)
			ON CONFLICT DO NOTHING
		`, run.ID, int(node), string(state)); err != nil {
			return fmt.Errorf("write run %s: node %d: %w", run.ID, node, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write run %s: commit: %w", run.ID, err)
	}
	return nil
}

// marshalSeeds serializes seed ids as a comma-separated list.
func marshalSeeds(seeds []graph.NodeID) string {
	parts := make([]string, len(seeds))
	for i, s := range seeds {
		parts[i] = strconv.Itoa(int(s))
	}
	return strings.Join(parts, ",")
}

// parseSeeds is the inverse of marshalSeeds.
func parseSeeds(raw string) ([]graph.NodeID, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	seeds := make([]graph.NodeID, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("parse seeds %q: %w", raw, err)
		}
		seeds[i] = graph.NodeID(n)
	}
	return seeds, nil
}
