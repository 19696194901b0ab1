package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/claudiarawson/CECS-427-Network-Dynamic-Population-Model/internal/graph"
	"github.com/claudiarawson/CECS-427-Network-Dynamic-Population-Model/internal/sim"
)

// ErrRunNotFound is returned when a run id is not in the archive.
var ErrRunNotFound = errors.New("run not found")

// RunSummary is the run row without its per-day and per-node children.
type RunSummary struct {
	ID           string
	Name         string
	Mode         sim.Mode
	Days         int
	ResultDigest string
	CreatedAt    string
}

// ListRuns returns summaries of all archived runs in archival order
// (UUIDv7 ids sort by creation time).
func (s *Store) ListRuns(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, mode, lifespan, result_digest, created_at
		FROM runs
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		var mode string
		if err := rows.Scan(&r.ID, &r.Name, &mode, &r.Days, &r.ResultDigest, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("list runs: scan: %w", err)
		}
		r.Mode = sim.Mode(mode)
		out = append(out, r)
	}
	return out, rows.Err()
}

// ReadRun loads a full archived run: parameters, daily counts, and
// final states. Returns ErrRunNotFound for an unknown id.
func (s *Store) ReadRun(ctx context.Context, id string) (*ArchivedRun, error) {
	run := &ArchivedRun{ID: id}
	var mode, seeds string

	err := s.db.QueryRowContext(ctx, `
		SELECT name, mode, seeds, threshold, probability, lifespan, infectious_days, shelter, vaccination, random_seed, result_digest, created_at
		FROM runs WHERE id = ?
	`, id).Scan(
		&run.Name,
		&mode,
		&seeds,
		&run.Threshold,
		&run.Probability,
		&run.Lifespan,
		&run.InfectiousDays,
		&run.Shelter,
		&run.Vaccination,
		&run.RandomSeed,
		&run.ResultDigest,
		&run.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("read run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read run %s: %w", id, err)
	}

	run.Mode = sim.Mode(mode)
	if run.Seeds, err = parseSeeds(seeds); err != nil {
		return nil, fmt.Errorf("read run %s: %w", id, err)
	}

	if run.DailyNewCases, err = s.readDailyCounts(ctx, id); err != nil {
		return nil, err
	}
	if run.FinalStates, err = s.readFinalStates(ctx, id); err != nil {
		return nil, err
	}
	return run, nil
}

func (s *Store) readDailyCounts(ctx context.Context, id string) ([]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT new_cases FROM daily_counts WHERE run_id = ? ORDER BY day
	`, id)
	if err != nil {
		return nil, fmt.Errorf("read daily counts %s: %w", id, err)
	}
	defer rows.Close()

	var counts []int
	for rows.Next() {
		var c int
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("read daily counts %s: scan: %w", id, err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (s *Store) readFinalStates(ctx context.Context, id string) (map[graph.NodeID]sim.NodeState, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT node, state FROM final_states WHERE run_id = ? ORDER BY node
	`, id)
	if err != nil {
		return nil, fmt.Errorf("read final states %s: %w", id, err)
	}
	defer rows.Close()

	states := make(map[graph.NodeID]sim.NodeState)
	for rows.Next() {
		var node int
		var state string
		if err := rows.Scan(&node, &state); err != nil {
			return nil, fmt.Errorf("read final states %s: scan: %w", id, err)
		}
		states[graph.NodeID(node)] = sim.NodeState(state)
	}
	return states, rows.Err()
}
