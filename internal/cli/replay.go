package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/claudiarawson/CECS-427-Network-Dynamic-Population-Model/internal/graph"
	"github.com/claudiarawson/CECS-427-Network-Dynamic-Population-Model/internal/scenario"
	"github.com/claudiarawson/CECS-427-Network-Dynamic-Population-Model/internal/sim"
	"github.com/claudiarawson/CECS-427-Network-Dynamic-Population-Model/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	Scenario string // scenario file supplying the contact network
	RunID    string // optional - replay a specific run only
}

// ReplayRunResult holds the replay verdict for a single archived run.
type ReplayRunResult struct {
	RunID         string `json:"run_id"`
	Name          string `json:"name"`
	Mode          string `json:"mode"`
	Days          int    `json:"days"`
	Deterministic bool   `json:"deterministic"`
	Mismatch      string `json:"mismatch,omitempty"`
}

// ReplayResult holds the overall replay verdict.
type ReplayResult struct {
	Runs             []ReplayRunResult `json:"runs"`
	TotalRuns        int               `json:"total_runs"`
	AllDeterministic bool              `json:"all_deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Re-execute archived runs and verify determinism",
		Long: `Re-execute archived simulation runs and verify determinism.

Each archived run's parameters are fed back through the simulation on
the scenario's contact network. The fresh result must reproduce the
archived daily counts and result digest exactly; any divergence means
the engine is no longer deterministic for that configuration.

Exit codes:
  0 - All runs reproduced exactly
  1 - At least one run diverged from its archive
  2 - Command error (database not found, etc.)

Examples:
  popsim replay --db ./runs.db --scenario ./scenarios/ring.cue
  popsim replay --db ./runs.db --scenario ./scenarios/ring.cue --run <id>
  popsim replay --db ./runs.db --scenario ./scenarios/ring.cue --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Scenario, "scenario", "", "scenario file providing the contact network (required)")
	_ = cmd.MarkFlagRequired("scenario")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "replay a specific run only")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	sc, err := scenario.LoadFile(opts.Scenario)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}
	g := sc.BuildGraph()

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	runIDs, err := selectRunIDs(ctx, st, opts.RunID)
	if err != nil {
		return err
	}

	result := ReplayResult{
		Runs:             make([]ReplayRunResult, 0, len(runIDs)),
		TotalRuns:        len(runIDs),
		AllDeterministic: true,
	}

	for _, id := range runIDs {
		runResult, err := replayRun(ctx, st, g, id)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay run %s", id), err)
		}
		result.Runs = append(result.Runs, runResult)
		if !runResult.Deterministic {
			result.AllDeterministic = false
		}
	}

	if opts.Format == "json" {
		return outputReplayJSON(cmd, result)
	}
	return outputReplayText(cmd, result, opts.Verbose)
}

// selectRunIDs resolves the run ids to replay: one explicit id, or every
// archived run.
func selectRunIDs(ctx context.Context, st *store.Store, runID string) ([]string, error) {
	if runID != "" {
		return []string{runID}, nil
	}

	summaries, err := st.ListRuns(ctx)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to list runs", err)
	}
	ids := make([]string, 0, len(summaries))
	for _, s := range summaries {
		ids = append(ids, s.ID)
	}
	return ids, nil
}

// replayRun re-executes one archived run and compares it to the archive.
func replayRun(ctx context.Context, st *store.Store, g *graph.Directed, id string) (ReplayRunResult, error) {
	archived, err := st.ReadRun(ctx, id)
	if err != nil {
		return ReplayRunResult{}, err
	}

	cfg := archived.Config()
	res, err := sim.Run(g, cfg)
	if err != nil {
		return ReplayRunResult{}, fmt.Errorf("re-execution rejected: %w", err)
	}

	verdict := ReplayRunResult{
		RunID:         id,
		Name:          archived.Name,
		Mode:          string(archived.Mode),
		Days:          archived.Lifespan,
		Deterministic: true,
	}

	if !slices.Equal(res.DailyNewCases, archived.DailyNewCases) {
		verdict.Deterministic = false
		verdict.Mismatch = fmt.Sprintf("daily counts diverged: archived %v, replayed %v", archived.DailyNewCases, res.DailyNewCases)
		return verdict, nil
	}

	if digest := sim.ResultDigest(cfg, res); digest != archived.ResultDigest {
		verdict.Deterministic = false
		verdict.Mismatch = fmt.Sprintf("result digest diverged: archived %s, replayed %s", archived.ResultDigest, digest)
	}

	return verdict, nil
}

// outputReplayJSON outputs the replay result as JSON.
func outputReplayJSON(cmd *cobra.Command, result ReplayResult) error {
	response := CLIResponse{
		Status: "ok",
		Data:   result,
	}

	if !result.AllDeterministic {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    ErrCodeDeterminism,
			Message: "determinism verification failed",
		}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(response); err != nil {
		return err
	}

	if !result.AllDeterministic {
		return NewExitError(ExitFailure, "determinism verification failed")
	}
	return nil
}

// outputReplayText outputs the replay result as text.
func outputReplayText(cmd *cobra.Command, result ReplayResult, verbose bool) error {
	w := cmd.OutOrStdout()

	if result.TotalRuns == 0 {
		fmt.Fprintln(w, "No runs found in database.")
		return nil
	}

	fmt.Fprintf(w, "Replay Summary: %d run(s)\n", result.TotalRuns)
	fmt.Fprintln(w)

	for _, run := range result.Runs {
		status := "✓"
		if !run.Deterministic {
			status = "✗"
		}

		fmt.Fprintf(w, "%s Run: %s\n", status, run.RunID)
		if verbose {
			fmt.Fprintf(w, "  Scenario: %s (%s, %d days)\n", run.Name, run.Mode, run.Days)
		}
		if run.Mismatch != "" {
			fmt.Fprintf(w, "  %s\n", run.Mismatch)
		}
		fmt.Fprintln(w)
	}

	if result.AllDeterministic {
		fmt.Fprintln(w, "✓ All runs reproduced exactly")
		return nil
	}

	fmt.Fprintln(w, "✗ Determinism verification failed")
	return NewExitError(ExitFailure, "determinism verification failed")
}
