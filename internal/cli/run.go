package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/claudiarawson/CECS-427-Network-Dynamic-Population-Model/internal/scenario"
	"github.com/claudiarawson/CECS-427-Network-Dynamic-Population-Model/internal/sim"
	"github.com/claudiarawson/CECS-427-Network-Dynamic-Population-Model/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string

	// IDGenerator allows overriding the run id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	IDGenerator store.RunIDGenerator
}

// RunReport is the run command's output payload.
type RunReport struct {
	RunID         string         `json:"run_id,omitempty"`
	Name          string         `json:"name"`
	Mode          string         `json:"mode"`
	Days          int            `json:"days"`
	DailyNewCases []int          `json:"daily_new_cases"`
	TotalNewCases int            `json:"total_new_cases"`
	FinalTallies  map[string]int `json:"final_tallies"`
	ResultDigest  string         `json:"result_digest"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scenario.cue>",
		Short: "Execute a simulation scenario",
		Long: `Execute a simulation scenario and report daily new-case counts.

The scenario file is compiled against the embedded schema, the contact
network is built from its inline edge list, and the configured spread
process runs for the scenario's lifespan. With --db the run is archived
to SQLite so it can later be replayed or traced.

Examples:
  popsim run ./scenarios/ring.cue
  popsim run ./scenarios/ring.cue --db ./runs.db
  popsim run ./scenarios/outbreak.cue --format json --verbose`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "archive the run to this SQLite database")

	return cmd
}

func runScenario(opts *RunOptions, path string, cmd *cobra.Command) error {
	configureLogging(opts.Verbose)

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	sc, err := scenario.LoadFile(path)
	if err != nil {
		_ = formatter.Error(ErrCodeScenario, err.Error(), nil)
		return WrapExitError(ExitFailure, "scenario failed to compile", err)
	}

	cfg := sc.Config()
	g := sc.BuildGraph()

	formatter.VerboseLog("Scenario %s: %d nodes, %d seeds, %d days", cfg.Name, g.Len(), len(cfg.Seeds), cfg.Lifespan)

	var obs sim.Option
	if opts.Verbose && opts.Format == "text" {
		w := formatter.ErrWriter
		obs = sim.WithObserver(sim.ObserverFunc(func(day, newCases int, pop *sim.Population) {
			fmt.Fprintf(w, "day %d: %d new case(s), %d infected\n", day, newCases, pop.CountInState(sim.Infected))
		}))
	}

	var res *sim.Result
	if obs != nil {
		res, err = sim.Run(g, cfg, obs)
	} else {
		res, err = sim.Run(g, cfg)
	}
	if err != nil {
		_ = formatter.Error(ErrCodeConfig, err.Error(), nil)
		return WrapExitError(ExitFailure, "simulation rejected", err)
	}

	report := buildRunReport(cfg, res)

	if opts.Database != "" {
		runID, err := archiveRun(cmd.Context(), opts, cfg, res)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to archive run", err)
		}
		report.RunID = runID
	}

	if opts.Format == "json" {
		return formatter.Success(report)
	}
	return outputRunText(formatter, report)
}

// buildRunReport summarizes a completed run for output.
func buildRunReport(cfg sim.Config, res *sim.Result) RunReport {
	tallies := make(map[string]int)
	for _, state := range []sim.NodeState{sim.Susceptible, sim.Infected, sim.Recovered, sim.Vaccinated} {
		if n := res.CountInState(state); n > 0 {
			tallies[string(state)] = n
		}
	}

	return RunReport{
		Name:          cfg.Name,
		Mode:          string(cfg.Mode),
		Days:          cfg.Lifespan,
		DailyNewCases: res.DailyNewCases,
		TotalNewCases: res.TotalNewCases(),
		FinalTallies:  tallies,
		ResultDigest:  sim.ResultDigest(cfg, res),
	}
}

// archiveRun writes the run to the SQLite archive and returns its id.
func archiveRun(ctx context.Context, opts *RunOptions, cfg sim.Config, res *sim.Result) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	gen := opts.IDGenerator
	if gen == nil {
		gen = store.UUIDv7Generator{}
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return "", err
	}
	defer st.Close()

	runID := gen.Generate()
	if err := st.WriteRun(ctx, store.NewArchivedRun(runID, cfg, res)); err != nil {
		return "", err
	}

	slog.Info("run archived", "run_id", runID, "db", opts.Database)
	return runID, nil
}

// outputRunText renders the run report as human-readable text.
func outputRunText(formatter *OutputFormatter, report RunReport) error {
	w := formatter.Writer

	fmt.Fprintf(w, "Scenario: %s (%s, %d days)\n", report.Name, report.Mode, report.Days)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Daily new cases:")
	for day, count := range report.DailyNewCases {
		fmt.Fprintf(w, "  day %d: %d\n", day, count)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Total new cases: %d\n", report.TotalNewCases)
	fmt.Fprintf(w, "Final states: %s\n", formatTallies(report.FinalTallies))
	if report.RunID != "" {
		fmt.Fprintf(w, "Archived as: %s\n", report.RunID)
	}
	if formatter.Verbose {
		fmt.Fprintf(w, "Digest: %s\n", report.ResultDigest)
	}
	return nil
}

// formatTallies renders state counts in a fixed S, I, R, V order.
func formatTallies(tallies map[string]int) string {
	var parts []string
	for _, state := range []string{"S", "I", "R", "V"} {
		if n, ok := tallies[state]; ok {
			parts = append(parts, fmt.Sprintf("%s=%d", state, n))
		}
	}
	if len(parts) == 0 {
		return "(none)"
	}
	return strings.Join(parts, " ")
}

// configureLogging sets the process-wide slog handler from the verbose flag.
func configureLogging(verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}
