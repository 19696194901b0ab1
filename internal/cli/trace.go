package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/claudiarawson/CECS-427-Network-Dynamic-Population-Model/internal/sim"
	"github.com/claudiarawson/CECS-427-Network-Dynamic-Population-Model/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	RunID    string
	State    string // optional - filter final states to one state
}

// TraceDay represents one day in the trace timeline.
type TraceDay struct {
	Day      int `json:"day"`
	NewCases int `json:"new_cases"`
}

// TraceResult holds the complete trace output for one archived run.
type TraceResult struct {
	RunID       string           `json:"run_id"`
	Name        string           `json:"name"`
	Mode        string           `json:"mode"`
	Timeline    []TraceDay       `json:"timeline"`
	FinalStates map[string][]int `json:"final_states"`
	Stats       TraceStats       `json:"stats"`
}

// TraceStats holds summary statistics for the run.
type TraceStats struct {
	Days          int    `json:"days"`
	TotalNewCases int    `json:"total_new_cases"`
	Nodes         int    `json:"nodes"`
	PeakDay       int    `json:"peak_day"`
	PeakNewCases  int    `json:"peak_new_cases"`
	ResultDigest  string `json:"result_digest"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Inspect an archived run",
		Long: `Inspect an archived simulation run.

Shows the day-by-day new-case timeline, the final state of every node
grouped by state, and summary statistics including the peak day.

Examples:
  popsim trace --db ./runs.db --run <id>
  popsim trace --db ./runs.db --run <id> --state I
  popsim trace --db ./runs.db --run <id> --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "run id to trace (required)")
	_ = cmd.MarkFlagRequired("run")
	cmd.Flags().StringVar(&opts.State, "state", "", "filter final states to one state (S|I|R|V)")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if opts.State != "" && !sim.NodeState(opts.State).Valid() {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid state filter %q: must be one of S, I, R, V", opts.State))
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	run, err := st.ReadRun(ctx, opts.RunID)
	if err != nil {
		if errors.Is(err, store.ErrRunNotFound) {
			return WrapExitError(ExitCommandError, fmt.Sprintf("run %s not found", opts.RunID), err)
		}
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}

	result := buildTraceResult(run, opts.State)

	if opts.Format == "json" {
		return outputTraceJSON(cmd, result)
	}
	return outputTraceText(cmd, result, opts.Verbose)
}

// buildTraceResult assembles the trace payload from an archived run.
// When stateFilter is set, only final states matching it are included.
func buildTraceResult(run *store.ArchivedRun, stateFilter string) TraceResult {
	timeline := make([]TraceDay, len(run.DailyNewCases))
	total := 0
	peakDay, peakCases := 0, 0
	for day, count := range run.DailyNewCases {
		timeline[day] = TraceDay{Day: day, NewCases: count}
		total += count
		if count > peakCases {
			peakDay, peakCases = day, count
		}
	}

	finalStates := make(map[string][]int)
	for node, state := range run.FinalStates {
		if stateFilter != "" && string(state) != stateFilter {
			continue
		}
		finalStates[string(state)] = append(finalStates[string(state)], int(node))
	}
	for _, nodes := range finalStates {
		sort.Ints(nodes)
	}

	return TraceResult{
		RunID:       run.ID,
		Name:        run.Name,
		Mode:        string(run.Mode),
		Timeline:    timeline,
		FinalStates: finalStates,
		Stats: TraceStats{
			Days:          len(run.DailyNewCases),
			TotalNewCases: total,
			Nodes:         len(run.FinalStates),
			PeakDay:       peakDay,
			PeakNewCases:  peakCases,
			ResultDigest:  run.ResultDigest,
		},
	}
}

// outputTraceJSON outputs the trace result as JSON.
func outputTraceJSON(cmd *cobra.Command, result TraceResult) error {
	response := CLIResponse{
		Status: "ok",
		Data:   result,
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(response)
}

// outputTraceText outputs the trace result as text.
func outputTraceText(cmd *cobra.Command, result TraceResult, verbose bool) error {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Trace for Run: %s\n", result.RunID)
	fmt.Fprintf(w, "Scenario: %s (%s)\n", result.Name, result.Mode)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Timeline ===")
	if len(result.Timeline) == 0 {
		fmt.Fprintln(w, "  (no days)")
	} else {
		for _, day := range result.Timeline {
			fmt.Fprintf(w, "  day %d: %d new case(s)\n", day.Day, day.NewCases)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Final States ===")
	if len(result.FinalStates) == 0 {
		fmt.Fprintln(w, "  (none)")
	} else {
		for _, state := range []string{"S", "I", "R", "V"} {
			nodes, ok := result.FinalStates[state]
			if !ok {
				continue
			}
			fmt.Fprintf(w, "  %s: %s\n", state, formatNodeList(nodes))
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Stats ===")
	fmt.Fprintf(w, "  Days:            %d\n", result.Stats.Days)
	fmt.Fprintf(w, "  Total New Cases: %d\n", result.Stats.TotalNewCases)
	fmt.Fprintf(w, "  Nodes:           %d\n", result.Stats.Nodes)
	fmt.Fprintf(w, "  Peak Day:        %d (%d new cases)\n", result.Stats.PeakDay, result.Stats.PeakNewCases)
	if verbose {
		fmt.Fprintf(w, "  Digest:          %s\n", result.Stats.ResultDigest)
	}

	return nil
}

// formatNodeList renders node ids as a comma-separated list.
func formatNodeList(nodes []int) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = fmt.Sprintf("%d", n)
	}
	return strings.Join(parts, ", ")
}
