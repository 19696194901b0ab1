package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/claudiarawson/CECS-427-Network-Dynamic-Population-Model/internal/scenario"
	"github.com/claudiarawson/CECS-427-Network-Dynamic-Population-Model/internal/sim"
)

// ValidationResult holds validation results for a scenario file.
type ValidationResult struct {
	Valid bool             `json:"valid"`
	Name  string           `json:"name,omitempty"`
	Error *ValidationError `json:"error,omitempty"`
}

// ValidationError describes one rejected scenario field.
type ValidationError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <scenario.cue>",
		Short: "Validate a scenario without running it",
		Long: `Validate a scenario file without executing the simulation.

Compiles the file against the embedded schema, then runs the same
pre-run checks the simulation driver applies: parameter ranges, a
non-empty contact network, and seed membership. Faster than run for
development feedback.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	sc, err := scenario.LoadFile(path)
	if err != nil {
		return outputValidationFailure(formatter, validationErrorFrom(err))
	}

	formatter.VerboseLog("Compiled scenario %q from %s", sc.Name, path)

	cfg := sc.Config()
	if err := cfg.Validate(); err != nil {
		return outputValidationFailure(formatter, validationErrorFrom(err))
	}

	g := sc.BuildGraph()
	if g.Len() == 0 {
		return outputValidationFailure(formatter, validationErrorFrom(sim.NewEmptyGraphError()))
	}
	if err := sim.ValidateSeeds(g, cfg.Seeds); err != nil {
		return outputValidationFailure(formatter, validationErrorFrom(err))
	}

	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Name: sc.Name})
	}
	fmt.Fprintf(formatter.Writer, "✓ Scenario %q is valid\n", sc.Name)
	return nil
}

// validationErrorFrom maps compile and config errors to the output shape.
func validationErrorFrom(err error) ValidationError {
	var compileErr *scenario.CompileError
	if errors.As(err, &compileErr) {
		ve := ValidationError{
			Field:   compileErr.Field,
			Message: compileErr.Message,
		}
		if compileErr.Pos.IsValid() {
			ve.Line = compileErr.Pos.Line()
		}
		return ve
	}

	var configErr *sim.ConfigError
	if errors.As(err, &configErr) {
		return ValidationError{
			Field:   configErr.Field,
			Message: configErr.Message,
		}
	}

	return ValidationError{Message: err.Error()}
}

// outputValidationFailure reports the failure and maps it to exit code 1.
func outputValidationFailure(formatter *OutputFormatter, ve ValidationError) error {
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Error: &ve},
			Error: &CLIError{
				Code:    ErrCodeScenario,
				Message: ve.Message,
			},
		}
		enc := json.NewEncoder(formatter.Writer)
		enc.SetIndent("", "  ")
		if err := enc.Encode(response); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed: %s", ve.Message))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	if ve.Line > 0 {
		fmt.Fprintf(formatter.Writer, "  line %d\n", ve.Line)
	}
	if ve.Field != "" {
		fmt.Fprintf(formatter.Writer, "  %s: %s\n", ve.Field, ve.Message)
	} else {
		fmt.Fprintf(formatter.Writer, "  %s\n", ve.Message)
	}
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed: %s", ve.Message))
}
