package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/kitchen/internal/level"
)

// ValidationError is one problem found in a level.
type ValidationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
}

// LevelSummary describes a level that passed validation.
type LevelSummary struct {
	Name        string `json:"name"`
	Seed        uint64 `json:"seed"`
	Ingredients int    `json:"ingredients"`
	Recipes     int    `json:"recipes"`
	Appliances  int    `json:"appliances"`
	Actors      int    `json:"actors"`
	TickHz      int    `json:"tick_hz"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Level  *LevelSummary     `json:"level,omitempty"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <level>",
		Short: "Check a level file without running it",
		Long: `Check a CUE level (file or directory) against the level schema and
the semantic rules: known ingredients in recipes and crates, delivery
return targets, stock that fits its appliance, at least one recipe and
one actor. Every problem is reported, not just the first.

Exit codes:
  0 - Level is valid
  1 - Level has errors
  2 - Level path not found`,
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
	formatter := newFormatter(opts, cmd)

	lvl, errs := level.Load(path)
	if len(errs) > 0 {
		verrs := toValidationErrors(errs)
		if len(verrs) == 1 && verrs[0].Code == level.ErrCodeNotFound {
			_ = formatter.Error(verrs[0].Code, verrs[0].Message, nil)
			return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", verrs[0].Code, verrs[0].Message))
		}
		return outputValidationErrors(formatter, verrs)
	}

	formatter.VerboseLog("Level %s: %d recipes, %d appliances", lvl.Name, len(lvl.Recipes), len(lvl.Appliances))
	return outputValidateSuccess(formatter, summarizeLevel(lvl))
}

func summarizeLevel(lvl *level.Level) *LevelSummary {
	return &LevelSummary{
		Name:        lvl.Name,
		Seed:        lvl.Seed,
		Ingredients: len(lvl.Ingredients),
		Recipes:     len(lvl.Recipes),
		Appliances:  len(lvl.Appliances),
		Actors:      len(lvl.Actors),
		TickHz:      lvl.Engine.TickHz,
	}
}

func toValidationErrors(errs []error) []ValidationError {
	out := make([]ValidationError, 0, len(errs))
	for _, err := range errs {
		var loadErr *level.LoadError
		if !errors.As(err, &loadErr) {
			out = append(out, ValidationError{Code: level.ErrCodeGeneric, Message: err.Error()})
			continue
		}
		ve := ValidationError{Code: loadErr.Code, Message: loadErr.Message}
		if loadErr.Pos.IsValid() {
			ve.File = loadErr.Pos.Filename()
			ve.Line = loadErr.Pos.Line()
		}
		out = append(out, ve)
	}
	return out
}

func outputValidateSuccess(formatter *OutputFormatter, summary *LevelSummary) error {
	if formatter.JSON() {
		return formatter.Success(ValidationResult{Valid: true, Level: summary})
	}

	fmt.Fprintf(formatter.Writer, "✓ Level %q valid\n", summary.Name)
	fmt.Fprintf(formatter.Writer, "  %d ingredients, %d recipes, %d appliances, %d actors\n",
		summary.Ingredients, summary.Recipes, summary.Appliances, summary.Actors)
	return nil
}

func outputValidationErrors(formatter *OutputFormatter, errs []ValidationError) error {
	failure := NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))

	if formatter.JSON() {
		err := formatter.Encode(CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Errors: errs},
			Error:  &CLIError{Code: errs[0].Code, Message: errs[0].Message},
		})
		if err != nil {
			return err
		}
		return failure
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, e := range errs {
		if e.Line > 0 {
			fmt.Fprintf(formatter.Writer, "%s:%d\n", e.File, e.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", e.Code, e.Message)
	}
	return failure
}
