package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/hexleg/internal/robot"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool                    `json:"valid"`
	Robot  string                  `json:"robot,omitempty"`
	Legs   []string                `json:"legs,omitempty"`
	Errors []robot.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <robot-dir>",
		Short: "Validate a CUE robot description",
		Long: `Validate a CUE robot description without solving anything.

Checks that the description compiles, that every link length is positive,
that every joint range is finite with min <= max, and that leg names are
unique after NFC normalization.

Exit codes:
  0 - Description valid
  1 - Validation failed
  2 - Command error (directory not found, no CUE files, CUE syntax)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, dir string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)

	r, errs := robot.LoadDir(dir)
	if r == nil {
		var loadErr *robot.LoadError
		if len(errs) > 0 && errors.As(errs[0], &loadErr) {
			return report(f, loadErr.Code, NewExitError(ExitCommandError, loadErr.Error()))
		}
		return report(f, robot.ErrCodeGeneric, NewExitError(ExitCommandError, fmt.Sprint(errs)))
	}
	f.VerboseLog("Compiled robot %q with %d leg(s)", r.Name, len(r.Legs))

	var validationErrors []robot.ValidationError
	for _, err := range errs {
		var ve robot.ValidationError
		if errors.As(err, &ve) {
			validationErrors = append(validationErrors, ve)
		}
	}

	if len(validationErrors) > 0 {
		return outputValidationErrors(f, validationErrors)
	}

	result := ValidationResult{Valid: true, Robot: r.Name, Legs: r.Names()}
	if f.JSON() {
		return f.Success(result)
	}
	fmt.Fprintf(f.Writer, "✓ Robot %s valid (%d legs)\n", r.Name, len(r.Legs))
	return nil
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(f *OutputFormatter, errs []robot.ValidationError) error {
	exitErr := NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))

	if f.JSON() {
		if err := f.Failure(errs[0].Code, errs[0].Message, ValidationResult{Valid: false, Errors: errs}); err != nil {
			return err
		}
		return exitErr
	}

	fmt.Fprintln(f.Writer, "✗ Validation failed")
	fmt.Fprintln(f.Writer)
	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(f.Writer, "line %d\n", err.Line)
		}
		fmt.Fprintf(f.Writer, "  %s: %s: %s\n\n", err.Code, err.Field, err.Message)
	}
	return exitErr
}
