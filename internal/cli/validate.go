package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/statehouse-labs/idealpoint/internal/model"
	"github.com/statehouse-labs/idealpoint/internal/votes"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool                    `json:"valid"`
	Errors []model.ValidationError `json:"errors,omitempty"`
}

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Votes string // optional vote table to bind and check
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <config.yaml>",
		Short: "Validate a fit configuration without sampling",
		Long: `Validate a YAML fit configuration against the schema.

With --votes, also binds the vote table and validates the resulting
model spec and dataset, so every fail-fast check runs without invoking
the sampler.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Votes, "votes", "", "vote table (CSV) to bind and check")

	return cmd
}

func runValidate(opts *ValidateOptions, configPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	cfg, err := LoadFitConfig(configPath)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			return outputValidateError(formatter, loadErr.Code, loadErr.Message)
		}
		return outputValidateError(formatter, ErrCodeGeneric, err.Error())
	}

	formatter.VerboseLog("Config %s: model=%s chains=%d", configPath, cfg.Model, cfg.Sampler.Chains)

	if opts.Votes == "" {
		return outputValidateSuccess(formatter)
	}

	// Bind the vote table and run every model-level check.
	f, err := os.Open(opts.Votes)
	if err != nil {
		return outputValidateError(formatter, ErrCodeNotFound, fmt.Sprintf("votes file: %v", err))
	}
	defer f.Close()

	records, err := votes.ReadCSV(f)
	if err != nil {
		return outputValidateError(formatter, ErrCodeParse, err.Error())
	}

	binding, err := votes.Build(records, cfg.BuildOptions())
	if err != nil {
		return outputValidateError(formatter, ErrCodeBinding, err.Error())
	}

	formatter.VerboseLog("Bound %d legislators, %d roll calls, %d observations",
		len(binding.Legislators), len(binding.RollCalls), len(binding.Vote))

	spec, err := buildSpec(cfg, binding)
	if err != nil {
		return outputValidateError(formatter, ErrCodeModel, err.Error())
	}

	var verrs []model.ValidationError
	verrs = append(verrs, spec.Validate()...)
	verrs = append(verrs, binding.Dataset().Validate()...)
	if len(verrs) > 0 {
		return outputValidationErrors(formatter, verrs)
	}

	return outputValidateSuccess(formatter)
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter) error {
	if formatter.Format == "json" {
		result := ValidationResult{Valid: true}
		return formatter.Success(result)
	}

	fmt.Fprintln(formatter.Writer, "✓ Configuration valid")
	return nil
}

// outputValidateError outputs a single validation error.
func outputValidateError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	// Validation errors are command-level errors (exit code 2)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputValidationErrors outputs multiple model validation errors.
func outputValidationErrors(formatter *OutputFormatter, errs []model.ValidationError) error {
	if formatter.Format == "json" {
		result := ValidationResult{Valid: false, Errors: errs}
		_ = formatter.Success(result) // envelope carries valid=false
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, err := range errs {
		fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n", err.Code, err.Field, err.Message)
	}

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
