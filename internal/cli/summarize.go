package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/statehouse-labs/idealpoint/internal/draws"
	"github.com/statehouse-labs/idealpoint/internal/summary"
)

// SummarizeOptions holds flags for the summarize command.
type SummarizeOptions struct {
	*RootOptions
	DB    string
	Level float64 // 0 takes the level the run was configured with
}

// SummarizeResult is the success payload of a summarize.
type SummarizeResult struct {
	RunID     string             `json:"run_id"`
	Level     float64            `json:"level"`
	Estimates []summary.Estimate `json:"estimates"`
}

// NewSummarizeCommand creates the summarize command.
func NewSummarizeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SummarizeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "summarize <run-id>",
		Short: "Summarize a stored run's ideal points",
		Long: `Summarize the ideal-point draws of a stored run: posterior means
and central credible intervals per legislator, ordered most negative
first.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummarize(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "idealpoint.db", "draw store path")
	cmd.Flags().Float64Var(&opts.Level, "level", 0, "credible level (default: the run's configured level)")

	return cmd
}

func runSummarize(opts *SummarizeOptions, runID string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	ctx := cmd.Context()

	store, err := draws.Open(opts.DB)
	if err != nil {
		return outputValidateError(formatter, ErrCodeDatabase, err.Error())
	}
	defer store.Close()

	meta, err := store.ReadRun(ctx, runID)
	if errors.Is(err, draws.ErrRunNotFound) {
		return outputValidateError(formatter, ErrCodeNotFound, err.Error())
	}
	if err != nil {
		return outputValidateError(formatter, ErrCodeDatabase, err.Error())
	}

	var stored storedRun
	if err := json.Unmarshal([]byte(meta.Config), &stored); err != nil {
		return outputValidateError(formatter, ErrCodeDatabase,
			fmt.Sprintf("decoding run config: %v", err))
	}

	level := opts.Level
	if level == 0 {
		level = stored.Config.CredibleLevel
	}

	thetaDraws, err := store.ReadThetaDraws(ctx, runID, meta.NumLegislators)
	if err != nil {
		return outputValidateError(formatter, ErrCodeDatabase, err.Error())
	}
	formatter.VerboseLog("Pooled %d draws per legislator", len(thetaDraws[0]))

	estimates, err := summary.Summarize(thetaDraws, stored.Legislators, level)
	if err != nil {
		return outputValidateError(formatter, ErrCodeGeneric, err.Error())
	}

	result := SummarizeResult{RunID: runID, Level: level, Estimates: estimates}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "Run %s (%s, %.0f%% intervals)\n",
		meta.ID, meta.Variant, level*100)
	w := tabwriter.NewWriter(formatter.Writer, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tNAME\tPARTY\tMEAN\tLOWER\tUPPER")
	for _, e := range estimates {
		fmt.Fprintf(w, "%d\t%s\t%s\t%.3f\t%.3f\t%.3f\n",
			e.Rank, e.Name, e.Party, e.Mean, e.Lower, e.Upper)
	}
	return w.Flush()
}
