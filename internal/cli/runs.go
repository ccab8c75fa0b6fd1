package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/statehouse-labs/idealpoint/internal/draws"
)

// RunsOptions holds flags for the runs command.
type RunsOptions struct {
	*RootOptions
	DB string
}

// NewRunsCommand creates the runs command.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "runs",
		Short:         "List stored sampling runs",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "idealpoint.db", "draw store path")

	return cmd
}

func runRuns(opts *RunsOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	store, err := draws.Open(opts.DB)
	if err != nil {
		return outputValidateError(formatter, ErrCodeDatabase, err.Error())
	}
	defer store.Close()

	metas, err := store.ListRuns(cmd.Context())
	if err != nil {
		return outputValidateError(formatter, ErrCodeDatabase, err.Error())
	}

	if formatter.Format == "json" {
		return formatter.Success(metas)
	}

	if len(metas) == 0 {
		fmt.Fprintln(formatter.Writer, "No runs stored")
		return nil
	}
	w := tabwriter.NewWriter(formatter.Writer, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tVARIANT\tITEMS\tLEGISLATORS\tCHAINS\tITERATIONS\tSEED")
	for _, m := range metas {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%d\n",
			m.ID, m.Variant, m.NumItems, m.NumLegislators, m.Chains, m.Iterations, m.Seed)
	}
	return w.Flush()
}
