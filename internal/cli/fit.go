package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/statehouse-labs/idealpoint/internal/draws"
	"github.com/statehouse-labs/idealpoint/internal/model"
	"github.com/statehouse-labs/idealpoint/internal/sampler"
	"github.com/statehouse-labs/idealpoint/internal/votes"
)

// FitOptions holds flags for the fit command.
type FitOptions struct {
	*RootOptions
	DB   string // draw store path
	Init string // optional starting-value YAML
}

// FitResult is the success payload of a fit.
type FitResult struct {
	RunID          string    `json:"run_id"`
	Variant        string    `json:"variant"`
	NumItems       int       `json:"num_items"`
	NumLegislators int       `json:"num_legislators"`
	NumObs         int       `json:"num_obs"`
	Chains         int       `json:"chains"`
	Iterations     int       `json:"iterations"`
	Acceptance     []float64 `json:"acceptance"`
}

// storedRun is the JSON document kept in the run record's config
// column: the full fit configuration plus the legislator roster, so
// summarize can label draws from the database alone.
type storedRun struct {
	Config      FitConfig          `json:"config"`
	Legislators []votes.Legislator `json:"legislators"`
}

// NewFitCommand creates the fit command.
func NewFitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FitOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "fit <config.yaml> <votes.csv>",
		Short: "Fit an ideal-point model and store the draws",
		Long: `Fit the configured model to a roll-call vote table.

Binds the vote table, builds the model, samples the posterior, and
writes the draws and pointwise log likelihoods to the draw store.
Prints the run ID on success.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFit(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "idealpoint.db", "draw store path")
	cmd.Flags().StringVar(&opts.Init, "init", "", "starting-value YAML file")

	return cmd
}

func runFit(opts *FitOptions, configPath, votesPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	ctx := cmd.Context()

	cfg, err := LoadFitConfig(configPath)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			return outputValidateError(formatter, loadErr.Code, loadErr.Message)
		}
		return outputValidateError(formatter, ErrCodeGeneric, err.Error())
	}

	f, err := os.Open(votesPath)
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

	m, err := model.New(spec, binding.Dataset())
	if err != nil {
		var verrs model.ValidationErrors
		if errors.As(err, &verrs) {
			return outputValidationErrors(formatter, verrs)
		}
		return outputValidateError(formatter, ErrCodeModel, err.Error())
	}

	init, err := initialVector(m, binding, opts.Init)
	if err != nil {
		return outputValidateError(formatter, ErrCodeModel, err.Error())
	}

	samplerCfg := sampler.Config{
		Chains:     cfg.Sampler.Chains,
		Iterations: cfg.Sampler.Iterations,
		Warmup:     cfg.Sampler.Warmup,
		StepSize:   cfg.Sampler.StepSize,
		Seed:       cfg.Sampler.Seed,
	}
	formatter.VerboseLog("Sampling %d chains x %d iterations (warmup %d, dim %d)",
		samplerCfg.Chains, samplerCfg.Iterations, samplerCfg.Warmup, m.Dim())

	result, err := sampler.Run(ctx, m.LogPosterior, init, samplerCfg)
	if err != nil {
		return outputValidateError(formatter, ErrCodeSampling, err.Error())
	}

	runID := uuid.NewString()
	if err := storeRun(ctx, opts.DB, runID, cfg, binding, m, result); err != nil {
		return outputValidateError(formatter, ErrCodeDatabase, err.Error())
	}

	fit := FitResult{
		RunID:          runID,
		Variant:        string(spec.Variant),
		NumItems:       spec.NumItems,
		NumLegislators: spec.NumLegislators,
		NumObs:         len(binding.Vote),
		Chains:         samplerCfg.Chains,
		Iterations:     samplerCfg.Iterations,
	}
	for i := range result.Chains {
		fit.Acceptance = append(fit.Acceptance, result.Chains[i].AcceptanceRate())
	}

	if formatter.Format == "json" {
		return formatter.Success(fit)
	}
	fmt.Fprintf(formatter.Writer, "Run %s\n", fit.RunID)
	fmt.Fprintf(formatter.Writer, "  %s model, %d items x %d legislators, %d observations\n",
		fit.Variant, fit.NumItems, fit.NumLegislators, fit.NumObs)
	for i, rate := range fit.Acceptance {
		fmt.Fprintf(formatter.Writer, "  chain %d acceptance %.3f\n", i, rate)
	}
	return nil
}

// buildSpec constructs the model spec for the configured variant.
func buildSpec(cfg *FitConfig, b *votes.Binding) (*model.Spec, error) {
	alpha := priorSpec(cfg.Priors.Difficulty)
	lambda := priorSpec(cfg.Priors.Discrimination)
	theta := priorSpec(cfg.Priors.IdealPoint)

	numItems := len(b.RollCalls)
	numLegislators := len(b.Legislators)

	switch model.Variant(cfg.Model) {
	case model.VariantUnidentified:
		return model.NewUnidentified(numItems, numLegislators, alpha, lambda, theta), nil

	case model.VariantFixedReference:
		if len(b.Anchors.Indices) == 0 {
			return nil, fmt.Errorf("fixed_reference model requires anchors in the configuration")
		}
		return model.NewFixedReference(numItems, numLegislators, alpha, lambda, theta, b.Anchors), nil

	case model.VariantInformative:
		av, lv, tv := informativePriors(cfg, b)
		return model.NewInformative(numItems, numLegislators, av, lv, tv), nil

	default:
		return nil, fmt.Errorf("unknown model %q", cfg.Model)
	}
}

func priorSpec(p PriorConfig) model.PriorSpec {
	return model.PriorSpec{Loc: p.Loc, Scale: p.Scale, Skew: p.Skew}
}

// informativePriors derives per-index prior vectors from the bound
// data: difficulty priors centered at each item's empirical log odds,
// discrimination skew signed by party-line direction, and ideal-point
// priors centered at the party-seeded starting values.
func informativePriors(cfg *FitConfig, b *votes.Binding) (alpha, lambda, theta model.VectorPrior) {
	numItems := len(b.RollCalls)
	numLegislators := len(b.Legislators)

	alpha = model.VectorPrior{
		Loc:   make([]float64, numItems),
		Scale: make([]float64, numItems),
	}
	for k := 0; k < numItems; k++ {
		alpha.Loc[k] = clampedLogit(b.RollCalls[k].Yea, b.RollCalls[k].Nay)
		alpha.Scale[k] = cfg.Priors.Difficulty.Scale
	}

	lambda = model.VectorPrior{
		Loc:   make([]float64, numItems),
		Scale: make([]float64, numItems),
		Skew:  make([]float64, numItems),
	}
	for k := 0; k < numItems; k++ {
		lambda.Loc[k] = cfg.Priors.Discrimination.Loc
		lambda.Scale[k] = cfg.Priors.Discrimination.Scale
		// Party-line items get a direction hint through the skew; the
		// rest keep the configured shape.
		if sign := b.RollCalls[k].SignSeed; sign != 0 {
			lambda.Skew[k] = 2 * sign
		} else {
			lambda.Skew[k] = cfg.Priors.Discrimination.Skew
		}
	}

	theta = model.VectorPrior{
		Loc:   make([]float64, numLegislators),
		Scale: make([]float64, numLegislators),
	}
	for j := 0; j < numLegislators; j++ {
		theta.Loc[j] = b.ThetaInit[j]
		theta.Scale[j] = cfg.Priors.IdealPoint.Scale
	}
	return alpha, lambda, theta
}

// clampedLogit is the empirical log odds of a yea, clamped so lopsided
// items do not push the center to infinity.
func clampedLogit(yea, nay int) float64 {
	const bound = 3.0
	if yea == 0 {
		return -bound
	}
	if nay == 0 {
		return bound
	}
	l := math.Log(float64(yea) / float64(nay))
	return math.Max(-bound, math.Min(bound, l))
}

// InitValues is the optional starting-value file: full-length vectors
// in model order, all fields optional.
type InitValues struct {
	Alpha  []float64 `yaml:"alpha"`
	Lambda []float64 `yaml:"lambda"`
	Theta  []float64 `yaml:"theta"`
}

// initialVector builds the flat starting point for the sampler from
// the binding's seeds, with any vectors from the starting-value file
// overriding them. Anchored ideal points are dropped by the pack.
func initialVector(m *model.Model, b *votes.Binding, initPath string) ([]float64, error) {
	p := b.InitialParams()

	if initPath != "" {
		data, err := os.ReadFile(initPath)
		if err != nil {
			return nil, fmt.Errorf("init file: %w", err)
		}
		var iv InitValues
		if err := yaml.Unmarshal(data, &iv); err != nil {
			return nil, fmt.Errorf("init file: %w", err)
		}
		if iv.Alpha != nil {
			if len(iv.Alpha) != len(p.Alpha) {
				return nil, fmt.Errorf("init file: alpha has %d values, want %d", len(iv.Alpha), len(p.Alpha))
			}
			p.Alpha = iv.Alpha
		}
		if iv.Lambda != nil {
			if len(iv.Lambda) != len(p.Lambda) {
				return nil, fmt.Errorf("init file: lambda has %d values, want %d", len(iv.Lambda), len(p.Lambda))
			}
			p.Lambda = iv.Lambda
		}
		if iv.Theta != nil {
			if len(iv.Theta) != len(p.Theta) {
				return nil, fmt.Errorf("init file: theta has %d values, want %d", len(iv.Theta), len(p.Theta))
			}
			p.Theta = iv.Theta
		}
	}

	return m.Space().Pack(p), nil
}

// storeRun writes the run record and every chain's expanded draws and
// pointwise log likelihoods. Draws are stored with anchored ideal
// points spliced back in, so readers see full parameter vectors
// regardless of variant.
func storeRun(ctx context.Context, dbPath, runID string, cfg *FitConfig, b *votes.Binding, m *model.Model, result *sampler.Result) error {
	store, err := draws.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	doc, err := json.Marshal(storedRun{Config: *cfg, Legislators: b.Legislators})
	if err != nil {
		return fmt.Errorf("encoding run config: %w", err)
	}

	spec := m.Spec()
	meta := draws.RunMeta{
		ID:             runID,
		Variant:        string(spec.Variant),
		NumItems:       spec.NumItems,
		NumLegislators: spec.NumLegislators,
		Chains:         len(result.Chains),
		Iterations:     cfg.Sampler.Iterations,
		Seed:           cfg.Sampler.Seed,
		Config:         string(doc),
	}
	if err := store.WriteRun(ctx, meta); err != nil {
		return err
	}

	// Expanded layout: every theta, anchored ones included.
	allTheta := make([]int, spec.NumLegislators)
	for j := range allTheta {
		allTheta[j] = j
	}
	names := draws.ParamNames(spec.NumItems, allTheta)

	space := m.Space()
	for c := range result.Chains {
		chain := &result.Chains[c]
		expanded := make([][]float64, len(chain.Draws))
		loglik := make([][]float64, len(chain.Draws))
		for it, x := range chain.Draws {
			p := space.Unpack(x)
			row := make([]float64, 0, len(names))
			row = append(row, p.Alpha...)
			row = append(row, p.Lambda...)
			row = append(row, p.Theta...)
			expanded[it] = row
			loglik[it] = m.PointwiseLogLik(x)
		}
		if err := store.WriteChain(ctx, runID, c, names, expanded, loglik); err != nil {
			return err
		}
	}
	return nil
}
