package sampler

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
)

// LogDensity is the model-to-sampler contract: an unnormalized log
// posterior density. It must be deterministic and side-effect free, and
// must return math.Inf(-1) rather than fault for invalid states.
type LogDensity func(x []float64) float64

// Defaults applied by Config.withDefaults.
const (
	DefaultChains     = 4
	DefaultIterations = 1000
	DefaultWarmup     = 1000
	DefaultStepSize   = 0.1

	// targetAcceptance is the acceptance rate the warmup adaptation
	// steers toward, the usual optimum for random-walk Metropolis.
	targetAcceptance = 0.234

	// adaptWindow is the number of warmup iterations between step-size
	// adjustments.
	adaptWindow = 50
)

// Config controls a sampling run. Zero values take the package
// defaults.
type Config struct {
	Chains     int
	Iterations int // kept draws per chain, after warmup
	Warmup     int // adaptation draws per chain, discarded
	StepSize   float64
	Seed       int64
}

func (c Config) withDefaults() Config {
	if c.Chains == 0 {
		c.Chains = DefaultChains
	}
	if c.Iterations == 0 {
		c.Iterations = DefaultIterations
	}
	if c.Warmup == 0 {
		c.Warmup = DefaultWarmup
	}
	if c.StepSize == 0 {
		c.StepSize = DefaultStepSize
	}
	return c
}

func (c Config) validate() error {
	if c.Chains < 1 {
		return fmt.Errorf("sampler: chains must be >= 1, got %d", c.Chains)
	}
	if c.Iterations < 1 {
		return fmt.Errorf("sampler: iterations must be >= 1, got %d", c.Iterations)
	}
	if c.Warmup < 0 {
		return fmt.Errorf("sampler: warmup must be >= 0, got %d", c.Warmup)
	}
	if !(c.StepSize > 0) {
		return fmt.Errorf("sampler: step size must be > 0, got %v", c.StepSize)
	}
	return nil
}

// Chain holds the kept draws of one chain plus acceptance accounting.
type Chain struct {
	Draws    [][]float64 // Iterations x dim, post-warmup
	Accepted int
	Proposed int
}

// AcceptanceRate returns the post-warmup acceptance fraction.
func (c *Chain) AcceptanceRate() float64 {
	if c.Proposed == 0 {
		return 0
	}
	return float64(c.Accepted) / float64(c.Proposed)
}

// Result aggregates all chains of one run.
type Result struct {
	Chains []Chain
	Dim    int
}

// Run samples the target from init. Chains execute concurrently, each
// with an independent RNG seeded from cfg.Seed and its own copy of
// init; results are deterministic for a given (target, init, cfg).
//
// Returns an error if the configuration is invalid, the initial point
// has zero density, or ctx is cancelled before sampling finishes.
func Run(ctx context.Context, target LogDensity, init []float64, cfg Config) (*Result, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if len(init) == 0 {
		return nil, fmt.Errorf("sampler: empty initial point")
	}
	if lp := target(init); math.IsInf(lp, -1) || math.IsNaN(lp) {
		return nil, fmt.Errorf("sampler: initial point has zero posterior density")
	}

	res := &Result{
		Chains: make([]Chain, cfg.Chains),
		Dim:    len(init),
	}

	var wg sync.WaitGroup
	errs := make([]error, cfg.Chains)
	for c := 0; c < cfg.Chains; c++ {
		wg.Add(1)
		go func(c int) {
			defer wg.Done()
			chain, err := runChain(ctx, target, init, cfg, cfg.Seed+int64(c))
			if err != nil {
				errs[c] = err
				return
			}
			res.Chains[c] = *chain
		}(c)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

// runChain executes one chain: warmup with step adaptation, then the
// kept iterations.
func runChain(ctx context.Context, target LogDensity, init []float64, cfg Config, seed int64) (*Chain, error) {
	rng := rand.New(rand.NewSource(seed))
	dim := len(init)

	x := append([]float64(nil), init...)
	lp := target(x)
	step := cfg.StepSize

	propose := func() ([]float64, float64) {
		y := make([]float64, dim)
		for i := range y {
			y[i] = x[i] + step*rng.NormFloat64()
		}
		return y, target(y)
	}

	// Warmup: adapt step size toward the target acceptance rate in
	// fixed windows.
	windowAccepts := 0
	for it := 0; it < cfg.Warmup; it++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("sampler: warmup cancelled: %w", err)
		}
		y, ylp := propose()
		if accept(rng, lp, ylp) {
			x, lp = y, ylp
			windowAccepts++
		}
		if (it+1)%adaptWindow == 0 {
			rate := float64(windowAccepts) / adaptWindow
			step *= math.Exp(rate - targetAcceptance)
			windowAccepts = 0
		}
	}

	chain := &Chain{Draws: make([][]float64, 0, cfg.Iterations)}
	for it := 0; it < cfg.Iterations; it++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("sampler: sampling cancelled: %w", err)
		}
		y, ylp := propose()
		chain.Proposed++
		if accept(rng, lp, ylp) {
			x, lp = y, ylp
			chain.Accepted++
		}
		chain.Draws = append(chain.Draws, append([]float64(nil), x...))
	}
	return chain, nil
}

// accept applies the Metropolis criterion. A -Inf proposal density is
// always rejected, which is how invalid states surface.
func accept(rng *rand.Rand, lp, ylp float64) bool {
	if math.IsNaN(ylp) || math.IsInf(ylp, -1) {
		return false
	}
	if ylp >= lp {
		return true
	}
	return math.Log(rng.Float64()) < ylp-lp
}
