// Package simulate generates synthetic roll-call vote tables from
// known parameters. It exists for tests: a generated table exercises
// the full pipeline (recode, binding, model, sampler, summary) against
// ground truth.
package simulate

import (
	"fmt"
	"math/rand"

	"github.com/statehouse-labs/idealpoint/internal/model"
	"github.com/statehouse-labs/idealpoint/internal/votes"
)

// Config fixes the generating parameters. Alpha and Lambda are
// per-item, Theta per-legislator; any nil vector is drawn from the
// generator's RNG (alpha and theta standard normal, lambda uniform in
// [-2,-0.5] or [0.5,2] so every item discriminates).
type Config struct {
	NumItems       int
	NumLegislators int
	Alpha          []float64
	Lambda         []float64
	Theta          []float64
}

// Generate produces one vote table. Legislators are named "LEG-01",
// "LEG-02", ... with party "L" for negative true ideal points and "R"
// otherwise; roll calls are labeled "rc-01", "rc-02", .... Votes are
// coded 1 (yea) and 6 (nay) so the default recode scheme applies.
// Deterministic for a given (cfg, seed).
func Generate(cfg Config, seed int64) ([]votes.RawVote, Config, error) {
	if cfg.NumItems < 1 || cfg.NumLegislators < 1 {
		return nil, cfg, fmt.Errorf("simulate: need at least one item and one legislator")
	}
	rng := rand.New(rand.NewSource(seed))

	if cfg.Alpha == nil {
		cfg.Alpha = make([]float64, cfg.NumItems)
		for k := range cfg.Alpha {
			cfg.Alpha[k] = rng.NormFloat64()
		}
	}
	if cfg.Lambda == nil {
		cfg.Lambda = make([]float64, cfg.NumItems)
		for k := range cfg.Lambda {
			mag := 0.5 + 1.5*rng.Float64()
			if rng.Intn(2) == 0 {
				mag = -mag
			}
			cfg.Lambda[k] = mag
		}
	}
	if cfg.Theta == nil {
		cfg.Theta = make([]float64, cfg.NumLegislators)
		for j := range cfg.Theta {
			cfg.Theta[j] = rng.NormFloat64()
		}
	}
	if len(cfg.Alpha) != cfg.NumItems || len(cfg.Lambda) != cfg.NumItems || len(cfg.Theta) != cfg.NumLegislators {
		return nil, cfg, fmt.Errorf("simulate: parameter vector lengths disagree with counts")
	}

	var records []votes.RawVote
	for k := 0; k < cfg.NumItems; k++ {
		for j := 0; j < cfg.NumLegislators; j++ {
			p := model.InvLogit(cfg.Alpha[k] + cfg.Lambda[k]*cfg.Theta[j])
			code := 6
			if rng.Float64() < p {
				code = 1
			}
			records = append(records, votes.RawVote{
				Legislator: LegislatorName(j),
				Party:      partyFor(cfg.Theta[j]),
				RollCall:   fmt.Sprintf("rc-%02d", k+1),
				Code:       code,
			})
		}
	}
	return records, cfg, nil
}

// LegislatorName is the generated display name for 0-based position j.
func LegislatorName(j int) string { return fmt.Sprintf("LEG-%02d", j+1) }

func partyFor(theta float64) string {
	if theta < 0 {
		return "L"
	}
	return "R"
}
