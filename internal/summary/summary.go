// Package summary reduces posterior draws of legislator ideal points
// to ordered, labeled point estimates with credible intervals.
package summary

import (
	"fmt"
	"math"
	"sort"

	"github.com/statehouse-labs/idealpoint/internal/votes"
)

// DefaultLevel is the credible-interval mass used when none is given.
const DefaultLevel = 0.9

// Estimate is the posterior summary for one legislator.
type Estimate struct {
	Rank  int     `json:"rank"`
	Index int     `json:"index"` // dense 1-based legislator index
	Name  string  `json:"name"`
	Party string  `json:"party"`
	Mean  float64 `json:"mean"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Summarize reduces per-legislator draws to estimates ordered by
// posterior mean, most negative first; equal means order by name so
// output is deterministic. draws[j] holds all pooled draws for
// legislator j (0-based); legislators supplies the metadata join.
// level is the central credible mass, (0, 1); zero takes DefaultLevel.
func Summarize(draws [][]float64, legislators []votes.Legislator, level float64) ([]Estimate, error) {
	if level == 0 {
		level = DefaultLevel
	}
	if level <= 0 || level >= 1 {
		return nil, fmt.Errorf("summary: credible level must be in (0, 1), got %v", level)
	}
	if len(draws) != len(legislators) {
		return nil, fmt.Errorf("summary: %d draw series for %d legislators", len(draws), len(legislators))
	}

	out := make([]Estimate, len(draws))
	tail := (1 - level) / 2
	for j := range draws {
		if len(draws[j]) == 0 {
			return nil, fmt.Errorf("summary: no draws for legislator %d (%s)", legislators[j].Index, legislators[j].Name)
		}
		out[j] = Estimate{
			Index: legislators[j].Index,
			Name:  legislators[j].Name,
			Party: legislators[j].Party,
			Mean:  mean(draws[j]),
			Lower: quantile(draws[j], tail),
			Upper: quantile(draws[j], 1-tail),
		}
	}

	sort.Slice(out, func(a, b int) bool {
		if out[a].Mean != out[b].Mean {
			return out[a].Mean < out[b].Mean
		}
		return out[a].Name < out[b].Name
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out, nil
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// quantile is the empirical quantile with linear interpolation between
// order statistics.
func quantile(xs []float64, p float64) float64 {
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)

	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
