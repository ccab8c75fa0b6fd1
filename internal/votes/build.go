package votes

import (
	"fmt"
	"sort"

	"github.com/statehouse-labs/idealpoint/internal/identify"
	"github.com/statehouse-labs/idealpoint/internal/model"
)

// DefaultPartyLineThreshold is the within-party agreement fraction that
// classifies a roll call as party-line.
const DefaultPartyLineThreshold = 0.9

// Options configures a build.
type Options struct {
	// Recode overrides the response coding; nil uses DefaultRecode.
	Recode *RecodeScheme

	// Anchors names the fixed-reference legislators. Empty for the
	// unconstrained variants.
	Anchors []Anchor

	// PartyLineThreshold overrides DefaultPartyLineThreshold when
	// nonzero. Must lie in (0.5, 1].
	PartyLineThreshold float64
}

// Binding is the output of a build: retained entities with dense
// indices, the parallel observation arrays, the resolved anchor
// partition, and starting-value seeds. A Binding is immutable once
// returned.
type Binding struct {
	Legislators []Legislator
	RollCalls   []RollCall

	// Parallel 1-based observation arrays.
	ItemIdx       []int
	LegislatorIdx []int
	Vote          []int

	// Anchors resolved to 0-based theta positions. Empty when no
	// anchors were requested.
	Anchors identify.AnchorScheme

	// Starting-value seeds: discrimination signs from party-line
	// detection and ideal-point seeds from anchors and party
	// membership. Indexed 0-based per item / per legislator.
	LambdaInit []float64
	ThetaInit  []float64
}

// Dataset returns the model-facing view of the binding.
func (b *Binding) Dataset() *model.Dataset {
	return &model.Dataset{
		NumItems:       len(b.RollCalls),
		NumLegislators: len(b.Legislators),
		ItemIdx:        b.ItemIdx,
		LegislatorIdx:  b.LegislatorIdx,
		Vote:           b.Vote,
	}
}

// FreeLegislatorCount returns the number of non-anchored legislators.
func (b *Binding) FreeLegislatorCount() int {
	return len(b.Legislators) - len(b.Anchors.Indices)
}

// InitialParams returns the seeded starting values: difficulties at
// zero, discriminations at their party-line sign seeds, ideal points
// at the anchor and party seeds.
func (b *Binding) InitialParams() identify.Params {
	p := identify.Params{
		Alpha:  make([]float64, len(b.RollCalls)),
		Lambda: append([]float64(nil), b.LambdaInit...),
		Theta:  append([]float64(nil), b.ThetaInit...),
	}
	for i, idx := range b.Anchors.Indices {
		p.Theta[idx] = b.Anchors.Values[i]
	}
	return p
}

// Build runs the full preparation pipeline over the raw records.
func Build(records []RawVote, opts Options) (*Binding, error) {
	threshold := opts.PartyLineThreshold
	if threshold == 0 {
		threshold = DefaultPartyLineThreshold
	}
	if threshold <= 0.5 || threshold > 1 {
		return nil, &BuildError{
			Code:    ErrBuildBadThreshold,
			Message: fmt.Sprintf("party-line threshold must be in (0.5, 1], got %v", threshold),
		}
	}
	if len(records) == 0 {
		return nil, &BuildError{Code: ErrBuildNoRecords, Message: "no vote records"}
	}

	recode := DefaultRecode()
	if opts.Recode != nil {
		recode = *opts.Recode
	}

	// Recode and drop missing.
	type obs struct {
		name, party, label string
		vote               int
	}
	var kept []obs
	for i, r := range records {
		if r.Legislator == "" || r.RollCall == "" {
			return nil, &BuildError{
				Code:    ErrBuildEmptyField,
				Subject: fmt.Sprintf("record %d", i),
				Message: "blank legislator or roll-call label",
			}
		}
		switch recode.Recode(r.Code) {
		case ResponseYea:
			kept = append(kept, obs{normalizeName(r.Legislator), r.Party, r.RollCall, 1})
		case ResponseNay:
			kept = append(kept, obs{normalizeName(r.Legislator), r.Party, r.RollCall, 0})
		}
	}

	// Tally roll calls and drop unanimous ones.
	yea := make(map[string]int)
	nay := make(map[string]int)
	for _, o := range kept {
		if o.vote == 1 {
			yea[o.label]++
		} else {
			nay[o.label]++
		}
	}
	retained := func(label string) bool { return yea[label] > 0 && nay[label] > 0 }

	// Dense 1-based indices by first appearance among retained rows.
	legIdx := make(map[string]int)
	rcIdx := make(map[string]int)
	b := &Binding{}
	for _, o := range kept {
		if !retained(o.label) {
			continue
		}
		j, ok := legIdx[o.name]
		if !ok {
			j = len(b.Legislators) + 1
			legIdx[o.name] = j
			b.Legislators = append(b.Legislators, Legislator{Index: j, Name: o.name, Party: o.party})
		}
		k, ok := rcIdx[o.label]
		if !ok {
			k = len(b.RollCalls) + 1
			rcIdx[o.label] = k
			b.RollCalls = append(b.RollCalls, RollCall{
				Index: k,
				Label: o.label,
				Yea:   yea[o.label],
				Nay:   nay[o.label],
			})
		}
		b.ItemIdx = append(b.ItemIdx, k)
		b.LegislatorIdx = append(b.LegislatorIdx, j)
		b.Vote = append(b.Vote, o.vote)
	}

	if len(b.Vote) == 0 {
		return nil, &BuildError{
			Code:    ErrBuildNoRetained,
			Message: "every roll call was unanimous or missing after recode",
		}
	}

	b.detectPartyLines(threshold)

	if err := b.resolveAnchors(opts.Anchors, legIdx); err != nil {
		return nil, err
	}
	b.seedTheta()

	return b, nil
}

// detectPartyLines marks roll calls where the two largest parties vote
// in opposite directions with at least the threshold agreement inside
// each. The sign convention is +1 when the larger party votes yea.
func (b *Binding) detectPartyLines(threshold float64) {
	b.LambdaInit = make([]float64, len(b.RollCalls))

	first, second := b.majorParties()
	if first == "" || second == "" {
		return
	}

	// Per roll call, per major party: yea and total counts.
	type tally struct{ yea, total int }
	counts := make(map[int]map[string]*tally) // item index -> party -> tally
	for i := range b.Vote {
		k := b.ItemIdx[i]
		party := b.Legislators[b.LegislatorIdx[i]-1].Party
		if party != first && party != second {
			continue
		}
		if counts[k] == nil {
			counts[k] = make(map[string]*tally)
		}
		if counts[k][party] == nil {
			counts[k][party] = &tally{}
		}
		counts[k][party].total++
		if b.Vote[i] == 1 {
			counts[k][party].yea++
		}
	}

	for idx := range b.RollCalls {
		k := idx + 1
		tf, ts := counts[k][first], counts[k][second]
		if tf == nil || ts == nil || tf.total == 0 || ts.total == 0 {
			continue
		}
		ff := float64(tf.yea) / float64(tf.total)
		fs := float64(ts.yea) / float64(ts.total)
		switch {
		case ff >= threshold && fs <= 1-threshold:
			b.RollCalls[idx].SignSeed = 1
		case fs >= threshold && ff <= 1-threshold:
			b.RollCalls[idx].SignSeed = -1
		}
		b.LambdaInit[idx] = b.RollCalls[idx].SignSeed
	}
}

// majorParties returns the two parties with the most retained members,
// ties broken by party label for determinism.
func (b *Binding) majorParties() (first, second string) {
	members := make(map[string]int)
	for _, l := range b.Legislators {
		if l.Party != "" {
			members[l.Party]++
		}
	}
	parties := make([]string, 0, len(members))
	for p := range members {
		parties = append(parties, p)
	}
	sort.Slice(parties, func(i, j int) bool {
		if members[parties[i]] != members[parties[j]] {
			return members[parties[i]] > members[parties[j]]
		}
		return parties[i] < parties[j]
	})
	if len(parties) < 2 {
		return "", ""
	}
	return parties[0], parties[1]
}

// resolveAnchors maps anchor names to 0-based theta positions. A named
// anchor missing from the retained data is a fail-fast error.
func (b *Binding) resolveAnchors(anchors []Anchor, legIdx map[string]int) error {
	for _, a := range anchors {
		j, ok := legIdx[normalizeName(a.Legislator)]
		if !ok {
			return &BuildError{
				Code:    ErrBuildAnchorMissing,
				Subject: a.Legislator,
				Message: "anchor legislator not present in retained data",
			}
		}
		b.Anchors.Indices = append(b.Anchors.Indices, j-1)
		b.Anchors.Values = append(b.Anchors.Values, a.Value)
	}
	return nil
}

// seedTheta builds the ideal-point starting values: anchors take their
// literal value, members of an anchored party start at half the sign of
// their party's mean anchor value, everyone else at zero.
func (b *Binding) seedTheta() {
	b.ThetaInit = make([]float64, len(b.Legislators))

	partySum := make(map[string]float64)
	partyN := make(map[string]int)
	anchored := make(map[int]bool)
	for i, idx := range b.Anchors.Indices {
		party := b.Legislators[idx].Party
		partySum[party] += b.Anchors.Values[i]
		partyN[party]++
		anchored[idx] = true
		b.ThetaInit[idx] = b.Anchors.Values[i]
	}

	for j := range b.Legislators {
		if anchored[j] {
			continue
		}
		party := b.Legislators[j].Party
		if n := partyN[party]; n > 0 {
			mean := partySum[party] / float64(n)
			switch {
			case mean > 0:
				b.ThetaInit[j] = 0.5
			case mean < 0:
				b.ThetaInit[j] = -0.5
			}
		}
	}
	for i, idx := range b.Anchors.Indices {
		b.ThetaInit[idx] = b.Anchors.Values[i]
	}
}
