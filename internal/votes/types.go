package votes

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Response is the recoded value of a raw vote code.
type Response int

const (
	// ResponseMissing marks codes that carry no usable vote; the row is
	// dropped before binding.
	ResponseMissing Response = iota
	// ResponseYea is an affirmative vote, bound as 1.
	ResponseYea
	// ResponseNay is a negative vote, bound as 0.
	ResponseNay
)

// RawVote is one row of the input vote table.
type RawVote struct {
	Legislator string // display name, also the anchor-matching key
	Party      string // party label, used for party-line detection
	RollCall   string // roll-call label
	Code       int    // raw response code, interpreted by a RecodeScheme
}

// Legislator is a retained legislator with its dense 1-based index.
type Legislator struct {
	Index int
	Name  string
	Party string
}

// RollCall is a retained roll call with its dense 1-based index.
// SignSeed is +1 or -1 for detected party-line votes and 0 otherwise;
// it seeds the initial discrimination value for the item.
type RollCall struct {
	Index    int
	Label    string
	Yea      int
	Nay      int
	SignSeed float64
}

// PartyLine reports whether the roll call was detected as party-line.
func (r RollCall) PartyLine() bool { return r.SignSeed != 0 }

// RecodeScheme maps raw response codes to yea or nay; any code in
// neither list is missing.
type RecodeScheme struct {
	Yea []int
	Nay []int
}

// DefaultRecode returns the conventional congressional coding:
// {1,2,3} yea, {4,5,6} nay, everything else missing.
func DefaultRecode() RecodeScheme {
	return RecodeScheme{
		Yea: []int{1, 2, 3},
		Nay: []int{4, 5, 6},
	}
}

// Recode classifies a raw code.
func (s RecodeScheme) Recode(code int) Response {
	for _, c := range s.Yea {
		if code == c {
			return ResponseYea
		}
	}
	for _, c := range s.Nay {
		if code == c {
			return ResponseNay
		}
	}
	return ResponseMissing
}

// Anchor names a legislator whose ideal point is fixed at a literal
// value in the fixed-reference variant.
type Anchor struct {
	Legislator string
	Value      float64
}

// normalizeName is the anchor-matching key: NFC-normalized, trimmed.
func normalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}
