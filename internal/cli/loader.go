package cli

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueyaml "cuelang.org/go/encoding/yaml"

	"github.com/statehouse-labs/idealpoint/internal/votes"
)

//go:embed schema.cue
var configSchema string

// CLI error codes (E001-E009).
const (
	ErrCodeGeneric  = "E001"
	ErrCodeNotFound = "E002" // config/votes/database file missing
	ErrCodeParse    = "E003" // YAML syntax error
	ErrCodeSchema   = "E004" // config fails the schema
	ErrCodeBinding  = "E005" // vote table failed to bind
	ErrCodeModel    = "E006" // spec/dataset validation failed
	ErrCodeSampling = "E007" // sampler failed
	ErrCodeDatabase = "E008" // draw store failure
)

// LoadError represents an error that occurred while loading a fit
// configuration.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// FitConfig is the decoded fit configuration. Field tags follow the
// CUE schema; defaults are supplied by unification, so a decoded
// config is always complete.
type FitConfig struct {
	Model  string       `json:"model"`
	Priors PriorsConfig `json:"priors"`

	Anchors []AnchorConfig `json:"anchors"`
	Recode  *RecodeConfig  `json:"recode,omitempty"`

	Sampler SamplerConfig `json:"sampler"`

	CredibleLevel      float64 `json:"credible_level"`
	PartyLineThreshold float64 `json:"party_line_threshold"`
}

// PriorsConfig groups the three parameter priors.
type PriorsConfig struct {
	Difficulty     PriorConfig `json:"difficulty"`
	Discrimination PriorConfig `json:"discrimination"`
	IdealPoint     PriorConfig `json:"ideal_point"`
}

// PriorConfig is one scalar prior.
type PriorConfig struct {
	Loc   float64 `json:"loc"`
	Scale float64 `json:"scale"`
	Skew  float64 `json:"skew"`
}

// AnchorConfig names a fixed-reference legislator.
type AnchorConfig struct {
	Legislator string  `json:"legislator"`
	Value      float64 `json:"value"`
}

// RecodeConfig overrides the default vote recoding.
type RecodeConfig struct {
	Yea []int `json:"yea"`
	Nay []int `json:"nay"`
}

// SamplerConfig carries the sampling settings.
type SamplerConfig struct {
	Chains     int     `json:"chains"`
	Iterations int     `json:"iterations"`
	Warmup     int     `json:"warmup"`
	StepSize   float64 `json:"step_size"`
	Seed       int64   `json:"seed"`
}

// LoadFitConfig reads a YAML fit configuration, validates it against
// the embedded CUE schema, and decodes it with schema defaults
// applied.
func LoadFitConfig(path string) (*FitConfig, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("config file not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("reading config: %v", err)}
	}

	file, err := cueyaml.Extract(path, data)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeParse, Message: fmt.Sprintf("parsing config: %v", err)}
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(configSchema, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("compiling schema: %v", err)}
	}
	def := schema.LookupPath(cue.ParsePath("#FitConfig"))

	val := ctx.BuildFile(file)
	if err := val.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeParse, Message: fmt.Sprintf("building config value: %v", err)}
	}

	unified := def.Unify(val)
	if err := unified.Validate(cue.Concrete(true), cue.Final()); err != nil {
		return nil, &LoadError{Code: ErrCodeSchema, Message: fmt.Sprintf("config does not satisfy schema: %v", err)}
	}

	var cfg FitConfig
	if err := unified.Decode(&cfg); err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("decoding config: %v", err)}
	}
	return &cfg, nil
}

// BuildOptions converts the configuration into vote-binding options.
func (c *FitConfig) BuildOptions() votes.Options {
	opts := votes.Options{
		PartyLineThreshold: c.PartyLineThreshold,
	}
	if c.Recode != nil {
		opts.Recode = &votes.RecodeScheme{Yea: c.Recode.Yea, Nay: c.Recode.Nay}
	}
	for _, a := range c.Anchors {
		opts.Anchors = append(opts.Anchors, votes.Anchor{Legislator: a.Legislator, Value: a.Value})
	}
	return opts
}
