package votes

import "fmt"

// Build error codes (E300-E309).
const (
	ErrBuildNoRecords     = "E300" // no input rows
	ErrBuildNoRetained    = "E301" // everything dropped as missing or unanimous
	ErrBuildAnchorMissing = "E302" // named anchor not in retained data
	ErrBuildBadThreshold  = "E303" // party-line threshold outside (0.5, 1]
	ErrBuildEmptyField    = "E304" // blank legislator or roll-call label
)

// BuildError reports a defect in the input vote table or build options.
// Builds fail fast: the first defect stops the pipeline.
type BuildError struct {
	Code    string
	Subject string // offending legislator/roll-call/field, when known
	Message string
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	if e.Subject != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Subject, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}
