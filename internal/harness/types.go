package harness

// Result is the outcome of a scenario execution.
type Result struct {
	// Scenario is the scenario name.
	Scenario string `json:"scenario"`

	// Pass is true when the run behaved as expected and every assertion held.
	Pass bool `json:"pass"`

	// Errors contains assertion and execution failures.
	Errors []string `json:"errors,omitempty"`

	// Value is the framed result, decoded from Output. Nil when the run
	// failed.
	Value any `json:"-"`

	// Output is the serialized framed result.
	Output []byte `json:"-"`

	Digest string   `json:"digest,omitempty"`
	Nodes  int      `json:"nodes"`
	Types  []string `json:"types,omitempty"`

	// ErrorKind classifies the run error when the run failed.
	ErrorKind string `json:"error_kind,omitempty"`
}

// NewResult creates a passing result for the named scenario.
func NewResult(name string) *Result {
	return &Result{
		Scenario: name,
		Pass:     true,
		Errors:   []string{},
	}
}

// AddError records a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
