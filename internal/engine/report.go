package engine

import "fmt"

// ItemFailure records one item skipped during a batch run.
type ItemFailure struct {
	Item  string `json:"item"`
	Error string `json:"error"`
}

// BatchReport is the typed summary of a batch run: items processed, items
// skipped as ineligible, interactions generated (social runs only), and
// per-item failures. Failures never abort the run.
type BatchReport struct {
	Processed int           `json:"processed"`
	Skipped   int           `json:"skipped"`
	Generated int           `json:"generated"`
	Failures  []ItemFailure `json:"failures,omitempty"`
}

// Fail records a per-item failure.
func (r *BatchReport) Fail(item string, err error) {
	r.Failures = append(r.Failures, ItemFailure{Item: item, Error: err.Error()})
}

// String renders a terse operator-facing summary.
func (r *BatchReport) String() string {
	return fmt.Sprintf("processed=%d skipped=%d generated=%d failed=%d",
		r.Processed, r.Skipped, r.Generated, len(r.Failures))
}
