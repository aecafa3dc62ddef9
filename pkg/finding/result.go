package finding

// Outcome distinguishes a clean run from an unknown one.
type Outcome string

// Strategy outcomes.
const (
	// OutcomeFindings means the strategy ran and its output was understood.
	// An empty finding list is a genuine clean signal.
	OutcomeFindings Outcome = "findings"
	// OutcomeNotAvailable means the tool is absent or not applicable.
	OutcomeNotAvailable Outcome = "not_available"
	// OutcomeInconclusive means the tool ran but its output could not be interpreted.
	OutcomeInconclusive Outcome = "inconclusive"
)

// Result is what a strategy returns. Construct it with Found, NotAvailable or
// Inconclusive.
type Result struct {
	Strategy Tag
	Outcome  Outcome
	Findings []Finding

	// Total is the number of findings the strategy detected. It exceeds
	// len(Findings) when the strategy capped how many it materialized.
	Total int

	// Reason explains NotAvailable and Inconclusive outcomes.
	Reason string
}

// Found builds a Findings result. total is raised to len(findings) when lower.
func Found(tag Tag, findings []Finding, total int) Result {
	if findings == nil {
		findings = []Finding{}
	}

	total = max(total, len(findings))

	return Result{
		Strategy: tag,
		Outcome:  OutcomeFindings,
		Findings: findings,
		Total:    total,
	}
}

// NotAvailable builds a result for a strategy that could not run.
func NotAvailable(tag Tag, reason string) Result {
	return Result{Strategy: tag, Outcome: OutcomeNotAvailable, Reason: reason}
}

// Inconclusive builds a result for a strategy whose output was not understood.
func Inconclusive(tag Tag, reason string) Result {
	return Result{Strategy: tag, Outcome: OutcomeInconclusive, Reason: reason}
}

// HasFindings reports whether the strategy ran and detected at least one finding.
func (r Result) HasFindings() bool {
	return r.Outcome == OutcomeFindings && r.Total > 0
}

// Omitted returns how many detected findings were not materialized.
func (r Result) Omitted() int {
	return max(r.Total-len(r.Findings), 0)
}
