package domain

import (
	"maps"
	"slices"
	"time"
)

type OverallStatus string

const (
	AllPassed      OverallStatus = "AllPassed"
	PartialFailure OverallStatus = "PartialFailure"
	AllFailed      OverallStatus = "AllFailed"
)

// OverallStatusOf aggregates outcomes. An empty set is AllPassed. Skipped
// outcomes count as not passed.
func OverallStatusOf(outcomes []Outcome) OverallStatus {
	passed := 0
	for _, o := range outcomes {
		if o.IsSuccess() {
			passed++
		}
	}
	switch {
	case passed == len(outcomes):
		return AllPassed
	case passed == 0:
		return AllFailed
	default:
		return PartialFailure
	}
}

// RunReport is a sealed, read-only record of one run. Build it with a
// ReportBuilder.
type RunReport struct {
	results    []ProbeResult
	startedAt  time.Time
	finishedAt time.Time
	status     OverallStatus
}

// Results returns a copy of the results in registration order.
func (r *RunReport) Results() []ProbeResult {
	out := make([]ProbeResult, len(r.results))
	for i, res := range r.results {
		res.Outcome.Details = maps.Clone(res.Outcome.Details)
		out[i] = res
	}
	return out
}

func (r *RunReport) Len() int { return len(r.results) }

func (r *RunReport) StartedAt() time.Time { return r.startedAt }

func (r *RunReport) FinishedAt() time.Time { return r.finishedAt }

func (r *RunReport) Status() OverallStatus { return r.status }

func (r *RunReport) Duration() time.Duration { return r.finishedAt.Sub(r.startedAt) }

// Counts returns how many results succeeded, failed and were skipped.
func (r *RunReport) Counts() (passed, failed, skipped int) {
	for _, res := range r.results {
		switch res.Outcome.Kind {
		case OutcomeSuccess:
			passed++
		case OutcomeFailure:
			failed++
		case OutcomeSkipped:
			skipped++
		}
	}
	return passed, failed, skipped
}

// ReportBuilder accumulates results during a run. Once Seal is called the
// builder rejects further appends.
type ReportBuilder struct {
	results   []ProbeResult
	startedAt time.Time
	sealed    bool
}

func NewReportBuilder(startedAt time.Time) *ReportBuilder {
	return &ReportBuilder{startedAt: startedAt}
}

// Append records the next result. Appending after Seal panics.
func (b *ReportBuilder) Append(res ProbeResult) {
	if b.sealed {
		panic("domain: append to sealed run report")
	}
	res.Outcome.Details = maps.Clone(res.Outcome.Details)
	b.results = append(b.results, res)
}

// Seal computes the overall status and returns the immutable report.
func (b *ReportBuilder) Seal(finishedAt time.Time) *RunReport {
	if b.sealed {
		panic("domain: run report sealed twice")
	}
	b.sealed = true

	outcomes := make([]Outcome, len(b.results))
	for i, res := range b.results {
		outcomes[i] = res.Outcome
	}
	return &RunReport{
		results:    slices.Clip(b.results),
		startedAt:  b.startedAt,
		finishedAt: finishedAt,
		status:     OverallStatusOf(outcomes),
	}
}
