package domain

import (
	"maps"
	"time"
)

type OutcomeKind string

const (
	OutcomeSuccess OutcomeKind = "success"
	OutcomeFailure OutcomeKind = "failure"
	OutcomeSkipped OutcomeKind = "skipped"
)

// Error kinds the runner assigns on its own. Probes are free to use any other
// kind for failures they classify themselves.
const (
	ErrorKindUnhandled = "Unhandled"
	ErrorKindTimeout   = "Timeout"
	ErrorKindCanceled  = "Canceled"
)

// Outcome is the tagged result of executing one probe.
//
// Only the fields that belong to Kind are set:
//   - success: Details
//   - failure: ErrorKind, Message
//   - skipped: Message (why the probe never started)
type Outcome struct {
	Kind      OutcomeKind
	Details   map[string]string
	ErrorKind string
	Message   string
}

func Success(details map[string]string) Outcome {
	return Outcome{Kind: OutcomeSuccess, Details: maps.Clone(details)}
}

func Failure(errorKind, message string) Outcome {
	return Outcome{Kind: OutcomeFailure, ErrorKind: errorKind, Message: message}
}

func Skipped(reason string) Outcome {
	return Outcome{Kind: OutcomeSkipped, Message: reason}
}

func (o Outcome) IsSuccess() bool { return o.Kind == OutcomeSuccess }
func (o Outcome) IsFailure() bool { return o.Kind == OutcomeFailure }
func (o Outcome) IsSkipped() bool { return o.Kind == OutcomeSkipped }

// Valid reports whether the outcome carries a known kind. The zero Outcome is
// not valid.
func (o Outcome) Valid() bool {
	switch o.Kind {
	case OutcomeSuccess, OutcomeFailure, OutcomeSkipped:
		return true
	}
	return false
}

// ProbeResult is what the runner records for one probe of a run.
type ProbeResult struct {
	Name           string
	Outcome        Outcome
	DurationMicros int64
	StartedAt      time.Time
}
