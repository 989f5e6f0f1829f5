package httpapi

import (
	"time"

	"github.com/hamed0406/capprobe/internal/domain"
)

// Health statuses on the wire.
const (
	StatusOK      = "ok"
	StatusPartial = "partial"
	StatusFailed  = "failed"
	StatusPending = "pending"
)

// HealthBody is the JSON shape served by GET /health and POST /run.
type HealthBody struct {
	Status              string       `json:"status"`
	Results             []ResultBody `json:"results"`
	CheckedAt           *time.Time   `json:"checkedAt"`
	StartedAt           *time.Time   `json:"startedAt,omitempty"`
	TotalDurationMicros int64        `json:"totalDurationMicros"`
}

type ResultBody struct {
	Name           string            `json:"name"`
	Outcome        string            `json:"outcome"`
	DurationMicros int64             `json:"durationMicros"`
	StartedAt      time.Time         `json:"startedAt"`
	Details        map[string]string `json:"details,omitempty"`
	ErrorKind      string            `json:"errorKind,omitempty"`
	Message        string            `json:"message,omitempty"`
}

// BuildHealthBody translates a report for the wire. A nil report is the
// pending body: no results and no checkedAt.
func BuildHealthBody(rep *domain.RunReport) HealthBody {
	if rep == nil {
		return HealthBody{Status: StatusPending, Results: []ResultBody{}}
	}

	results := rep.Results()
	body := HealthBody{
		Status:              wireStatus(rep.Status()),
		Results:             make([]ResultBody, 0, len(results)),
		TotalDurationMicros: rep.Duration().Microseconds(),
	}
	checked, started := rep.FinishedAt(), rep.StartedAt()
	body.CheckedAt, body.StartedAt = &checked, &started

	for _, r := range results {
		body.Results = append(body.Results, ResultBody{
			Name:           r.Name,
			Outcome:        string(r.Outcome.Kind),
			DurationMicros: r.DurationMicros,
			StartedAt:      r.StartedAt,
			Details:        r.Outcome.Details,
			ErrorKind:      r.Outcome.ErrorKind,
			Message:        r.Outcome.Message,
		})
	}
	return body
}

func wireStatus(s domain.OverallStatus) string {
	switch s {
	case domain.AllPassed:
		return StatusOK
	case domain.AllFailed:
		return StatusFailed
	}
	return StatusPartial
}
