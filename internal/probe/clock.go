package probe

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/hamed0406/capprobe/internal/domain"
)

// ClockProbe formats the current time and renders relative times.
type ClockProbe struct {
	Now func() time.Time
}

func (p *ClockProbe) Name() string { return "clock" }

func (p *ClockProbe) Execute(ctx context.Context) (domain.Outcome, error) {
	now := time.Now()
	if p.Now != nil {
		now = p.Now()
	}
	if now.IsZero() {
		return domain.Failure("Clock", "clock returned the zero time"), nil
	}

	week := now.AddDate(0, 0, 7)
	return ok(map[string]string{
		"formatted": now.Format("2006-01-02 15:04:05"),
		"iso":       now.UTC().Format(time.RFC3339),
		"plus_7d":   week.Format("2006-01-02"),
		"relative":  humanize.RelTime(week, now, "ago", "from now"),
	})
}
