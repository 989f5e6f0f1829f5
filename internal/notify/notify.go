package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/multierr"

	"github.com/hamed0406/capprobe/internal/domain"
)

type Notifier interface {
	Send(ctx context.Context, title, text string) error
}

// Multi fans a message out to every notifier and reports all failures.
type Multi []Notifier

func (m Multi) Send(ctx context.Context, title, text string) error {
	var errs error
	for _, n := range m {
		if n == nil {
			continue
		}
		errs = multierr.Append(errs, n.Send(ctx, title, text))
	}
	return errs
}

// RunSummary renders a report as a notification title and body. Only
// failed and skipped probes are listed.
func RunSummary(rep *domain.RunReport) (title, text string) {
	passed, failed, skipped := rep.Counts()

	switch rep.Status() {
	case domain.AllPassed:
		title = "🟢 Probes passed"
	case domain.AllFailed:
		title = "🔴 Probes FAILED"
	default:
		title = "🟠 Probes partially failed"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Passed: %d/%d, failed: %d, skipped: %d\n", passed, rep.Len(), failed, skipped)
	for _, r := range rep.Results() {
		switch {
		case r.Outcome.IsFailure():
			fmt.Fprintf(&b, "• %s: %s (%s)\n", r.Name, r.Outcome.ErrorKind, r.Outcome.Message)
		case r.Outcome.IsSkipped():
			fmt.Fprintf(&b, "• %s: skipped\n", r.Name)
		}
	}
	fmt.Fprintf(&b, "Finished: %s", rep.FinishedAt().Format(time.RFC3339))
	return title, b.String()
}
