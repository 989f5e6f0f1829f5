package report

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.uber.org/multierr"

	"github.com/hamed0406/capprobe/internal/domain"
	"github.com/hamed0406/capprobe/internal/logging"
	"github.com/hamed0406/capprobe/internal/notify"
	"github.com/hamed0406/capprobe/internal/repo"
	"github.com/hamed0406/capprobe/internal/repo/memory"
)

var ErrNilReport = errors.New("report: nil report")

// PublishError collects everything that went wrong while emitting a report.
// The snapshot is replaced regardless.
type PublishError struct {
	Err error
}

func (e *PublishError) Error() string { return "publish: " + e.Err.Error() }

func (e *PublishError) Unwrap() error { return e.Err }

// Errors lists the individual failures.
func (e *PublishError) Errors() []error { return multierr.Errors(e.Err) }

// Reporter writes run reports to a log sink and keeps the latest one.
type Reporter struct {
	sink     logging.Sink
	store    repo.ReportStore
	notifier notify.Notifier
}

type Option func(*Reporter)

// WithStore replaces the default in-memory snapshot store.
func WithStore(s repo.ReportStore) Option {
	return func(r *Reporter) {
		if s != nil {
			r.store = s
		}
	}
}

// WithNotifier sends a summary for every report that is not AllPassed.
func WithNotifier(n notify.Notifier) Option {
	return func(r *Reporter) { r.notifier = n }
}

func New(sink logging.Sink, opts ...Option) *Reporter {
	if sink == nil {
		sink = logging.NopSink{}
	}
	r := &Reporter{sink: sink, store: memory.New()}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Publish logs one probe_result entry per result and a run_summary entry,
// then swaps the latest snapshot. Sink and notifier failures come back as a
// *PublishError after the swap.
func (r *Reporter) Publish(ctx context.Context, rep *domain.RunReport) error {
	if rep == nil {
		return ErrNilReport
	}

	var errs error
	for _, res := range rep.Results() {
		level, fields := resultEntry(res)
		errs = multierr.Append(errs, r.sink.Log(level, "probe_result", fields))
	}
	level, fields := summaryEntry(rep)
	errs = multierr.Append(errs, r.sink.Log(level, "run_summary", fields))

	if err := r.store.Save(ctx, rep); err != nil {
		return err
	}

	if r.notifier != nil && rep.Status() != domain.AllPassed {
		title, text := notify.RunSummary(rep)
		errs = multierr.Append(errs, r.notifier.Send(ctx, title, text))
	}

	if errs != nil {
		return &PublishError{Err: errs}
	}
	return nil
}

// Latest returns the most recently published report, or false before the
// first publish.
func (r *Reporter) Latest(ctx context.Context) (*domain.RunReport, bool) {
	return r.store.Latest(ctx)
}

func resultEntry(res domain.ProbeResult) (logging.Level, map[string]string) {
	out := res.Outcome
	fields := map[string]string{
		"name":        res.Name,
		"outcome":     string(out.Kind),
		"duration_us": strconv.FormatInt(res.DurationMicros, 10),
		"started_at":  res.StartedAt.Format(time.RFC3339Nano),
	}
	switch out.Kind {
	case domain.OutcomeSuccess:
		for k, v := range out.Details {
			fields["detail."+k] = v
		}
		return logging.LevelInfo, fields
	case domain.OutcomeFailure:
		fields["error_kind"] = out.ErrorKind
		fields["message"] = out.Message
	default:
		fields["reason"] = out.Message
	}
	return logging.LevelWarn, fields
}

func summaryEntry(rep *domain.RunReport) (logging.Level, map[string]string) {
	passed, failed, skipped := rep.Counts()
	fields := map[string]string{
		"overall_status":    string(rep.Status()),
		"total_duration_us": strconv.FormatInt(rep.Duration().Microseconds(), 10),
		"probes":            strconv.Itoa(rep.Len()),
		"passed":            strconv.Itoa(passed),
		"failed":            strconv.Itoa(failed),
		"skipped":           strconv.Itoa(skipped),
	}
	switch rep.Status() {
	case domain.AllPassed:
		return logging.LevelInfo, fields
	case domain.AllFailed:
		return logging.LevelError, fields
	}
	return logging.LevelWarn, fields
}
