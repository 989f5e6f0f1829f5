package runner

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/hamed0406/capprobe/internal/domain"
	"github.com/hamed0406/capprobe/internal/logging"
	"github.com/hamed0406/capprobe/internal/probe"
)

const DefaultTimeout = 5 * time.Second

var ErrNilRegistry = errors.New("runner: nil registry")

// Runner executes the probes of a registry one after another and records a
// result for every one of them.
type Runner struct {
	Sink    logging.Sink
	Timeout time.Duration
	now     func() time.Time

	// mu keeps runs of the same Runner from overlapping.
	mu sync.Mutex
}

// Publisher receives every report RunAndPublish produces.
type Publisher interface {
	Publish(ctx context.Context, rep *domain.RunReport) error
}

type Option func(*Runner)

// WithTimeout sets the per-probe time budget. Non-positive values keep the
// default.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.Timeout = d
		}
	}
}

// WithClock replaces time.Now for start times and durations.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

func New(sink logging.Sink, opts ...Option) *Runner {
	if sink == nil {
		sink = logging.NopSink{}
	}
	r := &Runner{
		Sink:    sink,
		Timeout: DefaultTimeout,
		now:     time.Now,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Run executes every probe of reg in registration order and returns the
// sealed report. Probe failures, panics and timeouts are recorded in the
// report; the error is only for a missing registry.
//
// Once ctx is done the probe in flight is recorded as Canceled and the
// probes that never started as Skipped. Concurrent calls wait for each other.
func (r *Runner) Run(ctx context.Context, reg *probe.Registry) (*domain.RunReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.run(ctx, reg)
}

// RunAndPublish runs reg and hands the report to pub before the next run may
// start, so published snapshots follow run order. A publish error is returned
// together with the report.
func (r *Runner) RunAndPublish(ctx context.Context, reg *probe.Registry, pub Publisher) (*domain.RunReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rep, err := r.run(ctx, reg)
	if err != nil {
		return nil, err
	}
	return rep, pub.Publish(ctx, rep)
}

func (r *Runner) run(ctx context.Context, reg *probe.Registry) (*domain.RunReport, error) {
	if reg == nil {
		return nil, ErrNilRegistry
	}

	b := domain.NewReportBuilder(r.now().UTC())
	for p := range reg.All() {
		if err := ctx.Err(); err != nil {
			b.Append(domain.ProbeResult{
				Name:      p.Name(),
				Outcome:   domain.Skipped("run stopped before probe started: " + err.Error()),
				StartedAt: r.now().UTC(),
			})
			continue
		}
		b.Append(r.runOne(ctx, p))
	}
	return b.Seal(r.now().UTC()), nil
}

func (r *Runner) runOne(ctx context.Context, p probe.Probe) domain.ProbeResult {
	start := r.now()
	out := r.execute(ctx, p)
	took := r.now().Sub(start)

	res := domain.ProbeResult{
		Name:           p.Name(),
		Outcome:        out,
		DurationMicros: took.Microseconds(),
		StartedAt:      start.UTC(),
	}

	fields := map[string]string{
		"name":        res.Name,
		"outcome":     string(out.Kind),
		"duration_us": strconv.FormatInt(res.DurationMicros, 10),
	}
	if out.IsFailure() {
		fields["error_kind"] = out.ErrorKind
	}
	_ = r.Sink.Log(logging.LevelDebug, "probe_executed", fields)
	return res
}

type execResult struct {
	out domain.Outcome
	err error
	// panicked is set when Execute panicked; err then describes the value.
	panicked bool
}

// execute runs p under the time budget. A probe that ignores its context is
// abandoned when the budget runs out; its goroutine finishes on its own.
func (r *Runner) execute(ctx context.Context, p probe.Probe) domain.Outcome {
	pctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	done := make(chan execResult, 1)
	go func() {
		defer func() {
			if v := recover(); v != nil {
				done <- execResult{err: fmt.Errorf("panic: %v", v), panicked: true}
			}
		}()
		out, err := p.Execute(pctx)
		done <- execResult{out: out, err: err}
	}()

	select {
	case res := <-done:
		return classify(ctx, res)
	case <-pctx.Done():
		if errors.Is(ctx.Err(), context.Canceled) {
			return domain.Failure(domain.ErrorKindCanceled, ctx.Err().Error())
		}
		return domain.Failure(domain.ErrorKindTimeout, fmt.Sprintf("probe exceeded its %s budget", r.Timeout))
	}
}

func classify(ctx context.Context, res execResult) domain.Outcome {
	switch {
	case res.panicked:
		return domain.Failure(domain.ErrorKindUnhandled, res.err.Error())
	case res.err != nil:
		if errors.Is(res.err, context.DeadlineExceeded) {
			return domain.Failure(domain.ErrorKindTimeout, res.err.Error())
		}
		if errors.Is(res.err, context.Canceled) && ctx.Err() != nil {
			return domain.Failure(domain.ErrorKindCanceled, res.err.Error())
		}
		return domain.Failure(domain.ErrorKindUnhandled, res.err.Error())
	case !res.out.Valid():
		return domain.Failure(domain.ErrorKindUnhandled, "probe returned an outcome without a kind")
	}
	return res.out
}
