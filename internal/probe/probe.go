package probe

import (
	"context"

	"github.com/hamed0406/capprobe/internal/domain"
)

// Probe performs a single capability check.
//
// Execute reports expected failures as a Failure outcome with a nil error.
// A non-nil error means the probe broke its own contract; the runner records
// it as an Unhandled failure (or Timeout when it wraps
// context.DeadlineExceeded). Implementations must honour ctx for anything
// that may block.
type Probe interface {
	Name() string
	Execute(ctx context.Context) (domain.Outcome, error)
}

// Func adapts a plain function to the Execute half of Probe.
type Func func(ctx context.Context) (domain.Outcome, error)

type funcProbe struct {
	name string
	fn   Func
}

// New returns a Probe called name that runs fn.
func New(name string, fn Func) Probe {
	return &funcProbe{name: name, fn: fn}
}

func (p *funcProbe) Name() string { return p.name }

func (p *funcProbe) Execute(ctx context.Context) (domain.Outcome, error) {
	return p.fn(ctx)
}

// fail is the usual way a probe reports an expected failure.
func fail(kind string, err error) (domain.Outcome, error) {
	return domain.Failure(kind, err.Error()), nil
}

func ok(details map[string]string) (domain.Outcome, error) {
	return domain.Success(details), nil
}
