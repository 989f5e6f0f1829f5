package probe

import (
	"errors"
	"fmt"
	"iter"
)

var ErrDuplicateProbeName = errors.New("duplicate probe name")

// DuplicateProbeNameError is returned by Register when the name is taken.
type DuplicateProbeNameError struct {
	Name string
}

func (e *DuplicateProbeNameError) Error() string {
	return fmt.Sprintf("%s: %q", ErrDuplicateProbeName, e.Name)
}

func (e *DuplicateProbeNameError) Is(target error) bool {
	return target == ErrDuplicateProbeName
}

// Registry is an ordered set of uniquely named probes. It is built once at
// startup and read-only afterwards.
type Registry struct {
	probes []Probe
	names  map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{names: make(map[string]struct{})}
}

func (r *Registry) Register(p Probe) error {
	if p == nil {
		return errors.New("register: nil probe")
	}
	name := p.Name()
	if name == "" {
		return errors.New("register: probe has empty name")
	}
	if _, dup := r.names[name]; dup {
		return &DuplicateProbeNameError{Name: name}
	}
	r.names[name] = struct{}{}
	r.probes = append(r.probes, p)
	return nil
}

// MustRegister is Register for statically known probe sets.
func (r *Registry) MustRegister(probes ...Probe) *Registry {
	for _, p := range probes {
		if err := r.Register(p); err != nil {
			panic(err)
		}
	}
	return r
}

// All yields the probes in registration order. The sequence can be ranged
// over any number of times.
func (r *Registry) All() iter.Seq[Probe] {
	return func(yield func(Probe) bool) {
		for _, p := range r.probes {
			if !yield(p) {
				return
			}
		}
	}
}

func (r *Registry) Len() int { return len(r.probes) }

func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.probes))
	for p := range r.All() {
		out = append(out, p.Name())
	}
	return out
}
