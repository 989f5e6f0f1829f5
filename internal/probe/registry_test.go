package probe

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hamed0406/capprobe/internal/domain"
)

func noop(name string) Probe {
	return New(name, func(context.Context) (domain.Outcome, error) {
		return domain.Success(nil), nil
	})
}

func TestRegistry_KeepsRegistrationOrder(t *testing.T) {
	r := NewRegistry()
	for _, n := range []string{"serialize", "hash", "network"} {
		if err := r.Register(noop(n)); err != nil {
			t.Fatalf("Register(%s): %v", n, err)
		}
	}
	if diff := cmp.Diff([]string{"serialize", "hash", "network"}, r.Names()); diff != "" {
		t.Fatalf("order (-want +got):\n%s", diff)
	}

	// restartable: a second pass sees the same sequence
	var again []string
	for p := range r.All() {
		again = append(again, p.Name())
	}
	if diff := cmp.Diff(r.Names(), again); diff != "" {
		t.Fatalf("second pass differs (-want +got):\n%s", diff)
	}
}

func TestRegistry_DuplicateName(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(noop("hash")); err != nil {
		t.Fatal(err)
	}
	err := r.Register(noop("hash"))
	if !errors.Is(err, ErrDuplicateProbeName) {
		t.Fatalf("want ErrDuplicateProbeName, got %v", err)
	}
	var dup *DuplicateProbeNameError
	if !errors.As(err, &dup) || dup.Name != "hash" {
		t.Fatalf("want DuplicateProbeNameError for hash, got %#v", err)
	}
	if r.Len() != 1 {
		t.Fatalf("duplicate must not be added, len=%d", r.Len())
	}
}

func TestRegistry_RejectsNilAndUnnamed(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(nil); err == nil {
		t.Fatal("nil probe accepted")
	}
	if err := r.Register(noop("")); err == nil {
		t.Fatal("unnamed probe accepted")
	}
}

func TestRegistry_AllStopsEarly(t *testing.T) {
	r := NewRegistry().MustRegister(noop("a"), noop("b"), noop("c"))
	n := 0
	for range r.All() {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Fatalf("want 2 iterations, got %d", n)
	}
}

func TestRegistry_MustRegisterPanicsOnDuplicate(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	NewRegistry().MustRegister(noop("a"), noop("a"))
}
