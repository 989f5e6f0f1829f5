package probe

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/multierr"

	"github.com/hamed0406/capprobe/internal/config"
)

func TestCatalog_DefaultProbesAllKnown(t *testing.T) {
	c := NewCatalog(config.Default())
	reg, err := c.BuildConfigured()
	if err != nil {
		t.Fatalf("BuildConfigured: %v", err)
	}
	if diff := cmp.Diff(config.DefaultProbes, reg.Names()); diff != "" {
		t.Fatalf("names (-want +got):\n%s", diff)
	}
	if len(c.Kinds()) != reg.Len() {
		t.Fatalf("every kind should be in the default set: kinds=%v", c.Kinds())
	}
}

func TestCatalog_ReportsAllConfigErrors(t *testing.T) {
	c := NewCatalog(config.Default())
	reg, err := c.Build([]string{"hash", "bogus", "hash", "token", "nope"})
	if reg != nil {
		t.Fatal("registry must be nil on error")
	}
	if !errors.Is(err, ErrDuplicateProbeName) {
		t.Fatalf("want duplicate error in %v", err)
	}
	if !errors.Is(err, ErrUnknownProbe) {
		t.Fatalf("want unknown probe error in %v", err)
	}
	if n := len(multierr.Errors(err)); n != 3 {
		t.Fatalf("want 3 errors, got %d: %v", n, err)
	}
}

func TestCatalog_NamesAreCaseInsensitive(t *testing.T) {
	reg, err := NewCatalog(config.Default()).Build([]string{" Hash", "TOKEN"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if diff := cmp.Diff([]string{"hash", "token"}, reg.Names()); diff != "" {
		t.Fatalf("names (-want +got):\n%s", diff)
	}
}

func TestCatalog_EmptyListIsEmptyRegistry(t *testing.T) {
	reg, err := NewCatalog(config.Default()).Build(nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if reg.Len() != 0 {
		t.Fatalf("want empty registry, got %d", reg.Len())
	}
}
