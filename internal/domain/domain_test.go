package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestOverallStatusOf_AllCombinationsOfThree(t *testing.T) {
	for mask := 0; mask < 8; mask++ {
		outcomes := make([]Outcome, 3)
		passed := 0
		for i := range outcomes {
			if mask&(1<<i) != 0 {
				outcomes[i] = Success(nil)
				passed++
			} else {
				outcomes[i] = Failure("Boom", fmt.Sprintf("probe %d", i))
			}
		}

		want := PartialFailure
		switch passed {
		case 3:
			want = AllPassed
		case 0:
			want = AllFailed
		}

		if got := OverallStatusOf(outcomes); got != want {
			t.Fatalf("mask=%03b: got %s want %s", mask, got, want)
		}
	}
}

func TestOverallStatusOf_EmptyIsAllPassed(t *testing.T) {
	if got := OverallStatusOf(nil); got != AllPassed {
		t.Fatalf("empty: got %s want %s", got, AllPassed)
	}
}

func TestOverallStatusOf_SkippedIsNotPassed(t *testing.T) {
	got := OverallStatusOf([]Outcome{Success(nil), Skipped("canceled")})
	if got != PartialFailure {
		t.Fatalf("got %s want %s", got, PartialFailure)
	}
	got = OverallStatusOf([]Outcome{Skipped("canceled")})
	if got != AllFailed {
		t.Fatalf("got %s want %s", got, AllFailed)
	}
}

func TestSuccess_CopiesDetails(t *testing.T) {
	details := map[string]string{"bytes": "42"}
	o := Success(details)
	details["bytes"] = "0"
	if o.Details["bytes"] != "42" {
		t.Fatalf("outcome shares caller map: %v", o.Details)
	}
}

func TestOutcome_ZeroIsInvalid(t *testing.T) {
	if (Outcome{}).Valid() {
		t.Fatal("zero outcome should be invalid")
	}
	for _, o := range []Outcome{Success(nil), Failure("x", "y"), Skipped("z")} {
		if !o.Valid() {
			t.Fatalf("%+v should be valid", o)
		}
	}
}

func TestReportBuilder_KeepsOrderAndSeals(t *testing.T) {
	start := time.Date(2025, 8, 18, 12, 0, 0, 0, time.UTC)
	b := NewReportBuilder(start)
	want := []ProbeResult{
		{Name: "serialize", Outcome: Success(map[string]string{"format": "json"}), DurationMicros: 12, StartedAt: start},
		{Name: "hash", Outcome: Failure("Hash", "cost too high"), DurationMicros: 30, StartedAt: start},
		{Name: "network", Outcome: Skipped("canceled"), StartedAt: start},
	}
	for _, r := range want {
		b.Append(r)
	}
	rep := b.Seal(start.Add(time.Second))

	if diff := cmp.Diff(want, rep.Results()); diff != "" {
		t.Fatalf("results mismatch (-want +got):\n%s", diff)
	}
	if rep.Status() != PartialFailure {
		t.Fatalf("status: got %s", rep.Status())
	}
	if rep.Duration() != time.Second {
		t.Fatalf("duration: got %s", rep.Duration())
	}
	passed, failed, skipped := rep.Counts()
	if passed != 1 || failed != 1 || skipped != 1 {
		t.Fatalf("counts: %d/%d/%d", passed, failed, skipped)
	}
}

func TestRunReport_ResultsAreCopies(t *testing.T) {
	b := NewReportBuilder(time.Now())
	b.Append(ProbeResult{Name: "a", Outcome: Success(map[string]string{"k": "v"})})
	rep := b.Seal(time.Now())

	got := rep.Results()
	got[0].Name = "changed"
	got[0].Outcome.Details["k"] = "changed"

	again := rep.Results()
	if again[0].Name != "a" || again[0].Outcome.Details["k"] != "v" {
		t.Fatalf("sealed report was mutated through accessor: %+v", again[0])
	}
}

func TestReportBuilder_AppendAfterSealPanics(t *testing.T) {
	b := NewReportBuilder(time.Now())
	b.Seal(time.Now())

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on append after seal")
		}
	}()
	b.Append(ProbeResult{Name: "late"})
}
