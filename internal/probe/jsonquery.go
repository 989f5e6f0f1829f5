package probe

import (
	"context"
	"fmt"

	"github.com/itchyny/gojq"

	"github.com/hamed0406/capprobe/internal/domain"
)

// JSONQueryProbe compiles a jq expression and runs it over a small
// document.
type JSONQueryProbe struct {
	Query string
}

func (p *JSONQueryProbe) Name() string { return "jsonquery" }

var jqDocument = map[string]any{
	"name":  "capprobe",
	"items": []any{"Item1", "Item2", "Item3"},
}

func (p *JSONQueryProbe) Execute(ctx context.Context) (domain.Outcome, error) {
	q := p.Query
	if q == "" {
		q = ".items | length"
	}
	parsed, err := gojq.Parse(q)
	if err != nil {
		return fail("Query", err)
	}
	code, err := gojq.Compile(parsed)
	if err != nil {
		return fail("Query", err)
	}

	iter := code.RunWithContext(ctx, jqDocument)
	v, more := iter.Next()
	if !more {
		return domain.Failure("Query", "query produced no value"), nil
	}
	if err, isErr := v.(error); isErr {
		return fail("Query", err)
	}

	return ok(map[string]string{
		"query":  q,
		"result": fmt.Sprint(v),
	})
}
