package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/hamed0406/capprobe/internal/domain"
)

type sample struct {
	ID        uuid.UUID `json:"id" yaml:"id"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	Items     []string  `json:"items" yaml:"items"`
}

// SerializeProbe round-trips a record through JSON or YAML and checks that
// nothing was lost on the way.
type SerializeProbe struct {
	Format string // "json" (default) or "yaml"
}

func (p *SerializeProbe) Name() string { return "serialize" }

func (p *SerializeProbe) Execute(ctx context.Context) (domain.Outcome, error) {
	in := sample{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		Items:     []string{"Item1", "Item2", "Item3"},
	}

	format := p.Format
	if format == "" {
		format = "json"
	}

	var (
		data []byte
		out  sample
		err  error
	)
	switch format {
	case "json":
		if data, err = json.MarshalIndent(in, "", "  "); err == nil {
			err = json.Unmarshal(data, &out)
		}
	case "yaml":
		if data, err = yaml.Marshal(in); err == nil {
			err = yaml.Unmarshal(data, &out)
		}
	default:
		return domain.Failure("Config", fmt.Sprintf("unknown serialize format %q", format)), nil
	}
	if err != nil {
		return fail("Serialize", err)
	}

	if out.ID != in.ID || !out.CreatedAt.Equal(in.CreatedAt) || !slices.Equal(out.Items, in.Items) {
		return domain.Failure("Serialize", "decoded record differs from the original"), nil
	}
	return ok(map[string]string{
		"format": format,
		"bytes":  strconv.Itoa(len(data)),
		"id":     in.ID.String(),
	})
}
