package probe

import (
	"context"
	"fmt"
	"slices"

	"github.com/samber/lo"

	"github.com/hamed0406/capprobe/internal/domain"
)

// CollectionsProbe shuffles and chunks a small slice.
type CollectionsProbe struct{}

func (p *CollectionsProbe) Name() string { return "collections" }

func (p *CollectionsProbe) Execute(ctx context.Context) (domain.Outcome, error) {
	numbers := []int{1, 2, 3, 4, 5}

	shuffled := lo.Shuffle(slices.Clone(numbers))
	sorted := slices.Sorted(slices.Values(shuffled))
	if !slices.Equal(sorted, numbers) {
		return domain.Failure("Collections", fmt.Sprintf("shuffle lost elements: %v", shuffled)), nil
	}

	chunks := lo.Chunk(numbers, 2)
	if len(chunks) != 3 || len(chunks[2]) != 1 {
		return domain.Failure("Collections", fmt.Sprintf("unexpected chunks: %v", chunks)), nil
	}

	return ok(map[string]string{
		"shuffled": fmt.Sprint(shuffled),
		"chunks":   fmt.Sprint(chunks),
		"sum":      fmt.Sprint(lo.Sum(numbers)),
	})
}
