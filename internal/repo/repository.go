package repo

import (
	"context"

	"github.com/hamed0406/capprobe/internal/domain"
)

// ReportStore holds the most recently published run report. Only the latest
// report is kept; older ones are dropped on Save.
type ReportStore interface {
	Save(ctx context.Context, r *domain.RunReport) error
	// Latest returns nil, false before the first Save.
	Latest(ctx context.Context) (*domain.RunReport, bool)
}
