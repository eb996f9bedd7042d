// Package store persists classification runs and their per-point results.
package store

import (
	"context"

	"github.com/sells-group/windprox-cli/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus
	Limit  int
	Offset int
}

// Store defines the persistence interface for classification runs.
type Store interface {
	CreateRun(ctx context.Context, params model.RunParams) (*model.Run, error)
	CompleteRun(ctx context.Context, runID string, summary *model.SummaryStatistics) error
	FailRun(ctx context.Context, runID string, cause error) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	SaveResults(ctx context.Context, runID string, results []model.ProximityResult) error
	GetResults(ctx context.Context, runID string) ([]model.ProximityResult, error)

	Migrate(ctx context.Context) error
	Close() error
}
