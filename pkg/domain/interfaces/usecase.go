package interfaces

import (
	"context"

	"github.com/m-mizutani/newsdesk/pkg/domain/model"
)

// PipelineUseCase runs the fetch → generate → publish → commit sequence
type PipelineUseCase interface {
	// Run executes one pipeline run. It fails with ErrRunInProgress when another run is active.
	Run(ctx context.Context, trigger model.Trigger) (*model.RunResult, error)

	// LastRun returns the most recent finished run, or nil
	LastRun() *model.RunResult

	// Running reports whether a run is active
	Running() bool
}
