package usecase

import (
	"context"

	"github.com/m-mizutani/newsdesk/pkg/domain/model"
)

// Step is one stage of a pipeline run. Run returns a one-line summary for the run result.
type Step struct {
	Name model.StepName
	Run  func(ctx context.Context) (string, error)
}
