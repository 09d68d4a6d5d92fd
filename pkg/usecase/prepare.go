package usecase

import (
	"context"
	"fmt"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/newsdesk/pkg/domain/interfaces"
	"github.com/m-mizutani/newsdesk/pkg/domain/model"
)

// Check validates one run precondition
type Check struct {
	Name string
	Run  func(ctx context.Context) error
}

// Prepare provisions everything a run depends on before any network work starts
type Prepare struct {
	workspace interfaces.Workspace
	checks    []Check
}

// NewPrepare creates the prepare step use case
func NewPrepare(workspace interfaces.Workspace, checks ...Check) *Prepare {
	return &Prepare{
		workspace: workspace,
		checks:    checks,
	}
}

// Prepare creates the workspace layout and runs each check in order
func (uc *Prepare) Prepare(ctx context.Context) error {
	logger := ctxlog.From(ctx)

	if err := uc.workspace.Prepare(ctx); err != nil {
		return goerr.Wrap(err, "failed to prepare workspace")
	}
	logger.Debug("Workspace prepared", "root", uc.workspace.Root())

	for _, check := range uc.checks {
		if err := check.Run(ctx); err != nil {
			return goerr.Wrap(err, "precondition failed", goerr.V("check", check.Name))
		}
		logger.Debug("Precondition satisfied", "check", check.Name)
	}

	return nil
}

// Step returns the pipeline step for this use case
func (uc *Prepare) Step() Step {
	return Step{
		Name: model.StepPrepare,
		Run: func(ctx context.Context) (string, error) {
			if err := uc.Prepare(ctx); err != nil {
				return "", err
			}
			return fmt.Sprintf("workspace ready, %d checks passed", len(uc.checks)), nil
		},
	}
}
