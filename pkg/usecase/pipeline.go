package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/newsdesk/pkg/domain/interfaces"
	"github.com/m-mizutani/newsdesk/pkg/domain/model"
)

// Pipeline runs its steps in order and stops at the first failure
type Pipeline struct {
	steps   []Step
	hooks   []interfaces.RunHook
	timeout time.Duration
	now     func() time.Time

	runLock sync.Mutex
	running atomic.Bool

	lastMu sync.RWMutex
	last   *model.RunResult
}

var _ interfaces.PipelineUseCase = (*Pipeline)(nil)

// PipelineOption is a functional option for Pipeline
type PipelineOption func(*Pipeline)

// WithRunHooks adds hooks invoked after every run
func WithRunHooks(hooks ...interfaces.RunHook) PipelineOption {
	return func(p *Pipeline) {
		p.hooks = append(p.hooks, hooks...)
	}
}

// WithRunTimeout bounds the duration of a run. Zero disables the bound.
func WithRunTimeout(d time.Duration) PipelineOption {
	return func(p *Pipeline) {
		p.timeout = d
	}
}

// WithPipelineClock replaces the clock used for run timestamps
func WithPipelineClock(now func() time.Time) PipelineOption {
	return func(p *Pipeline) {
		p.now = now
	}
}

// NewPipeline creates a pipeline of the given steps
func NewPipeline(steps []Step, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		steps: steps,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes one pipeline run. The result is returned even when a step fails.
func (p *Pipeline) Run(ctx context.Context, trigger model.Trigger) (*model.RunResult, error) {
	if !p.runLock.TryLock() {
		return nil, ErrRunInProgress
	}
	defer p.runLock.Unlock()

	p.running.Store(true)
	defer p.running.Store(false)

	result := &model.RunResult{
		ID:        uuid.NewString(),
		Trigger:   trigger,
		Status:    model.StatusRunning,
		StartedAt: p.now(),
		Steps:     make([]*model.StepResult, len(p.steps)),
	}
	for i, step := range p.steps {
		result.Steps[i] = &model.StepResult{Name: step.Name, Status: model.StatusPending}
	}

	logger := ctxlog.From(ctx).With("run_id", result.ID, "trigger", trigger)
	ctx = ctxlog.With(ctx, logger)

	runCtx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	logger.Info("Pipeline run started", "steps", len(p.steps))
	runErr := p.execute(runCtx, result)

	result.FinishedAt = p.now()
	if runErr != nil {
		result.Status = model.StatusFailed
		logger.Error("Pipeline run failed", "error", runErr, "duration", result.Duration())
	} else {
		result.Status = model.StatusSuccess
		logger.Info("Pipeline run finished", "duration", result.Duration())
	}

	p.lastMu.Lock()
	p.last = result
	p.lastMu.Unlock()

	p.invokeHooks(context.WithoutCancel(ctx), result)

	return result, runErr
}

func (p *Pipeline) execute(ctx context.Context, result *model.RunResult) error {
	logger := ctxlog.From(ctx)

	for i, step := range p.steps {
		sr := result.Steps[i]
		sr.Status = model.StatusRunning
		sr.StartedAt = p.now()

		logger.Info("Step started", "step", step.Name)
		summary, err := step.Run(ctxlog.With(ctx, logger.With("step", step.Name)))
		sr.Duration = p.now().Sub(sr.StartedAt)

		if err != nil {
			sr.Status = model.StatusFailed
			sr.Error = err.Error()
			for _, rest := range result.Steps[i+1:] {
				rest.Status = model.StatusSkipped
			}
			return goerr.Wrap(err, "step failed", goerr.V("step", step.Name))
		}

		sr.Status = model.StatusSuccess
		sr.Summary = summary
		logger.Info("Step finished", "step", step.Name, "summary", summary, "duration", sr.Duration)
	}

	return nil
}

func (p *Pipeline) invokeHooks(ctx context.Context, result *model.RunResult) {
	logger := ctxlog.From(ctx)
	for _, hook := range p.hooks {
		if err := hook.AfterRun(ctx, result); err != nil {
			logger.Warn("Run hook failed", "error", err)
		}
	}
}

// LastRun returns the most recent finished run, or nil
func (p *Pipeline) LastRun() *model.RunResult {
	p.lastMu.RLock()
	defer p.lastMu.RUnlock()
	return p.last
}

// Running reports whether a run is active
func (p *Pipeline) Running() bool {
	return p.running.Load()
}
