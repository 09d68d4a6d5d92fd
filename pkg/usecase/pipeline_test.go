package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/newsdesk/pkg/domain/model"
	"github.com/m-mizutani/newsdesk/pkg/usecase"
)

type recordingHook struct {
	mu      sync.Mutex
	results []*model.RunResult
	err     error
}

func (h *recordingHook) AfterRun(ctx context.Context, result *model.RunResult) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.results = append(h.results, result)
	return h.err
}

func staticStep(name model.StepName, order *[]model.StepName, err error) usecase.Step {
	return usecase.Step{
		Name: name,
		Run: func(ctx context.Context) (string, error) {
			*order = append(*order, name)
			if err != nil {
				return "", err
			}
			return string(name) + " done", nil
		},
	}
}

func TestPipeline_Success(t *testing.T) {
	var order []model.StepName
	hook := &recordingHook{}
	p := usecase.NewPipeline([]usecase.Step{
		staticStep(model.StepPrepare, &order, nil),
		staticStep(model.StepFetch, &order, nil),
		staticStep(model.StepGenerate, &order, nil),
		staticStep(model.StepPublish, &order, nil),
		staticStep(model.StepCommit, &order, nil),
	}, usecase.WithRunHooks(hook))

	gt.Value(t, p.LastRun()).Nil()

	result, err := p.Run(context.Background(), model.TriggerManual)
	gt.NoError(t, err)
	gt.V(t, result.Status).Equal(model.StatusSuccess)
	gt.V(t, result.Trigger).Equal(model.TriggerManual)
	gt.V(t, result.ID).NotEqual("")
	gt.V(t, order).Equal([]model.StepName{
		model.StepPrepare, model.StepFetch, model.StepGenerate, model.StepPublish, model.StepCommit,
	})
	for _, step := range result.Steps {
		gt.V(t, step.Status).Equal(model.StatusSuccess)
		gt.V(t, step.Summary).Equal(string(step.Name) + " done")
	}
	gt.False(t, result.FinishedAt.IsZero())

	gt.V(t, p.LastRun()).Equal(result)
	gt.A(t, hook.results).Length(1)
	gt.False(t, p.Running())
}

func TestPipeline_StopsAtFirstFailure(t *testing.T) {
	var order []model.StepName
	hook := &recordingHook{err: errors.New("slack is down")}
	p := usecase.NewPipeline([]usecase.Step{
		staticStep(model.StepPrepare, &order, nil),
		staticStep(model.StepFetch, &order, errors.New("dns failure")),
		staticStep(model.StepGenerate, &order, nil),
		staticStep(model.StepCommit, &order, nil),
	}, usecase.WithRunHooks(hook))

	result, err := p.Run(context.Background(), model.TriggerSchedule)
	gt.Error(t, err)
	gt.String(t, err.Error()).Contains("step failed")

	gt.V(t, order).Equal([]model.StepName{model.StepPrepare, model.StepFetch})
	gt.V(t, result.Status).Equal(model.StatusFailed)
	gt.V(t, result.Step(model.StepPrepare).Status).Equal(model.StatusSuccess)
	gt.V(t, result.Step(model.StepFetch).Status).Equal(model.StatusFailed)
	gt.V(t, result.Step(model.StepFetch).Error).Equal("dns failure")
	gt.V(t, result.Step(model.StepGenerate).Status).Equal(model.StatusSkipped)
	gt.V(t, result.Step(model.StepCommit).Status).Equal(model.StatusSkipped)
	gt.V(t, result.FailedStep().Name).Equal(model.StepFetch)

	// hook errors do not change the result
	gt.A(t, hook.results).Length(1)
	gt.V(t, p.LastRun().Status).Equal(model.StatusFailed)
}

func TestPipeline_RejectsOverlap(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	p := usecase.NewPipeline([]usecase.Step{{
		Name: model.StepFetch,
		Run: func(ctx context.Context) (string, error) {
			close(started)
			<-release
			return "", nil
		},
	}})

	done := make(chan error, 1)
	go func() {
		_, err := p.Run(context.Background(), model.TriggerSchedule)
		done <- err
	}()

	<-started
	gt.True(t, p.Running())

	_, err := p.Run(context.Background(), model.TriggerManual)
	gt.True(t, errors.Is(err, usecase.ErrRunInProgress))

	close(release)
	gt.NoError(t, <-done)
	gt.False(t, p.Running())
}

func TestPipeline_Timeout(t *testing.T) {
	p := usecase.NewPipeline([]usecase.Step{{
		Name: model.StepFetch,
		Run: func(ctx context.Context) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		},
	}}, usecase.WithRunTimeout(10*time.Millisecond))

	result, err := p.Run(context.Background(), model.TriggerManual)
	gt.Error(t, err)
	gt.True(t, errors.Is(err, context.DeadlineExceeded))
	gt.V(t, result.Status).Equal(model.StatusFailed)
}
