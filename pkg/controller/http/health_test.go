package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/m-mizutani/gt"
	controller "github.com/m-mizutani/newsdesk/pkg/controller/http"
	"github.com/m-mizutani/newsdesk/pkg/domain/model"
)

type fakePipeline struct {
	mu      sync.Mutex
	running bool
	last    *model.RunResult
	runs    chan model.Trigger
	release chan struct{} // Run blocks until closed when set
}

func newFakePipeline() *fakePipeline {
	return &fakePipeline{runs: make(chan model.Trigger, 1)}
}

func (f *fakePipeline) Run(ctx context.Context, trigger model.Trigger) (*model.RunResult, error) {
	result := &model.RunResult{ID: "run-1", Trigger: trigger, Status: model.StatusSuccess}
	f.mu.Lock()
	f.last = result
	f.mu.Unlock()
	f.runs <- trigger
	if f.release != nil {
		<-f.release
	}
	return result, nil
}

func (f *fakePipeline) LastRun() *model.RunResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

func (f *fakePipeline) Running() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

func newServer(t *testing.T, p *fakePipeline, opts ...controller.Option) *controller.Server {
	t.Helper()
	opts = append([]controller.Option{controller.WithAddr("localhost:0")}, opts...)
	server, err := controller.NewServer(context.Background(), p, opts...)
	gt.NoError(t, err)
	return server
}

func TestHealthEndpoint(t *testing.T) {
	p := newFakePipeline()
	server := newServer(t, p)

	get := func(t *testing.T) model.HealthStatus {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()
		server.Handler.ServeHTTP(w, req)
		gt.V(t, w.Code).Equal(http.StatusOK)

		var status model.HealthStatus
		gt.NoError(t, json.NewDecoder(w.Body).Decode(&status))
		return status
	}

	t.Run("before any run", func(t *testing.T) {
		status := get(t)
		gt.V(t, status.Status).Equal("healthy")
		gt.V(t, status.Service).Equal("newsdesk")
		gt.V(t, status.Version).NotEqual("")
		gt.V(t, status.LastRun).Equal(model.RunStatus(""))
	})

	t.Run("reports last run", func(t *testing.T) {
		p.last = &model.RunResult{Status: model.StatusFailed}
		gt.V(t, get(t).LastRun).Equal(model.StatusFailed)
	})

	t.Run("reports active run", func(t *testing.T) {
		p.running = true
		defer func() { p.running = false }()
		gt.V(t, get(t).LastRun).Equal(model.StatusRunning)
	})
}

func TestRunsLatest(t *testing.T) {
	p := newFakePipeline()
	server := newServer(t, p)

	req := httptest.NewRequest(http.MethodGet, "/runs/latest", nil)
	w := httptest.NewRecorder()
	server.Handler.ServeHTTP(w, req)
	gt.V(t, w.Code).Equal(http.StatusNotFound)

	p.last = &model.RunResult{ID: "run-9", Trigger: model.TriggerSchedule, Status: model.StatusSuccess}

	w = httptest.NewRecorder()
	server.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/runs/latest", nil))
	gt.V(t, w.Code).Equal(http.StatusOK)

	var got model.RunResult
	gt.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	gt.V(t, got.ID).Equal("run-9")
	gt.V(t, got.Trigger).Equal(model.TriggerSchedule)
}
