package http

import (
	"net/http"

	"github.com/m-mizutani/newsdesk/pkg/domain/interfaces"
	"github.com/m-mizutani/newsdesk/pkg/domain/model"
	"github.com/m-mizutani/newsdesk/pkg/domain/types"
)

// HealthHandler reports liveness and the status of the latest run
type HealthHandler struct {
	pipelineUC interfaces.PipelineUseCase
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(pipelineUC interfaces.PipelineUseCase) *HealthHandler {
	return &HealthHandler{pipelineUC: pipelineUC}
}

// Handle handles health check requests
func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	status := &model.HealthStatus{
		Status:  "healthy",
		Service: "newsdesk",
		Version: types.Version,
	}
	if h.pipelineUC.Running() {
		status.LastRun = model.StatusRunning
	} else if last := h.pipelineUC.LastRun(); last != nil {
		status.LastRun = last.Status
	}

	writeJSON(w, r, http.StatusOK, status)
}
