package http

import (
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/newsdesk/pkg/domain/interfaces"
)

// RunsHandler exposes finished pipeline runs
type RunsHandler struct {
	pipelineUC interfaces.PipelineUseCase
}

// NewRunsHandler creates a new RunsHandler
func NewRunsHandler(pipelineUC interfaces.PipelineUseCase) *RunsHandler {
	return &RunsHandler{pipelineUC: pipelineUC}
}

// HandleLatest returns the most recent finished run
func (h *RunsHandler) HandleLatest(w http.ResponseWriter, r *http.Request) {
	last := h.pipelineUC.LastRun()
	if last == nil {
		writeError(w, r, goerr.New("no run has finished yet"), http.StatusNotFound)
		return
	}

	writeJSON(w, r, http.StatusOK, last)
}
