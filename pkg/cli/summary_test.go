package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/newsdesk/pkg/domain/model"
)

func TestPrintSummary(t *testing.T) {
	color.NoColor = true

	started := time.Date(2025, 3, 7, 9, 0, 0, 0, time.UTC)
	result := &model.RunResult{
		ID:         "run-1",
		Trigger:    model.TriggerManual,
		Status:     model.StatusFailed,
		StartedAt:  started,
		FinishedAt: started.Add(3 * time.Second),
		Steps: []*model.StepResult{
			{Name: model.StepPrepare, Status: model.StatusSuccess, Summary: "workspace ready, 2 checks passed", Duration: 2 * time.Millisecond},
			{Name: model.StepFetch, Status: model.StatusFailed, Error: "fetch interrupted"},
			{Name: model.StepGenerate, Status: model.StatusSkipped},
		},
	}

	var buf bytes.Buffer
	printSummary(&buf, result)

	out := buf.String()
	gt.String(t, out).Contains("Run run-1 (manual)")
	gt.String(t, out).Contains("workspace ready, 2 checks passed")
	gt.String(t, out).Contains("fetch interrupted")
	gt.String(t, out).Contains("skipped")
	gt.String(t, out).Contains("Result failed in 3s")
}
