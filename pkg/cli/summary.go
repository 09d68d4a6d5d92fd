package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/m-mizutani/newsdesk/pkg/domain/model"
)

var statusColors = map[model.RunStatus]*color.Color{
	model.StatusSuccess: color.New(color.FgGreen, color.Bold),
	model.StatusFailed:  color.New(color.FgRed, color.Bold),
	model.StatusSkipped: color.New(color.FgYellow),
	model.StatusPending: color.New(color.FgHiBlack),
	model.StatusRunning: color.New(color.FgCyan),
}

func colorize(status model.RunStatus) string {
	c, ok := statusColors[status]
	if !ok {
		return string(status)
	}
	return c.Sprint(string(status))
}

// printSummary writes one line per step and the overall outcome
func printSummary(w io.Writer, result *model.RunResult) {
	bold := color.New(color.Bold)

	fmt.Fprintf(w, "\n%s %s (%s)\n", bold.Sprint("Run"), result.ID, result.Trigger)
	for _, step := range result.Steps {
		detail := step.Summary
		if step.Error != "" {
			detail = step.Error
		}
		fmt.Fprintf(w, "  %-9s %-18s %8s  %s\n",
			step.Name,
			colorize(step.Status),
			step.Duration.Round(time.Millisecond),
			detail,
		)
	}
	fmt.Fprintf(w, "%s %s in %s\n", bold.Sprint("Result"), colorize(result.Status), result.Duration().Round(time.Millisecond))
}
