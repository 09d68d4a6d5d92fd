package slack_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/newsdesk/pkg/domain/model"
	"github.com/m-mizutani/newsdesk/pkg/infra/slack"
)

type webhookBody struct {
	Channel     string `json:"channel"`
	Text        string `json:"text"`
	Attachments []struct {
		Color  string `json:"color"`
		Title  string `json:"title"`
		Fields []struct {
			Title string `json:"title"`
			Value string `json:"value"`
		} `json:"fields"`
	} `json:"attachments"`
}

func newResult(status model.RunStatus) *model.RunResult {
	started := time.Date(2025, 3, 7, 9, 0, 0, 0, time.UTC)
	result := &model.RunResult{
		ID:         "run-1",
		Trigger:    model.TriggerSchedule,
		Status:     status,
		StartedAt:  started,
		FinishedAt: started.Add(90 * time.Second),
		Steps: []*model.StepResult{
			{Name: model.StepFetch, Status: model.StatusSuccess, Summary: "12 articles, 3 images"},
			{Name: model.StepPublish, Status: model.StatusSuccess, Summary: "3 published"},
		},
	}
	if status == model.StatusFailed {
		result.Steps[1].Status = model.StatusFailed
		result.Steps[1].Summary = ""
		result.Steps[1].Error = "401 unauthorized"
	}
	return result
}

func TestNotifier_AfterRun(t *testing.T) {
	var got webhookBody
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gt.V(t, r.Method).Equal(http.MethodPost)
		gt.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n, err := slack.New(srv.URL, slack.WithChannel("#news"))
	gt.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		gt.NoError(t, n.AfterRun(context.Background(), newResult(model.StatusSuccess)))
		gt.V(t, got.Channel).Equal("#news")
		gt.String(t, got.Text).Contains("run succeeded (schedule, 1m30s)")
		gt.V(t, len(got.Attachments)).Equal(1)
		gt.V(t, got.Attachments[0].Color).Equal("good")
		gt.V(t, got.Attachments[0].Fields[0].Value).Equal("success: 12 articles, 3 images")
	})

	t.Run("failure", func(t *testing.T) {
		gt.NoError(t, n.AfterRun(context.Background(), newResult(model.StatusFailed)))
		gt.String(t, got.Text).Contains("run failed")
		gt.String(t, got.Text).Contains("at publish: 401 unauthorized")
		gt.V(t, got.Attachments[0].Color).Equal("danger")
		gt.V(t, got.Attachments[0].Fields[1].Value).Equal("failed: 401 unauthorized")
	})
}

func TestNotifier_LongErrorIsTruncatedOnRunes(t *testing.T) {
	var got webhookBody
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gt.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n, err := slack.New(srv.URL)
	gt.NoError(t, err)

	result := newResult(model.StatusFailed)
	result.Steps[1].Error = strings.Repeat("é", 300)
	gt.NoError(t, n.AfterRun(context.Background(), result))

	value := got.Attachments[0].Fields[1].Value
	gt.V(t, value).Equal("failed: " + strings.Repeat("é", 200) + "...")
	gt.True(t, utf8.ValidString(value))
}

func TestNotifier_WebhookError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	n, err := slack.New(srv.URL)
	gt.NoError(t, err)
	gt.Error(t, n.AfterRun(context.Background(), newResult(model.StatusSuccess)))
}

func TestNew_RequiresURL(t *testing.T) {
	_, err := slack.New("")
	gt.Error(t, err)
}
