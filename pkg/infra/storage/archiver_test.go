package storage_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/newsdesk/pkg/domain/model"
	"github.com/m-mizutani/newsdesk/pkg/infra/file"
	"github.com/m-mizutani/newsdesk/pkg/infra/storage"
)

func TestArchiver(t *testing.T) {
	bucket := os.Getenv("TEST_STORAGE_BUCKET")
	if bucket == "" {
		t.Skip("TEST_STORAGE_BUCKET is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	ws := file.NewWorkspace(t.TempDir())
	gt.NoError(t, ws.Prepare(ctx))
	gt.NoError(t, ws.SavePosts(ctx, []*model.Post{{ID: "docker_0_20250307_090405"}}))

	a, err := storage.New(ctx, bucket, "newsdesk-test", ws)
	gt.NoError(t, err)
	defer a.Close()

	result := &model.RunResult{ID: uuid.NewString(), Status: model.StatusSuccess, StartedAt: time.Now()}
	gt.NoError(t, a.AfterRun(ctx, result))
}

func TestArchiver_SkipsFailedRun(t *testing.T) {
	bucket := os.Getenv("TEST_STORAGE_BUCKET")
	if bucket == "" {
		t.Skip("TEST_STORAGE_BUCKET is not set")
	}

	ctx := context.Background()
	a, err := storage.New(ctx, bucket, "newsdesk-test", file.NewWorkspace(t.TempDir()))
	gt.NoError(t, err)
	defer a.Close()

	gt.NoError(t, a.AfterRun(ctx, &model.RunResult{ID: "failed", Status: model.StatusFailed}))
}

func TestNew_RequiresBucket(t *testing.T) {
	_, err := storage.New(context.Background(), "", "", file.NewWorkspace(t.TempDir()))
	gt.Error(t, err)
}
