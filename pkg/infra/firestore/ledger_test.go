package firestore_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/newsdesk/pkg/domain/model"
	"github.com/m-mizutani/newsdesk/pkg/infra/firestore"
)

func TestLedger(t *testing.T) {
	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID is not set")
	}
	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	collection := "newsdesk_test_" + uuid.NewString()
	ledger, err := firestore.New(ctx, projectID, databaseID, firestore.WithCollection(collection))
	gt.NoError(t, err)
	defer ledger.Close()

	ids, err := ledger.PublishedIDs(ctx)
	gt.NoError(t, err)
	gt.V(t, len(ids)).Equal(0)

	post := &model.Post{ID: "docker_0_20250307_090405", Title: "Docker: A", WordPressID: 42}
	gt.NoError(t, ledger.Record(ctx, []*model.Post{post}))
	// recording the same post again is not an error
	gt.NoError(t, ledger.Record(ctx, []*model.Post{post}))

	ids, err = ledger.PublishedIDs(ctx)
	gt.NoError(t, err)
	_, ok := ids[post.ID]
	gt.True(t, ok)
}

func TestNew_RequiresProject(t *testing.T) {
	_, err := firestore.New(context.Background(), "", "")
	gt.Error(t, err)
}
