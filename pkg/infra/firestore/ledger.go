package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/newsdesk/pkg/domain/interfaces"
	"github.com/m-mizutani/newsdesk/pkg/domain/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// DefaultCollection holds one document per published post, keyed by post ID
const DefaultCollection = "published_posts"

// Ledger records published posts in a Firestore collection
type Ledger struct {
	client     *firestore.Client
	collection string
}

var _ interfaces.PublishLedger = (*Ledger)(nil)

// Option is a functional option for Ledger
type Option func(*Ledger)

// WithCollection sets the collection name
func WithCollection(name string) Option {
	return func(l *Ledger) {
		l.collection = name
	}
}

// New connects to Firestore. An empty databaseID selects the default database.
func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Ledger, error) {
	if projectID == "" {
		return nil, goerr.New("Firestore project ID is required")
	}
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Firestore client",
			goerr.V("project_id", projectID),
			goerr.V("database_id", databaseID),
		)
	}

	l := &Ledger{client: client, collection: DefaultCollection}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Close releases the Firestore client
func (l *Ledger) Close() error {
	return l.client.Close()
}

// PublishedIDs returns the document IDs of the collection
func (l *Ledger) PublishedIDs(ctx context.Context) (map[string]struct{}, error) {
	ids := make(map[string]struct{})

	iter := l.client.Collection(l.collection).Select().Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list published posts", goerr.V("collection", l.collection))
		}
		ids[doc.Ref.ID] = struct{}{}
	}

	return ids, nil
}

// Record creates one document per post. Posts already recorded are left untouched.
func (l *Ledger) Record(ctx context.Context, posts []*model.Post) error {
	for _, post := range posts {
		_, err := l.client.Collection(l.collection).Doc(post.ID).Create(ctx, post)
		if status.Code(err) == codes.AlreadyExists {
			continue
		}
		if err != nil {
			return goerr.Wrap(err, "failed to record published post",
				goerr.V("collection", l.collection),
				goerr.V("id", post.ID),
			)
		}
	}
	return nil
}
