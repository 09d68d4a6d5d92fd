package config

import (
	"github.com/urfave/cli/v3"
)

// Cloud holds Google Cloud backends used by the pipeline
type Cloud struct {
	FirestoreProjectID  string
	FirestoreDatabaseID string
	FirestoreCollection string
	StorageBucket       string
	StoragePrefix       string
}

// Flags returns CLI flags for Google Cloud configuration
func (c *Cloud) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Usage:       "Keep the published ledger in Firestore instead of data/published_posts.json",
			Destination: &c.FirestoreProjectID,
			Sources:     cli.EnvVars("NEWSDESK_FIRESTORE_PROJECT_ID"),
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Usage:       "Firestore database ID",
			Destination: &c.FirestoreDatabaseID,
			Sources:     cli.EnvVars("NEWSDESK_FIRESTORE_DATABASE_ID"),
		},
		&cli.StringFlag{
			Name:        "firestore-collection",
			Usage:       "Firestore collection of published posts",
			Value:       "published_posts",
			Destination: &c.FirestoreCollection,
			Sources:     cli.EnvVars("NEWSDESK_FIRESTORE_COLLECTION"),
		},
		&cli.StringFlag{
			Name:        "storage-bucket",
			Usage:       "Cloud Storage bucket archiving artifacts of successful runs",
			Destination: &c.StorageBucket,
			Sources:     cli.EnvVars("NEWSDESK_STORAGE_BUCKET"),
		},
		&cli.StringFlag{
			Name:        "storage-prefix",
			Usage:       "Object prefix inside the archive bucket",
			Value:       "runs",
			Destination: &c.StoragePrefix,
			Sources:     cli.EnvVars("NEWSDESK_STORAGE_PREFIX"),
		},
	}
}
