package storage

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path"
	"path/filepath"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/newsdesk/pkg/domain/interfaces"
	"github.com/m-mizutani/newsdesk/pkg/domain/model"
)

const runFile = "run.json"

// Archiver copies the artifacts of successful runs to a Cloud Storage bucket
// under <prefix>/<run id>/.
type Archiver struct {
	client    *storage.Client
	bucket    string
	prefix    string
	workspace interfaces.Workspace
}

var _ interfaces.RunHook = (*Archiver)(nil)

// New creates an Archiver for bucket
func New(ctx context.Context, bucket, prefix string, workspace interfaces.Workspace) (*Archiver, error) {
	if bucket == "" {
		return nil, goerr.New("Cloud Storage bucket is required")
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Cloud Storage client")
	}

	return &Archiver{
		client:    client,
		bucket:    bucket,
		prefix:    prefix,
		workspace: workspace,
	}, nil
}

// Close releases the storage client
func (a *Archiver) Close() error {
	return a.client.Close()
}

// ObjectName returns the object name of file within the archive of run id
func (a *Archiver) ObjectName(id, file string) string {
	return path.Join(a.prefix, id, file)
}

// AfterRun uploads run.json and the workspace summary files. Failed runs are not archived.
func (a *Archiver) AfterRun(ctx context.Context, result *model.RunResult) error {
	if result.Status != model.StatusSuccess {
		return nil
	}
	logger := ctxlog.From(ctx)

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return goerr.Wrap(err, "failed to encode run result")
	}
	if err := a.put(ctx, a.ObjectName(result.ID, runFile), func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	}); err != nil {
		return err
	}

	for _, p := range a.workspace.ArtifactPaths() {
		if err := a.putFile(ctx, a.ObjectName(result.ID, filepath.Base(p)), p); err != nil {
			return err
		}
	}

	logger.Info("Archived run artifacts", "bucket", a.bucket, "prefix", a.ObjectName(result.ID, ""))
	return nil
}

func (a *Archiver) putFile(ctx context.Context, name, src string) error {
	f, err := os.Open(src)
	if err != nil {
		return goerr.Wrap(err, "failed to open artifact", goerr.V("path", src))
	}
	defer f.Close()

	return a.put(ctx, name, func(w io.Writer) error {
		_, err := io.Copy(w, f)
		return err
	})
}

func (a *Archiver) put(ctx context.Context, name string, write func(io.Writer) error) error {
	w := a.client.Bucket(a.bucket).Object(name).NewWriter(ctx)
	w.ContentType = "application/json"

	if err := write(w); err != nil {
		_ = w.Close()
		return goerr.Wrap(err, "failed to write object", goerr.V("bucket", a.bucket), goerr.V("object", name))
	}
	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to upload object", goerr.V("bucket", a.bucket), goerr.V("object", name))
	}
	return nil
}
