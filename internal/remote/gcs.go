package remote

import (
	"context"
	"io"
	"net/url"
	"strings"
	"sync"

	"cloud.google.com/go/storage"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// GCS opens objects from Google Cloud Storage (gs://bucket/key).
// The storage client is built on first use with default credentials.
type GCS struct {
	opts []option.ClientOption

	mu     sync.Mutex
	client *storage.Client
}

// NewGCS returns a GCS client. opts are passed to storage.NewClient.
func NewGCS(opts ...option.ClientOption) *GCS {
	return &GCS{opts: opts}
}

// Open implements Client.
func (c *GCS) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid GCS URI %q", uri)
	}
	bucket, object := u.Host, strings.TrimPrefix(u.Path, "/")
	if bucket == "" || object == "" {
		return nil, errors.Errorf("invalid GCS URI %q: want gs://<bucket>/<object>", uri)
	}

	client, err := c.storageClient()
	if err != nil {
		return nil, err
	}
	r, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "get gs://%s/%s", bucket, object)
	}
	return r, nil
}

func (c *GCS) storageClient() (*storage.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return c.client, nil
	}
	client, err := storage.NewClient(context.Background(), c.opts...)
	if err != nil {
		return nil, errors.Wrap(err, "constructing GCS client")
	}
	log.Info("constructed new GCS client")

	c.client = client
	return client, nil
}
