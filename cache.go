package dstore

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aweris/dstore/internal/store"
	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/afero"
)

// Cache materializes remote objects as local files.
//
// Files are laid out deterministically below the cache root, so separate
// processes sharing a root share their downloads. A file that exists is a
// hit: contents are never verified. Concurrent writers to the same root are
// not coordinated beyond each write being an atomic rename.
type Cache struct {
	cfg         Config
	fs          afero.Fs
	opener      *Opener
	concurrency int
}

// New returns a Cache configured from the environment, then opts.
func New(opts ...Option) *Cache {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	return &Cache{
		cfg:         options.Config,
		fs:          options.Fs,
		opener:      NewOpener(options.Config, options.Fs),
		concurrency: options.Concurrency,
	}
}

// LocalPath returns where id is cached, without touching the disk.
func (c *Cache) LocalPath(id string) (string, error) {
	return LocalPath(c.cfg, id)
}

// Open returns a stream of id's contents, bypassing the cache.
func (c *Cache) Open(ctx context.Context, id string) (io.ReadCloser, error) {
	return c.opener.Open(ctx, id)
}

// Materialize ensures id is available as a local file and returns its path.
// Local identifiers are returned unchanged. Remote identifiers are fetched
// unless already cached; force fetches them again regardless.
//
// A failed fetch leaves any previous copy in place.
func (c *Cache) Materialize(ctx context.Context, id string, force bool) (string, error) {
	if !IsRemote(id) {
		cacheRequestsTotal.WithLabelValues(resultLocal).Inc()
		return id, nil
	}

	root, err := ResolveCacheRoot(c.cfg)
	if err != nil {
		return "", err
	}
	rel, err := relativePath(c.cfg, id)
	if err != nil {
		return "", err
	}
	var st store.Store = store.NewLocalStore(c.fs, root)
	var path = st.Path(rel)

	if !force {
		ok, err := st.Has(path)
		if err != nil {
			return "", fmt.Errorf("stat %s: %w", path, err)
		}
		if ok {
			cacheRequestsTotal.WithLabelValues(resultHit).Inc()
			log.WithFields(log.Fields{"id": id, "path": path}).Debug("cache hit")
			return path, nil
		}
	}
	cacheRequestsTotal.WithLabelValues(resultMiss).Inc()

	var started = time.Now()
	rc, err := c.opener.Open(ctx, id)
	if err != nil {
		return "", err
	}
	n, err := st.Write(path, rc)
	if cerr := rc.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		return "", fmt.Errorf("materialize %s: %w", id, err)
	}

	materializedBytesTotal.Add(float64(n))
	materializeDuration.Observe(time.Since(started).Seconds())
	log.WithFields(log.Fields{
		"id":    id,
		"path":  path,
		"size":  humanize.Bytes(uint64(n)),
		"took":  time.Since(started).Round(time.Millisecond),
		"force": force,
	}).Info("materialized object")

	return path, nil
}

// MaterializeAll materializes ids in parallel and returns their local paths
// in the order of ids. Repeated identifiers are fetched once. The first
// failure cancels outstanding fetches.
func (c *Cache) MaterializeAll(ctx context.Context, ids []string, force bool) ([]string, error) {
	var unique []string
	var index = make(map[string]int, len(ids))
	for _, id := range ids {
		if _, ok := index[id]; !ok {
			index[id] = len(unique)
			unique = append(unique, id)
		}
	}

	var paths = make([]string, len(unique))
	p := pool.New().WithMaxGoroutines(c.concurrency).WithContext(ctx).WithCancelOnError()
	for i, id := range unique {
		i, id := i, id
		p.Go(func(ctx context.Context) error {
			path, err := c.Materialize(ctx, id, force)
			if err != nil {
				return err
			}
			paths[i] = path
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	var out = make([]string, len(ids))
	for i, id := range ids {
		out[i] = paths[index[id]]
	}
	return out, nil
}
