package dstore

import (
	"context"
	"fmt"
	"sync"
)

// Object pairs a remote identifier with the local path it was materialized
// to. The local path is recorded by the first successful Get; the file
// itself belongs to the Cache.
type Object struct {
	cache *Cache
	id    string

	mu        sync.Mutex
	localPath string
}

// Object returns a handle for id. Nothing is fetched.
func (c *Cache) Object(id string) *Object {
	return &Object{cache: c, id: id}
}

// NewObject returns a handle for id, materializing it immediately if get.
func NewObject(ctx context.Context, c *Cache, id string, get bool) (*Object, error) {
	o := c.Object(id)
	if get {
		if _, err := o.Get(ctx, false); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// RemotePath returns the identifier the handle was created with.
func (o *Object) RemotePath() string { return o.id }

// LocalPath returns the recorded local path, or "" before a successful Get.
func (o *Object) LocalPath() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.localPath
}

// Get materializes the object and returns its local path. Later calls return
// the recorded path unless force is set.
func (o *Object) Get(ctx context.Context, force bool) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.localPath != "" && !force {
		return o.localPath, nil
	}
	path, err := o.cache.Materialize(ctx, o.id, force)
	if err != nil {
		return "", err
	}
	o.localPath = path
	return path, nil
}

// Put would publish the local file back to the store. It is not supported.
func (o *Object) Put(ctx context.Context, force bool) (string, error) {
	return "", fmt.Errorf("%w: publishing %s", ErrNotImplemented, o.id)
}

func (o *Object) String() string {
	var local = o.LocalPath()
	if local == "" {
		local = "<none>"
	}
	return fmt.Sprintf("%T: remote_path=%s, local_path=%s", o, o.id, local)
}
