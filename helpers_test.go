package dstore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

const testEndpoint = "http://localhost:51080"

// fakeClient serves objects from memory and counts opens per identifier.
type fakeClient struct {
	mu      sync.Mutex
	objects map[string]string
	opens   map[string]int
	err     error
}

func newFakeClient(objects map[string]string) *fakeClient {
	return &fakeClient{objects: objects, opens: make(map[string]int)}
}

func (c *fakeClient) Open(_ context.Context, id string) (io.ReadCloser, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.opens[id]++
	if c.err != nil {
		return nil, c.err
	}
	data, ok := c.objects[id]
	if !ok {
		return nil, os.ErrNotExist
	}
	return io.NopCloser(strings.NewReader(data)), nil
}

func (c *fakeClient) Opens(id string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opens[id]
}

// newTestCache returns a Cache rooted at /cache of an in-memory filesystem.
func newTestCache(t *testing.T, client Client, opts ...Option) (*Cache, afero.Fs) {
	t.Helper()
	var fs = afero.NewMemMapFs()
	opts = append([]Option{
		WithConfig(Config{Endpoint: testEndpoint, CacheDir: "/cache", Client: client}),
		WithFs(fs),
	}, opts...)
	return New(opts...), fs
}

func readFile(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	return string(data)
}

// writeScript installs a fake `ais` binary running body under /bin/sh.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake binaries require /bin/sh")
	}
	var path = filepath.Join(t.TempDir(), "ais")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755))
	return path
}
