// Package remote implements the ways an object URI becomes a byte stream.
//
// Two families live here:
// - Client implementations backed by SDKs (S3, GCS, Azure, OCI registries),
//   each owning its own retry policy
// - Binary, which shells out to the AIStore CLI with a bounded spawn-and-peek loop
package remote

import (
	"context"
	"io"

	"github.com/pkg/errors"
)

// ErrFetch is returned (wrapped) when every attempt to stream an object failed.
var ErrFetch = errors.New("dstore: fetch failed")

// ErrUnsupportedScheme is returned by Mux for URIs no client is registered for.
var ErrUnsupportedScheme = errors.New("dstore: unsupported scheme")

// Client opens remote objects for streamed reading.
type Client interface {
	// Open returns a stream over the object at uri. The caller closes it.
	Open(ctx context.Context, uri string) (io.ReadCloser, error)
}

// ClientFunc adapts an ordinary function to Client.
type ClientFunc func(ctx context.Context, uri string) (io.ReadCloser, error)

// Open calls f(ctx, uri).
func (f ClientFunc) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	return f(ctx, uri)
}
