// Package store implements the on-disk side of the object cache.
//
// The store knows nothing about URIs: callers hand it path elements already
// derived from an endpoint and an object, and it keeps one regular file per
// object. There is no index, no eviction and no integrity check; a file that
// exists is a cache hit.
package store

import "io"

// Store handles local object storage.
type Store interface {
	// Root returns the directory every path lives under.
	Root() string

	// Path joins elem under Root. It touches nothing on disk.
	Path(elem ...string) string

	// Has reports whether path exists as a regular file.
	Has(path string) (bool, error)

	// Write replaces the contents of path with everything read from r,
	// creating parent directories as needed. The previous contents stay in
	// place until r is fully consumed.
	Write(path string, r io.Reader) (int64, error)
}
