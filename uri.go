package dstore

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aweris/dstore/internal/remote"
)

// IsRemote reports whether id names an object in a remote store, that is,
// has a scheme followed by "://" and a non-empty authority. Everything else
// is a local path. The text is not validated or decoded, so object names
// with stray '%' or '#' still count as remote.
func IsRemote(id string) bool {
	_, _, ok := remote.SplitURI(id)
	return ok
}

// Decompose splits a remote identifier into its bucket and object key.
// The authority is the bucket; the remaining path segments are the key:
//
//	ais://bucket/dir/obj.wav -> ("bucket", "dir/obj.wav")
//
// Segments are taken verbatim: percent-escapes, queries and fragments stay
// part of the key, so distinct identifiers never share a key.
func Decompose(id string) (bucket, key string, err error) {
	_, rest, ok := remote.SplitURI(id)
	if !ok {
		return "", "", fmt.Errorf("%w: provided URI is not a valid store path: %q", ErrFormat, id)
	}

	var segments []string
	for _, s := range strings.Split(rest, "/") {
		switch s {
		case "", ".":
			continue
		case "..":
			return "", "", fmt.Errorf("%w: store path %q escapes its bucket", ErrFormat, id)
		}
		segments = append(segments, s)
	}
	if len(segments) < 2 {
		return "", "", fmt.Errorf("%w: store path %q has no object key, want scheme://bucket/key", ErrFormat, id)
	}
	return segments[0], strings.Join(segments[1:], "/"), nil
}

// EndpointDir converts an endpoint like http://host:port to the relative
// directory host/port used in the cache layout.
func EndpointDir(endpoint string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("%w: unexpected format for endpoint %q: %v", ErrFormat, endpoint, err)
	}
	host := strings.ToLower(u.Hostname())
	port, err := strconv.Atoi(u.Port())
	if host == "" || err != nil || port <= 0 || port > 65535 {
		return "", fmt.Errorf("%w: unexpected format for endpoint %q, want scheme://host:port", ErrFormat, endpoint)
	}
	return filepath.Join(host, strconv.Itoa(port)), nil
}
