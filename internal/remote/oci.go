package remote

import (
	"context"
	"io"
	"net/url"
	"time"

	"github.com/google/go-containerregistry/pkg/authn"
	"github.com/google/go-containerregistry/pkg/name"
	v1 "github.com/google/go-containerregistry/pkg/v1"
	"github.com/google/go-containerregistry/pkg/v1/remote"
	"github.com/pkg/errors"
)

// DefaultRegistryAttempts bounds the backoff loop of Registry.
const DefaultRegistryAttempts = 3

// Registry opens blobs stored in OCI registries.
//
// URIs have the form oci://<registry>/<repository>@sha256:<hex>.
type Registry struct {
	auth     Authenticator
	attempts int
}

// NewRegistry returns a Registry client. A nil auth uses the docker keychain.
func NewRegistry(auth Authenticator) *Registry {
	return &Registry{auth: auth, attempts: DefaultRegistryAttempts}
}

// Open implements Client.
func (r *Registry) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	ref, err := parseBlobRef(uri)
	if err != nil {
		return nil, err
	}
	options := r.remoteOptions(ctx, ref)

	layer, err := retry(ctx, r.attempts, func() (v1.Layer, error) {
		return remote.Layer(ref, options...)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "fetch blob %s", ref)
	}
	rc, err := retry(ctx, r.attempts, layer.Compressed)
	if err != nil {
		return nil, errors.Wrapf(err, "read blob %s", ref)
	}
	return rc, nil
}

func (r *Registry) remoteOptions(ctx context.Context, ref name.Digest) []remote.Option {
	options := []remote.Option{remote.WithContext(ctx)}
	if a := authenticator(r.auth, ref.Context().RegistryStr()); a != nil {
		return append(options, remote.WithAuth(a))
	}
	return append(options, remote.WithAuthFromKeychain(authn.DefaultKeychain))
}

func parseBlobRef(uri string) (name.Digest, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return name.Digest{}, errors.Wrapf(err, "invalid blob URI %q", uri)
	}
	if u.Scheme != "oci" || u.Host == "" {
		return name.Digest{}, errors.Errorf("invalid blob URI %q: want oci://<registry>/<repository>@sha256:<hex>", uri)
	}
	ref, err := name.NewDigest(u.Host + u.Path)
	if err != nil {
		return name.Digest{}, errors.Wrapf(err, "invalid blob URI %q", uri)
	}
	return ref, nil
}

func retry[T any](ctx context.Context, maxAttempts int, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err
		if i < maxAttempts-1 {
			delay := time.Duration(1<<i) * 500 * time.Millisecond // 500ms, 1s, 2s, 4s...
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return zero, lastErr
}
