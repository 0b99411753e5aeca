package remote

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-containerregistry/pkg/authn"
	"github.com/stretchr/testify/require"
)

func TestParseBlobRef(t *testing.T) {
	var digest = "sha256:" + strings.Repeat("ab", 32)

	ref, err := parseBlobRef("oci://ghcr.io/org/datasets@" + digest)
	require.NoError(t, err)
	require.Equal(t, "ghcr.io", ref.Context().RegistryStr())
	require.Equal(t, "org/datasets", ref.Context().RepositoryStr())
	require.Equal(t, digest, ref.DigestStr())

	for _, uri := range []string{
		"oci://ghcr.io/org/datasets:latest",
		"s3://ghcr.io/org/datasets@" + digest,
		"oci:///org/datasets@" + digest,
	} {
		_, err = parseBlobRef(uri)
		require.Error(t, err, uri)
	}
}

func TestAuthenticator(t *testing.T) {
	require.Nil(t, authenticator(nil, "ghcr.io"))
	require.Nil(t, authenticator(StaticAuthenticator{}, "ghcr.io"))

	a := authenticator(StaticAuthenticator{Username: "bot", Password: "s3cret"}, "ghcr.io")
	require.Equal(t, &authn.Basic{Username: "bot", Password: "s3cret"}, a)
}

func TestRetry(t *testing.T) {
	var calls int
	got, err := retry(context.Background(), 2, func() (string, error) {
		if calls++; calls == 1 {
			return "", errors.New("transient")
		}
		return "ok", nil
	})
	require.NoError(t, err)
	require.Equal(t, "ok", got)
	require.Equal(t, 2, calls)

	calls = 0
	var ctx, cancel = context.WithCancel(context.Background())
	cancel()
	_, err = retry(ctx, 3, func() (string, error) {
		calls++
		return "", errors.New("down")
	})
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, calls)
}

func mustParseURL(t *testing.T, s string) *url.URL {
	t.Helper()
	u, err := url.Parse(s)
	require.NoError(t, err)
	return u
}
