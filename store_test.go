package dstore

import (
	"context"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewClientDispatchesOnScheme(t *testing.T) {
	var ctx = context.Background()
	var s3 = newFakeClient(map[string]string{"s3://bucket/obj.wav": "s3 bytes"})
	var client = NewClient(map[string]Client{
		"s3":  s3,
		"oci": NewRegistryClient(StaticAuthenticator{Username: "bot", Password: "token"}),
	})
	var c, fs = newTestCache(t, client)

	path, err := c.Materialize(ctx, "s3://bucket/obj.wav", false)
	require.NoError(t, err)
	require.Equal(t, "/cache/remote/localhost/51080/bucket/obj.wav", path)
	require.Equal(t, "s3 bytes", readFile(t, fs, path))

	_, err = c.Materialize(ctx, "ais://bucket/obj.wav", false)
	require.ErrorContains(t, err, "unsupported scheme")

	// Malformed digests fail before any network access.
	_, err = c.Open(ctx, "oci://ghcr.io/org/data@sha256:nope")
	require.ErrorContains(t, err, "invalid blob URI")
}

func TestSDKClientLocalPaths(t *testing.T) {
	var path = t.TempDir() + "/obj.txt"
	require.NoError(t, os.WriteFile(path, []byte("on disk"), 0644))

	rc, err := NewSDKClient().Open(context.Background(), path)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, "on disk", string(data))
}
