package dstore

import (
	"context"
	"io"
	"os"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestOpenerStrategy(t *testing.T) {
	var client = newFakeClient(nil)

	var o = NewOpener(Config{Client: client}, nil)
	require.Equal(t, strategyClient, o.strategyFor("ais://bucket/key"))
	require.Equal(t, strategyClient, o.strategyFor("/data/key"))

	o = NewOpener(Config{}, nil)
	require.Equal(t, strategyBinary, o.strategyFor("ais://bucket/key"))
	require.Equal(t, strategyLocal, o.strategyFor("/data/key"))

	require.Equal(t, "binary", strategyBinary.String())
	require.Equal(t, "strategy(7)", strategy(7).String())
}

func TestOpenerLocal(t *testing.T) {
	var fs = afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/data/obj.txt", []byte("local bytes"), 0644))

	var o = NewOpener(Config{}, fs)
	rc, err := o.Open(context.Background(), "/data/obj.txt")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	require.Equal(t, "local bytes", string(data))

	_, err = o.Open(context.Background(), "/data/missing.txt")
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpenerClientTakesPrecedence(t *testing.T) {
	var client = newFakeClient(map[string]string{
		"ais://bucket/key": "from client",
		"/data/key":        "also from client",
	})
	var o = NewOpener(Config{Client: client, Binary: "/nonexistent/ais", Endpoint: testEndpoint}, afero.NewMemMapFs())
	var attempts = testutil.ToFloat64(fetchAttemptsTotal.WithLabelValues("client"))

	for id, expect := range map[string]string{
		"ais://bucket/key": "from client",
		"/data/key":        "also from client",
	} {
		rc, err := o.Open(context.Background(), id)
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.Equal(t, expect, string(data))
		require.Equal(t, 1, client.Opens(id))
	}
	require.Equal(t, attempts+2, testutil.ToFloat64(fetchAttemptsTotal.WithLabelValues("client")))

	var failures = testutil.ToFloat64(fetchFailuresTotal.WithLabelValues("client"))
	_, err := o.Open(context.Background(), "ais://bucket/missing")
	require.ErrorIs(t, err, os.ErrNotExist)
	require.Equal(t, failures+1, testutil.ToFloat64(fetchFailuresTotal.WithLabelValues("client")))
}

func TestOpenerBinaryRequiresEndpointAndBinary(t *testing.T) {
	var ctx = context.Background()

	_, err := NewOpener(Config{Binary: "/usr/local/bin/ais"}, nil).Open(ctx, "ais://bucket/key")
	require.ErrorIs(t, err, ErrConfiguration)
	require.ErrorContains(t, err, EnvEndpoint)

	_, err = NewOpener(Config{Endpoint: testEndpoint}, nil).Open(ctx, "ais://bucket/key")
	require.ErrorIs(t, err, ErrSetup)
	require.ErrorContains(t, err, installGuide)
}

func TestOpenerBinary(t *testing.T) {
	var bin = writeScript(t, `
if [ "$1 $2 $3" != "get ais://bucket/key -" ] || [ "$AIS_ENDPOINT" != "`+testEndpoint+`" ]; then
  echo "bad invocation: $*" >&2
  exit 2
fi
printf 'streamed'
`)
	var attempts = testutil.ToFloat64(fetchAttemptsTotal.WithLabelValues("binary"))

	var o = NewOpener(Config{Endpoint: testEndpoint, Binary: bin, Retries: 2}, nil)
	rc, err := o.Open(context.Background(), "ais://bucket/key")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	require.Equal(t, "streamed", string(data))
	require.Equal(t, attempts+1, testutil.ToFloat64(fetchAttemptsTotal.WithLabelValues("binary")))
}

func TestOpenerBinaryExhausted(t *testing.T) {
	var bin = writeScript(t, `
echo "ErrObjNotFound" >&2
exit 1
`)
	var attempts = testutil.ToFloat64(fetchAttemptsTotal.WithLabelValues("binary"))
	var failures = testutil.ToFloat64(fetchFailuresTotal.WithLabelValues("binary"))

	var o = NewOpener(Config{Endpoint: testEndpoint, Binary: bin, Retries: 3}, nil)
	_, err := o.Open(context.Background(), "ais://bucket/missing")
	require.ErrorIs(t, err, ErrFetch)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	require.Equal(t, "ErrObjNotFound", fetchErr.Stderr)

	require.Equal(t, attempts+3, testutil.ToFloat64(fetchAttemptsTotal.WithLabelValues("binary")))
	require.Equal(t, failures+1, testutil.ToFloat64(fetchFailuresTotal.WithLabelValues("binary")))
}
