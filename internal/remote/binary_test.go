package remote

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

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

func TestBinaryStreamsObject(t *testing.T) {
	var args = filepath.Join(t.TempDir(), "args")
	var bin = writeScript(t, `
echo "$@" > '`+args+`'
echo "$AIS_ENDPOINT" >> '`+args+`'
printf 'hello world'
`)

	var b = &Binary{Path: bin, Endpoint: "http://localhost:51080"}
	rc, err := b.Open(context.Background(), "ais://bucket/dir/obj.wav")
	require.NoError(t, err)

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	require.Equal(t, "hello world", string(data))

	invocation, err := os.ReadFile(args)
	require.NoError(t, err)
	require.Equal(t, "get ais://bucket/dir/obj.wav -\nhttp://localhost:51080\n", string(invocation))
}

func TestBinaryRetryBound(t *testing.T) {
	var count = filepath.Join(t.TempDir(), "count")
	var bin = writeScript(t, `
echo x >> '`+count+`'
echo "ErrObjNotFound: ais://bucket/missing does not exist" >&2
exit 1
`)

	var attempts []int
	var b = &Binary{Path: bin, Retries: 3, OnAttempt: func(n int) { attempts = append(attempts, n) }}

	_, err := b.Open(context.Background(), "ais://bucket/missing")
	require.ErrorIs(t, err, ErrFetch)

	var exhausted *ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	require.Equal(t, 3, exhausted.Attempts)
	require.Equal(t, "ErrObjNotFound: ais://bucket/missing does not exist", exhausted.Stderr)
	require.Contains(t, err.Error(), "after 3 attempts")
	require.Equal(t, []int{1, 2, 3}, attempts)

	spawned, err := os.ReadFile(count)
	require.NoError(t, err)
	require.Equal(t, 3, strings.Count(string(spawned), "x"))
}

func TestBinaryDefaultRetries(t *testing.T) {
	var count = filepath.Join(t.TempDir(), "count")
	var bin = writeScript(t, `echo x >> '`+count+`'`)

	_, err := (&Binary{Path: bin}).Open(context.Background(), "ais://bucket/empty")
	require.ErrorIs(t, err, ErrFetch)

	spawned, err := os.ReadFile(count)
	require.NoError(t, err)
	require.Equal(t, DefaultRetries, strings.Count(string(spawned), "x"))
}

func TestBinaryRecoversOnLaterAttempt(t *testing.T) {
	var count = filepath.Join(t.TempDir(), "count")
	var bin = writeScript(t, `
echo x >> '`+count+`'
if [ $(wc -l < '`+count+`') -lt 3 ]; then
  echo "proxy not ready" >&2
  exit 1
fi
printf 'payload'
`)

	rc, err := (&Binary{Path: bin}).Open(context.Background(), "ais://bucket/obj")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, "payload", string(data))
}

func TestBinaryReportsExitAfterData(t *testing.T) {
	var bin = writeScript(t, `
printf 'partial'
echo "connection reset" >&2
exit 3
`)

	rc, err := (&Binary{Path: bin}).Open(context.Background(), "ais://bucket/obj")
	require.NoError(t, err)

	data, err := io.ReadAll(rc)
	require.Error(t, err)
	require.Contains(t, err.Error(), "connection reset")
	require.Equal(t, "partial", string(data))
	require.NoError(t, rc.Close())
}

func TestBinaryCloseBeforeEOF(t *testing.T) {
	var bin = writeScript(t, `
while :; do echo y; done
`)

	rc, err := (&Binary{Path: bin}).Open(context.Background(), "ais://bucket/endless")
	require.NoError(t, err)

	var buf = make([]byte, 4)
	_, err = io.ReadFull(rc, buf)
	require.NoError(t, err)
	require.Equal(t, "y\ny\n", string(buf))

	require.NoError(t, rc.Close())
	require.NoError(t, rc.Close())
}

func TestBinaryMissingExecutable(t *testing.T) {
	var b = &Binary{Path: filepath.Join(t.TempDir(), "missing", "ais"), Retries: 2}

	_, err := b.Open(context.Background(), "ais://bucket/obj")
	require.ErrorIs(t, err, ErrFetch)

	var exhausted *ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	require.Equal(t, 2, exhausted.Attempts)
	require.Contains(t, exhausted.Stderr, "no such file or directory")
}
