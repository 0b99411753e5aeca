package dstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveEndpoint(t *testing.T) {
	t.Setenv(EnvEndpoint, "")
	require.Equal(t, "", ResolveEndpoint())

	t.Setenv(EnvEndpoint, "http://localhost:51080")
	require.Equal(t, "http://localhost:51080", ResolveEndpoint())
}

func TestLocateBinary(t *testing.T) {
	var bin, other = t.TempDir(), t.TempDir()
	var onPath = filepath.Join(bin, "ais")
	var fallback = filepath.Join(other, "ais")
	require.NoError(t, os.WriteFile(onPath, []byte("#!/bin/sh\n"), 0755))
	require.NoError(t, os.WriteFile(fallback, []byte("#!/bin/sh\n"), 0755))

	t.Setenv("PATH", bin)
	path, ok := locateBinary("ais", fallback)
	require.True(t, ok)
	require.Equal(t, onPath, path)

	t.Setenv("PATH", t.TempDir())
	path, ok = locateBinary("ais", fallback)
	require.True(t, ok)
	require.Equal(t, fallback, path)

	// A directory at the fallback location does not count.
	path, ok = locateBinary("ais", other)
	require.False(t, ok)
	require.Equal(t, "", path)

	_, ok = locateBinary("ais", filepath.Join(other, "missing"))
	require.False(t, ok)
}
