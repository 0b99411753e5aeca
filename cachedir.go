package dstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// remoteSubdir holds every materialized object below the cache base.
const remoteSubdir = "remote"

// ResolveCacheRoot returns the absolute directory holding materialized
// objects for cfg. The base is the data-store override, else the cache
// override, else ~/.cache/dstore/dstore_<Version>. A base tagged with the
// sentinel version resolves to its parent so that the cache survives
// upgrades. Objects live in its "remote" subdirectory.
func ResolveCacheRoot(cfg Config) (string, error) {
	dir := cfg.DataStoreCacheDir
	if dir == "" {
		dir = cfg.CacheDir
	}
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("%w: no home directory for the default cache, set %s: %v", ErrConfiguration, EnvCacheDir, err)
		}
		dir = filepath.Join(home, ".cache", "dstore", "dstore_"+Version)
	}

	dir, err := filepath.Abs(expandPath(dir))
	if err != nil {
		return "", fmt.Errorf("resolve cache dir: %w", err)
	}
	if Version == sentinelVersion && strings.HasSuffix(filepath.Base(dir), "_"+sentinelVersion) {
		dir = filepath.Dir(dir)
	}
	return filepath.Join(dir, remoteSubdir), nil
}

// LocalPath returns where id is cached for cfg:
//
//	<cache base>/remote/<host>/<port>/<bucket>/<key>
//
// It is a pure function of cfg and id.
func LocalPath(cfg Config, id string) (string, error) {
	root, err := ResolveCacheRoot(cfg)
	if err != nil {
		return "", err
	}
	rel, err := relativePath(cfg, id)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, rel), nil
}

// relativePath is LocalPath below the cache root.
func relativePath(cfg Config, id string) (string, error) {
	if !IsRemote(id) {
		return "", fmt.Errorf("%w: unexpected store path format: %q", ErrFormat, id)
	}
	if cfg.Endpoint == "" {
		return "", fmt.Errorf("%w: %s not set, cannot resolve %s", ErrConfiguration, EnvEndpoint, id)
	}
	endpointDir, err := EndpointDir(cfg.Endpoint)
	if err != nil {
		return "", err
	}
	bucket, key, err := Decompose(id)
	if err != nil {
		return "", err
	}
	return filepath.Join(endpointDir, bucket, filepath.FromSlash(key)), nil
}

func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
