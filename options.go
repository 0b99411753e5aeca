package dstore

import (
	"os"

	"github.com/aweris/dstore/internal/remote"
	"github.com/spf13/afero"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvEndpoint          = remote.EndpointEnv
	EnvCacheDir          = "DSTORE_CACHE_DIR"
	EnvDataStoreCacheDir = "DSTORE_DATA_STORE_CACHE_DIR"
)

const (
	DefaultRetries     = remote.DefaultRetries
	DefaultConcurrency = 4
)

// Version tags the default cache directory. The "git" sentinel makes every
// build share one cache directory.
var Version = sentinelVersion

const sentinelVersion = "git"

// Config is everything the cache needs to know about its environment.
// Resolve it once and pass it to New.
type Config struct {
	Endpoint          string // scheme://host:port of the remote store
	CacheDir          string // general cache root override
	DataStoreCacheDir string // takes precedence over CacheDir
	Binary            string // external client; empty when not installed
	Retries           int    // spawn attempts of the binary strategy
	Client            Client // optional; supersedes the binary when set
}

// ConfigFromEnv reads the environment and locates the external binary.
func ConfigFromEnv() Config {
	binary, _ := LocateBinary()
	return Config{
		Endpoint:          ResolveEndpoint(),
		CacheDir:          os.Getenv(EnvCacheDir),
		DataStoreCacheDir: os.Getenv(EnvDataStoreCacheDir),
		Binary:            binary,
		Retries:           DefaultRetries,
	}
}

// Options configures a Cache.
type Options struct {
	Config
	Fs          afero.Fs
	Concurrency int
}

// Option is a functional option for configuring New.
type Option func(*Options)

func defaultOptions() *Options {
	return &Options{
		Config:      ConfigFromEnv(),
		Fs:          afero.NewOsFs(),
		Concurrency: DefaultConcurrency,
	}
}

// WithConfig replaces the environment-derived configuration.
func WithConfig(cfg Config) Option {
	return func(o *Options) { o.Config = cfg }
}

// WithEndpoint sets the remote store endpoint.
func WithEndpoint(endpoint string) Option {
	return func(o *Options) { o.Endpoint = endpoint }
}

// WithCacheDir sets the cache root override.
func WithCacheDir(dir string) Option {
	return func(o *Options) { o.CacheDir = dir }
}

// WithDataStoreCacheDir sets the data-store cache root override.
func WithDataStoreCacheDir(dir string) Option {
	return func(o *Options) { o.DataStoreCacheDir = dir }
}

// WithBinary sets the path of the external client.
func WithBinary(path string) Option {
	return func(o *Options) { o.Binary = path }
}

// WithRetries sets how many processes the binary strategy may spawn per open.
func WithRetries(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.Retries = n
		}
	}
}

// WithClient sets a Client that supersedes the external binary.
func WithClient(c Client) Option {
	return func(o *Options) { o.Client = c }
}

// WithFs sets the filesystem holding the cache and local identifiers.
func WithFs(fs afero.Fs) Option {
	return func(o *Options) { o.Fs = fs }
}

// WithConcurrency sets the number of parallel fetches of MaterializeAll.
func WithConcurrency(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.Concurrency = n
		}
	}
}
