package dstore

import (
	"context"
	"fmt"
	"io"

	"github.com/aweris/dstore/internal/remote"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// strategy is how an Opener reaches an identifier.
type strategy int

const (
	strategyClient strategy = iota // configured Client, for every identifier
	strategyBinary                 // external CLI, for remote identifiers
	strategyLocal                  // filesystem, for local identifiers
)

func (s strategy) String() string {
	switch s {
	case strategyClient:
		return "client"
	case strategyBinary:
		return "binary"
	case strategyLocal:
		return "local"
	}
	return fmt.Sprintf("strategy(%d)", int(s))
}

// Opener opens readable streams for identifiers. A configured Client wins;
// otherwise remote identifiers go through the external binary and local
// ones are opened from the filesystem.
type Opener struct {
	cfg Config
	fs  afero.Fs
}

// NewOpener returns an Opener for cfg. A nil fs uses the OS filesystem.
func NewOpener(cfg Config, fs afero.Fs) *Opener {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Opener{cfg: cfg, fs: fs}
}

func (o *Opener) strategyFor(id string) strategy {
	switch {
	case o.cfg.Client != nil:
		return strategyClient
	case IsRemote(id):
		return strategyBinary
	default:
		return strategyLocal
	}
}

// Open returns a stream of the contents of id. The caller must close it.
// Streams of the binary strategy are live: a non-zero exit of the process is
// reported by the Read that would otherwise return io.EOF.
func (o *Opener) Open(ctx context.Context, id string) (io.ReadCloser, error) {
	var s = o.strategyFor(id)
	log.WithFields(log.Fields{"id": id, "strategy": s}).Debug("opening stream")

	switch s {
	case strategyClient:
		fetchAttemptsTotal.WithLabelValues(s.String()).Inc()
		rc, err := o.cfg.Client.Open(ctx, id)
		if err != nil {
			fetchFailuresTotal.WithLabelValues(s.String()).Inc()
			return nil, fmt.Errorf("open %s: %w", id, err)
		}
		return rc, nil

	case strategyBinary:
		return o.openBinary(ctx, id)

	default:
		f, err := o.fs.Open(id)
		if err != nil {
			return nil, err
		}
		return f, nil
	}
}

func (o *Opener) openBinary(ctx context.Context, id string) (io.ReadCloser, error) {
	if o.cfg.Endpoint == "" {
		return nil, fmt.Errorf("%w: %s not set, cannot open %s", ErrConfiguration, EnvEndpoint, id)
	}
	if o.cfg.Binary == "" {
		return nil, fmt.Errorf("%w: %s binary not found on PATH or at %s, cannot open %s; see %s",
			ErrSetup, binaryName, defaultBinaryPath, id, installGuide)
	}

	var b = &remote.Binary{
		Path:     o.cfg.Binary,
		Endpoint: o.cfg.Endpoint,
		Retries:  o.cfg.Retries,
		OnAttempt: func(int) {
			fetchAttemptsTotal.WithLabelValues(strategyBinary.String()).Inc()
		},
	}
	rc, err := b.Open(ctx, id)
	if err != nil {
		fetchFailuresTotal.WithLabelValues(strategyBinary.String()).Inc()
		return nil, err
	}
	return rc, nil
}
