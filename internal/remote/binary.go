package remote

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	// DefaultRetries bounds the number of processes spawned per Open.
	DefaultRetries = 5
	// EndpointEnv is the variable the AIStore CLI reads its endpoint from.
	EndpointEnv = "AIS_ENDPOINT"
)

// Binary streams objects through an external CLI invoked as `<Path> get <uri> -`.
//
// Each attempt spawns a fresh process and peeks one byte of its stdout. An
// attempt that yields no byte is reaped and retried without delay. A process
// that blocks forever before writing is not bounded by Retries.
type Binary struct {
	Path     string
	Endpoint string
	Retries  int

	// OnAttempt, if set, is called before every spawn.
	OnAttempt func(attempt int)
}

// ExhaustedError reports that no attempt of a Binary produced data.
type ExhaustedError struct {
	URI      string
	Binary   string
	Attempts int
	Stderr   string // Captured from the last attempt.
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("%s couldn't be opened with %s after %d attempts because of the following error: %s",
		e.URI, e.Binary, e.Attempts, e.Stderr)
}

// Unwrap makes errors.Is(err, ErrFetch) hold.
func (e *ExhaustedError) Unwrap() error { return ErrFetch }

// Open spawns the binary until one attempt produces data, and returns its
// live stdout. Bytes are consumed lazily as the process keeps producing them.
func (b *Binary) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	var retries = b.Retries
	if retries <= 0 {
		retries = DefaultRetries
	}

	var stderr string
	for attempt := 1; attempt <= retries; attempt++ {
		if b.OnAttempt != nil {
			b.OnAttempt(attempt)
		}

		var rc *procReader
		if rc, stderr = b.spawn(ctx, uri); rc != nil {
			return rc, nil
		}

		log.WithFields(log.Fields{
			"uri":     uri,
			"attempt": attempt,
			"of":      retries,
			"stderr":  stderr,
		}).Warn("binary produced no data")
	}

	return nil, &ExhaustedError{URI: uri, Binary: b.Path, Attempts: retries, Stderr: stderr}
}

// spawn runs a single attempt. It returns either a ready reader, or the
// stderr text of a reaped process.
func (b *Binary) spawn(ctx context.Context, uri string) (*procReader, string) {
	cmd := exec.CommandContext(ctx, b.Path, "get", uri, "-")
	cmd.Env = os.Environ()
	if b.Endpoint != "" {
		cmd.Env = append(cmd.Env, EndpointEnv+"="+b.Endpoint)
	}
	cmd.WaitDelay = time.Second

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err.Error()
	}
	if err := cmd.Start(); err != nil {
		return nil, err.Error()
	}

	br := bufio.NewReader(stdout)
	if _, err := br.Peek(1); err != nil {
		// stdout is drained, so Wait is safe and completes stderr.
		_ = cmd.Wait()
		return nil, strings.TrimSpace(stderr.String())
	}

	return &procReader{cmd: cmd, r: br, stderr: &stderr, uri: uri}, ""
}

// procReader is the stdout of a running child. Reaching EOF reaps the child
// and reports a non-zero exit as an error. Closing early kills it.
type procReader struct {
	cmd    *exec.Cmd
	r      *bufio.Reader
	stderr *bytes.Buffer
	uri    string

	eof     bool
	waited  bool
	waitErr error
}

func (p *procReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if err != io.EOF {
		return n, err
	}
	p.eof = true

	if werr := p.wait(); werr != nil {
		return n, errors.Wrapf(werr, "streaming %s: %s", p.uri, strings.TrimSpace(p.stderr.String()))
	}
	return n, io.EOF
}

func (p *procReader) Close() error {
	if p.waited {
		return nil
	}
	if !p.eof {
		_ = p.cmd.Process.Kill()
		_ = p.wait()
		return nil
	}
	return p.wait()
}

func (p *procReader) wait() error {
	if !p.waited {
		p.waited = true
		p.waitErr = p.cmd.Wait()
	}
	return p.waitErr
}
