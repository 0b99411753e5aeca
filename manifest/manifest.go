// Package manifest reads and writes line-delimited JSON manifests: one JSON
// object per line, in order.
//
// Reads are tolerant. Blank lines are skipped and every malformed line is
// logged and collected; the read then fails once, listing all of them.
// Every line must hold a JSON object: a line holding valid JSON of another
// kind (null, an array, a number or a string) is malformed too, since it
// cannot be an Entry.
// Manifests may live in a remote store: Read resolves its path through a
// Resolver first. Files ending in .zst or .gz are transparently
// (de)compressed.
package manifest

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aweris/dstore/internal/compression"
	"github.com/hashicorp/go-multierror"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Entry is one manifest line. Numbers decode as float64.
type Entry = map[string]any

// ErrMalformed is matched by every *FormatError.
var ErrMalformed = errors.New("manifest: malformed line")

// FormatError lists the lines of a manifest that are not JSON objects,
// whether they fail to parse or parse to some other JSON value.
type FormatError struct {
	Path  string
	Lines []string // raw text of each malformed line, in order

	errs *multierror.Error
}

func (e *FormatError) Error() string {
	var name = e.Path
	if name == "" {
		name = "<stream>"
	}
	return fmt.Sprintf("%d errors encountered while reading manifest file %s: %s", len(e.Lines), name, e.errs)
}

// Unwrap exposes ErrMalformed and the per-line parse errors.
func (e *FormatError) Unwrap() []error {
	return append([]error{ErrMalformed}, e.errs.WrappedErrors()...)
}

// Resolver turns a possibly remote identifier into a local path.
// *dstore.Cache implements it.
type Resolver interface {
	Materialize(ctx context.Context, id string, force bool) (string, error)
}

// Read resolves path through r and decodes the manifest it names.
// A nil r treats path as local.
func Read(ctx context.Context, r Resolver, path string) ([]Entry, error) {
	return ReadFs(ctx, afero.NewOsFs(), r, path)
}

// ReadFs is Read on fs.
func ReadFs(ctx context.Context, fs afero.Fs, r Resolver, path string) ([]Entry, error) {
	var local = path
	if r != nil {
		var err error
		if local, err = r.Materialize(ctx, path, false); err != nil {
			return nil, fmt.Errorf("resolve manifest %s: %w", path, err)
		}
	}

	f, err := fs.Open(local)
	if err != nil {
		return nil, fmt.Errorf("manifest file could not be opened: %s: %w", path, err)
	}
	defer f.Close()

	zr, err := compression.NewReader(local, f)
	if err != nil {
		return nil, fmt.Errorf("manifest file could not be opened: %s: %w", path, err)
	}
	defer zr.Close()

	entries, err := decode(zr, path)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"manifest": path, "entries": len(entries)}).Debug("read manifest")
	return entries, nil
}

// Decode reads a manifest from r.
func Decode(r io.Reader) ([]Entry, error) {
	return decode(r, "")
}

func decode(r io.Reader, name string) ([]Entry, error) {
	var (
		br      = bufio.NewReader(r)
		entries = []Entry{}
		bad     *FormatError
	)
	for lineNo := 1; ; lineNo++ {
		raw, rerr := br.ReadString('\n')
		if rerr != nil && rerr != io.EOF {
			return nil, fmt.Errorf("reading manifest %s: %w", name, rerr)
		}

		if line := strings.TrimSpace(raw); line != "" {
			if entry, err := parseLine(line); err == nil {
				entries = append(entries, entry)
			} else {
				log.WithFields(log.Fields{
					"manifest": name,
					"line":     lineNo,
					"text":     line,
				}).Warn("failed to parse manifest line")

				if bad == nil {
					bad = &FormatError{Path: name}
				}
				bad.Lines = append(bad.Lines, line)
				bad.errs = multierror.Append(bad.errs, fmt.Errorf("line %d: `%s`: %w", lineNo, line, err))
			}
		}

		if rerr == io.EOF {
			break
		}
	}
	if bad != nil {
		return nil, bad
	}
	return entries, nil
}

func parseLine(line string) (Entry, error) {
	var entry Entry
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, errors.New("not a JSON object: null")
	}
	return entry, nil
}

// Encode writes entries to w, one JSON object per line. With ensureASCII,
// every non-ASCII character is written as a \u escape.
func Encode(w io.Writer, entries []Entry, ensureASCII bool) error {
	var buf bytes.Buffer
	var enc = json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	for i, entry := range entries {
		buf.Reset()
		if err := enc.Encode(entry); err != nil {
			return fmt.Errorf("encoding entry %d: %w", i, err)
		}
		var line = buf.Bytes()
		if ensureASCII {
			line = escapeNonASCII(line)
		}
		if _, err := w.Write(line); err != nil {
			return err
		}
	}
	return nil
}

// Write creates path and writes entries to it. It never resolves path
// through a remote store.
func Write(path string, entries []Entry, ensureASCII bool) error {
	return WriteFs(afero.NewOsFs(), path, entries, ensureASCII)
}

// WriteFs is Write on fs.
func WriteFs(fs afero.Fs, path string, entries []Entry, ensureASCII bool) (err error) {
	f, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("create manifest %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	zw, err := compression.NewWriter(path, f)
	if err != nil {
		return fmt.Errorf("create manifest %s: %w", path, err)
	}
	var bw = bufio.NewWriter(zw)

	if err = Encode(bw, entries, ensureASCII); err != nil {
		return fmt.Errorf("write manifest %s: %w", path, err)
	}
	if err = bw.Flush(); err != nil {
		return fmt.Errorf("write manifest %s: %w", path, err)
	}
	if err = zw.Close(); err != nil {
		return fmt.Errorf("write manifest %s: %w", path, err)
	}

	log.WithFields(log.Fields{"manifest": path, "entries": len(entries)}).Debug("wrote manifest")
	return nil
}
