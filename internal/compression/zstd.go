// Package compression picks streaming codecs from file names.
//
// Manifests ending in .zst/.zstd are zstd streams, .gz are gzip; anything
// else is passed through untouched.
package compression

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Codec identifies a stream encoding.
type Codec string

const (
	None Codec = ""
	Zstd Codec = "zstd"
	Gzip Codec = "gzip"
)

// DefaultLevel is the zstd level used by NewWriter.
const DefaultLevel = 2

// ForName returns the codec implied by name's extension.
func ForName(name string) Codec {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".zst", ".zstd":
		return Zstd
	case ".gz":
		return Gzip
	default:
		return None
	}
}

// NewReader wraps r with the decoder implied by name.
func NewReader(name string, r io.Reader) (io.ReadCloser, error) {
	switch ForName(name) {
	case Zstd:
		dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	case Gzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		return zr, nil
	default:
		return io.NopCloser(r), nil
	}
}

// NewWriter wraps w with the encoder implied by name. Closing the returned
// writer flushes the encoder but does not close w.
func NewWriter(name string, w io.Writer) (io.WriteCloser, error) {
	switch ForName(name) {
	case Zstd:
		enc, err := zstd.NewWriter(w,
			zstd.WithEncoderLevel(encoderLevel(DefaultLevel)),
			zstd.WithEncoderConcurrency(1),
		)
		if err != nil {
			return nil, err
		}
		return enc, nil
	case Gzip:
		return gzip.NewWriter(w), nil
	default:
		return nopWriteCloser{w}, nil
	}
}

func encoderLevel(level int) zstd.EncoderLevel {
	switch level {
	case 1:
		return zstd.SpeedFastest
	case 2:
		return zstd.SpeedDefault
	case 3:
		return zstd.SpeedBetterCompression
	default:
		return zstd.SpeedDefault
	}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
