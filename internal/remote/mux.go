package remote

import (
	"context"
	"io"
	"os"
	"sort"

	"github.com/pkg/errors"
)

// Mux dispatches to a Client by URI scheme. Paths that are not URIs with a
// scheme and authority are opened from the local filesystem.
type Mux struct {
	clients map[string]Client
}

// NewMux returns a Mux over clients, keyed by scheme.
func NewMux(clients map[string]Client) *Mux {
	m := &Mux{clients: make(map[string]Client, len(clients))}
	for scheme, c := range clients {
		m.clients[scheme] = c
	}
	return m
}

// NewSDKMux returns a Mux with every SDK-backed client registered.
func NewSDKMux() *Mux {
	return NewMux(map[string]Client{
		"s3":    NewS3(),
		"gs":    NewGCS(),
		"azure": NewAzure(),
		"oci":   NewRegistry(nil),
	})
}

// Schemes returns the registered schemes, sorted.
func (m *Mux) Schemes() []string {
	schemes := make([]string, 0, len(m.clients))
	for s := range m.clients {
		schemes = append(schemes, s)
	}
	sort.Strings(schemes)
	return schemes
}

// Open implements Client.
func (m *Mux) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	scheme, _, ok := SplitURI(uri)
	if !ok {
		f, err := os.Open(uri)
		if err != nil {
			return nil, err
		}
		return f, nil
	}
	c, ok := m.clients[scheme]
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedScheme, "no client for %q (registered: %v)", scheme, m.Schemes())
	}
	return c.Open(ctx, uri)
}
