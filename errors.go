package dstore

import (
	"errors"

	"github.com/aweris/dstore/internal/remote"
)

var (
	// ErrConfiguration reports a missing setting, such as the endpoint.
	ErrConfiguration = errors.New("dstore: configuration error")
	// ErrSetup reports that no way to reach the remote store is installed.
	ErrSetup = errors.New("dstore: setup error")
	// ErrFormat reports a malformed endpoint or object URI.
	ErrFormat = errors.New("dstore: format error")
	// ErrFetch reports that every attempt to stream an object failed.
	ErrFetch = remote.ErrFetch
	// ErrNotImplemented is returned by Object.Put.
	ErrNotImplemented = errors.New("dstore: not implemented")
)

// FetchError carries the stderr of the last failed binary attempt.
type FetchError = remote.ExhaustedError
