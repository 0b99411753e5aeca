package dstore

import "github.com/aweris/dstore/internal/remote"

// Client opens remote objects for streamed reading. When a Cache is given a
// Client, it replaces the external binary for every identifier.
// Re-exported from internal/remote for convenience.
type Client = remote.Client

// ClientFunc adapts an ordinary function to Client.
type ClientFunc = remote.ClientFunc

// Authenticator provides credentials for OCI registries.
type Authenticator = remote.Authenticator

// NewSDKClient returns a Client serving s3://, gs://, azure:// and oci://
// URIs through their SDKs, and local paths from the filesystem. Other
// schemes fail with an unsupported-scheme error.
func NewSDKClient() Client {
	return remote.NewSDKMux()
}

// NewClient returns a Client dispatching on URI scheme to clients.
func NewClient(clients map[string]Client) Client {
	return remote.NewMux(clients)
}

// StaticAuthenticator returns the same registry credentials everywhere.
type StaticAuthenticator = remote.StaticAuthenticator

// NewRegistryClient returns a Client for oci://<registry>/<repository>@<digest>
// blobs. A nil auth uses the docker keychain.
func NewRegistryClient(auth Authenticator) Client {
	return remote.NewRegistry(auth)
}
