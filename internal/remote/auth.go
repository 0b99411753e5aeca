package remote

import "github.com/google/go-containerregistry/pkg/authn"

// Authenticator provides credentials for OCI registries.
type Authenticator interface {
	// Authenticate returns credentials for the given registry.
	Authenticate(registry string) (username, password string, err error)
}

// StaticAuthenticator returns the same credentials for every registry.
type StaticAuthenticator struct {
	Username string
	Password string
}

// Authenticate implements Authenticator.
func (a StaticAuthenticator) Authenticate(string) (string, string, error) {
	return a.Username, a.Password, nil
}

// authenticator resolves credentials for registry, falling back to the
// docker keychain when auth is nil or yields nothing.
func authenticator(auth Authenticator, registry string) authn.Authenticator {
	if auth != nil {
		username, password, err := auth.Authenticate(registry)
		if err == nil && username != "" {
			return &authn.Basic{Username: username, Password: password}
		}
	}
	return nil
}
