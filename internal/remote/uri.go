package remote

import "strings"

// SplitURI splits id into its scheme and the text following "scheme://",
// without decoding anything. ok reports whether id has a scheme and a
// non-empty authority. Escapes, queries and fragments are left in place, so
// object names that are not valid RFC 3986 (e.g. "100%.wav") still split.
func SplitURI(id string) (scheme, rest string, ok bool) {
	i := strings.Index(id, "://")
	if i <= 0 || !validScheme(id[:i]) {
		return "", "", false
	}
	scheme, rest = strings.ToLower(id[:i]), id[i+len("://"):]

	authority := rest
	if end := strings.IndexAny(rest, "/?#"); end >= 0 {
		authority = rest[:end]
	}
	return scheme, rest, authority != ""
}

func validScheme(s string) bool {
	for i, c := range s {
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case i > 0 && ('0' <= c && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return false
		}
	}
	return true
}
