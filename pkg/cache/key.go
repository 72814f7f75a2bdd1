package cache

import (
	"net/url"
	"sort"
	"strings"
)

// keyPrefix namespaces every cache key in Redis.
const keyPrefix = "mortyverse:http"

// ignoredParams never take part in a key. Credentials must not end up in Redis.
var ignoredParams = map[string]bool{
	"api_key": true,
}

// Key identifies a cached response.
type Key struct {
	// Host is the upstream host, e.g. "api.themoviedb.org".
	Host string

	// Path is the request path, e.g. "/3/movie/550".
	Path string

	// Query holds the request query parameters.
	Query url.Values
}

// KeyFromURL builds a Key from a request URL.
func KeyFromURL(u *url.URL) Key {
	return Key{
		Host:  u.Host,
		Path:  u.Path,
		Query: u.Query(),
	}
}

// String returns a deterministic Redis key.
//
// Example:
//
//	mortyverse:http:api.themoviedb.org/3/movie/550:language=en-US
func (k Key) String() string {
	var b strings.Builder
	b.WriteString(keyPrefix)
	b.WriteByte(':')
	b.WriteString(strings.ToLower(k.Host))
	b.WriteString("/")
	b.WriteString(strings.Trim(k.Path, "/"))

	names := make([]string, 0, len(k.Query))
	for name := range k.Query {
		if ignoredParams[name] {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		b.WriteByte(':')
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(strings.Join(k.Query[name], ","))
	}

	return b.String()
}
