// Package credstore persists bearer credentials in a cookie-like durable
// store. Entries carry the cookie attributes the web contract requires
// (path=/, SameSite=Strict, configurable Secure flag) and the file-backed
// implementation seals each entry at rest with a securecookie codec.
package credstore

import (
	"net/http"
)

// record is the sealed at-rest representation of one entry.
type record struct {
	Value    string
	Path     string
	SameSite http.SameSite
	Secure   bool
}

// Attribute overrides a cookie attribute for a single Save.
type Attribute func(*record)

// WithPath sets the path scope for the entry. (default: /)
func WithPath(path string) Attribute {
	return func(r *record) {
		r.Path = path
	}
}

// WithSameSite sets the SameSite attribute for the entry. (default: Strict)
func WithSameSite(s http.SameSite) Attribute {
	return func(r *record) {
		r.SameSite = s
	}
}

// WithSecure sets the Secure flag for the entry, overriding the store default.
func WithSecure(secure bool) Attribute {
	return func(r *record) {
		r.Secure = secure
	}
}

func newRecord(value string, secure bool, opts []Attribute) record {
	r := record{
		Value:    value,
		Path:     "/",
		SameSite: http.SameSiteStrictMode,
		Secure:   secure,
	}
	for _, opt := range opts {
		opt(&r)
	}

	return r
}
