// Package persistence isolates session state storage behind a small
// key-value interface so the session manager has no direct dependency
// on any particular storage mechanism. The cookie backend mirrors
// state into the browser; the redis backend keeps it server-side; the
// memory backend exists for tests.
package persistence

import (
	"net/http"
	"time"
)

// Options controls how a value is persisted. A zero Expires means the
// value must not outlive the browser session; this is a deliberate
// policy for transient data, not a missing default.
type Options struct {
	Expires  time.Time
	Path     string
	Secure   bool
	HTTPOnly bool
	SameSite http.SameSite
}

// Store is a name/value persistence backend. Implementations are
// best-effort: a failed write degrades to "user must log in again",
// so errors are reported for logging but callers never propagate them.
type Store interface {
	// Set persists a value under name.
	Set(name, value string, opts Options) error

	// Get returns the stored value. The literal strings "undefined"
	// and "null" are treated as absent; upstream bugs have serialized
	// missing values as text before.
	Get(name string) (string, bool)

	// Remove deletes the value. Removing an absent name is not an
	// error.
	Remove(name string) error
}

// normalize maps the raw stored text to its logical value. Empty
// strings and textual null markers count as absent.
func normalize(raw string) (string, bool) {
	if raw == "" || raw == "undefined" || raw == "null" {
		return "", false
	}
	return raw, true
}
