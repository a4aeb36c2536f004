package persistence

import (
	"net/http"
	"net/url"
)

// CookieStore reads values from the request's cookie header and writes
// them as Set-Cookie headers on the response. Writes within one
// request are visible to subsequent reads through an overlay, so a
// handler that sets a value and reads it back sees its own write.
type CookieStore struct {
	req     *http.Request
	writer  http.ResponseWriter
	written map[string]*string // nil entry marks a removal
}

// NewCookieStore binds a store to one request/response pair. Either
// side may be nil: with no request reads find nothing, with no writer
// writes silently no-op.
func NewCookieStore(req *http.Request, w http.ResponseWriter) *CookieStore {
	return &CookieStore{
		req:     req,
		writer:  w,
		written: make(map[string]*string),
	}
}

func (s *CookieStore) Set(name, value string, opts Options) error {
	if s.writer == nil {
		return nil
	}

	cookie := &http.Cookie{
		Name:     name,
		Value:    url.QueryEscape(value),
		Path:     opts.Path,
		Secure:   opts.Secure,
		HttpOnly: opts.HTTPOnly,
		SameSite: opts.SameSite,
	}
	if cookie.Path == "" {
		cookie.Path = "/"
	}
	// Zero Expires leaves a session cookie; the browser drops it when
	// the session ends.
	if !opts.Expires.IsZero() {
		cookie.Expires = opts.Expires
	}

	http.SetCookie(s.writer, cookie)
	s.written[name] = &value
	return nil
}

func (s *CookieStore) Get(name string) (string, bool) {
	if pending, ok := s.written[name]; ok {
		if pending == nil {
			return "", false
		}
		return normalize(*pending)
	}

	if s.req == nil {
		return "", false
	}
	cookie, err := s.req.Cookie(name)
	if err != nil {
		return "", false
	}
	decoded, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return "", false
	}
	return normalize(decoded)
}

func (s *CookieStore) Remove(name string) error {
	if s.writer == nil {
		return nil
	}

	// Same cookie, expiry in the past.
	http.SetCookie(s.writer, &http.Cookie{
		Name:   name,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	s.written[name] = nil
	return nil
}
