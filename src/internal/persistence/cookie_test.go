package persistence

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func TestCookieStoreGet(t *testing.T) {
	tests := []struct {
		name      string
		cookie    *http.Cookie
		wantValue string
		wantOK    bool
	}{
		{
			name:      "plain value",
			cookie:    &http.Cookie{Name: "auth_token", Value: "abc123"},
			wantValue: "abc123",
			wantOK:    true,
		},
		{
			name:      "escaped json",
			cookie:    &http.Cookie{Name: "user_data", Value: url.QueryEscape(`{"id":"1"}`)},
			wantValue: `{"id":"1"}`,
			wantOK:    true,
		},
		{
			name:   "missing cookie",
			cookie: nil,
			wantOK: false,
		},
		{
			name:   "empty value",
			cookie: &http.Cookie{Name: "auth_token", Value: ""},
			wantOK: false,
		},
		{
			name:   "literal undefined",
			cookie: &http.Cookie{Name: "user_data", Value: "undefined"},
			wantOK: false,
		},
		{
			name:   "literal null",
			cookie: &http.Cookie{Name: "user_data", Value: "null"},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			name := "auth_token"
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
				name = tt.cookie.Name
			}

			store := NewCookieStore(req, httptest.NewRecorder())
			value, ok := store.Get(name)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if value != tt.wantValue {
				t.Errorf("value = %q, want %q", value, tt.wantValue)
			}
		})
	}
}

func TestCookieStoreReadYourWrites(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: "stale"})

	store := NewCookieStore(req, httptest.NewRecorder())

	if err := store.Set("auth_token", "fresh", Options{}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if value, ok := store.Get("auth_token"); !ok || value != "fresh" {
		t.Errorf("Get after Set = %q (%v), want fresh", value, ok)
	}

	if err := store.Remove("auth_token"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, ok := store.Get("auth_token"); ok {
		t.Error("Get after Remove found the request cookie")
	}
}

func TestCookieStoreSetWritesHeader(t *testing.T) {
	rec := httptest.NewRecorder()
	store := NewCookieStore(httptest.NewRequest("GET", "/", nil), rec)

	expires := time.Now().Add(24 * time.Hour)
	if err := store.Set("user_data", `{"name":"Ana López"}`, Options{Expires: expires, HTTPOnly: false}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("got %d cookies, want 1", len(cookies))
	}
	cookie := cookies[0]
	if cookie.Name != "user_data" {
		t.Errorf("name = %q", cookie.Name)
	}
	decoded, err := url.QueryUnescape(cookie.Value)
	if err != nil || decoded != `{"name":"Ana López"}` {
		t.Errorf("value round-trip = %q (%v)", decoded, err)
	}
	if cookie.Path != "/" {
		t.Errorf("path = %q, want /", cookie.Path)
	}
	if cookie.Expires.IsZero() {
		t.Error("expiry not set")
	}
}

func TestCookieStoreSessionCookieWithoutExpiry(t *testing.T) {
	rec := httptest.NewRecorder()
	store := NewCookieStore(nil, rec)

	if err := store.Set("auth_token", "abc123", Options{}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	cookie := rec.Result().Cookies()[0]
	if !cookie.Expires.IsZero() || cookie.MaxAge != 0 {
		t.Errorf("expected a session cookie, got Expires=%v MaxAge=%d", cookie.Expires, cookie.MaxAge)
	}
}

func TestCookieStoreRemoveExpiresCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	store := NewCookieStore(nil, rec)

	if err := store.Remove("auth_token"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	cookie := rec.Result().Cookies()[0]
	if cookie.MaxAge != -1 {
		t.Errorf("MaxAge = %d, want -1", cookie.MaxAge)
	}
	if cookie.Value != "" {
		t.Errorf("value = %q, want empty", cookie.Value)
	}
}

func TestCookieStoreNilSides(t *testing.T) {
	store := NewCookieStore(nil, nil)

	if err := store.Set("auth_token", "abc123", Options{}); err != nil {
		t.Errorf("Set with nil writer returned %v", err)
	}
	if err := store.Remove("auth_token"); err != nil {
		t.Errorf("Remove with nil writer returned %v", err)
	}
	if _, ok := store.Get("auth_token"); ok {
		t.Error("Get with nil request found a value")
	}
}
