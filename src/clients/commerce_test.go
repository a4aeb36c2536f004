package clients

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"lubritec-storefront-svc/src/internal/config"
	"lubritec-storefront-svc/src/internal/models"
)

func newTestCommerce(handler http.Handler) (*Commerce, func()) {
	server := httptest.NewServer(handler)
	client := NewCommerce(&config.CommerceAPIConfig{
		URL:     server.URL,
		Timeout: 5,
	})
	return client, server.Close
}

func TestLoginSuccess(t *testing.T) {
	client, close := newTestCommerce(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}

		var creds models.Credentials
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			t.Errorf("cannot decode credentials: %v", err)
		}
		if creds.Email != "a@b.com" || creds.Password != "x" {
			t.Errorf("credentials = %+v", creds)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","data":{"token":"abc123","user":{"id":"1","email":"a@b.com","name":"Ana","role":"customer"}}}`))
	}))
	defer close()

	sess, err := client.Login(context.Background(), &models.Credentials{Email: "a@b.com", Password: "x"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if sess.Token != "abc123" {
		t.Errorf("token = %q, want abc123", sess.Token)
	}
	if sess.User == nil || sess.User.Email != "a@b.com" {
		t.Errorf("user = %+v", sess.User)
	}
}

func TestLoginMalformedResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing token", body: `{"status":"ok","data":{"user":{"id":"1"}}}`},
		{name: "missing user", body: `{"status":"ok","data":{"token":"abc123"}}`},
		{name: "empty data", body: `{"status":"ok","data":{}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, close := newTestCommerce(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tt.body))
			}))
			defer close()

			_, err := client.Login(context.Background(), &models.Credentials{Email: "a@b.com", Password: "x"})
			if !errors.Is(err, models.ErrInvalidAuthResponse) {
				t.Errorf("err = %v, want ErrInvalidAuthResponse", err)
			}
		})
	}
}

func TestLoginPassesRemoteMessageThrough(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{
			name:    "bad credentials",
			status:  http.StatusUnauthorized,
			body:    `{"status":"error","message":"credenciales incorrectas"}`,
			wantMsg: "credenciales incorrectas",
		},
		{
			name:    "blocked account",
			status:  http.StatusForbidden,
			body:    `{"status":"error","message":"cuenta bloqueada"}`,
			wantMsg: "cuenta bloqueada",
		},
		{
			name:    "no message in envelope",
			status:  http.StatusUnauthorized,
			body:    `{"status":"error"}`,
			wantMsg: "commerce api returned status 401",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, close := newTestCommerce(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer close()

			_, err := client.Login(context.Background(), &models.Credentials{Email: "a@b.com", Password: "bad"})
			if err == nil || err.Error() != tt.wantMsg {
				t.Errorf("err = %v, want %q", err, tt.wantMsg)
			}
		})
	}
}

func TestGetProductNotFound(t *testing.T) {
	client, close := newTestCommerce(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"status":"error","message":"producto no encontrado"}`))
	}))
	defer close()

	_, err := client.GetProduct(context.Background(), "missing")
	if !errors.Is(err, models.ErrProductNotFound) {
		t.Errorf("err = %v, want ErrProductNotFound", err)
	}
}

func TestCartRequestsCarryBearerToken(t *testing.T) {
	client, close := newTestCommerce(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Errorf("Authorization = %q, want Bearer tok-1", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","data":{"items":[{"id":"i1","productId":"p1","quantity":2,"priceCents":1500}]}}`))
	}))
	defer close()

	cart, err := client.GetCart(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("GetCart failed: %v", err)
	}
	if cart.ItemCount() != 2 {
		t.Errorf("item count = %d, want 2", cart.ItemCount())
	}
}

func TestClearCartError(t *testing.T) {
	client, close := newTestCommerce(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"status":"error","message":"carrito no disponible"}`))
	}))
	defer close()

	err := client.ClearCart(context.Background(), "tok-1")
	if err == nil || err.Error() != "carrito no disponible" {
		t.Errorf("err = %v, want the remote message", err)
	}
}
