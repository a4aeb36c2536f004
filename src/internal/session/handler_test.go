package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"lubritec-storefront-svc/src/internal/models"
	"lubritec-storefront-svc/src/internal/persistence"
)

type erringAuth struct{ err error }

func (a *erringAuth) Login(ctx context.Context, creds *models.Credentials) (*models.Session, error) {
	return nil, a.err
}

func handlerRouter(manager *Manager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if manager != nil {
			c.Set(ContextKey, manager)
		}
		c.Next()
	})

	h := NewHandler()
	router.POST("/auth/login", h.Login)
	router.POST("/auth/logout", h.Logout)
	router.GET("/auth/session", h.Current)
	return router
}

func postLogin(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestLoginHandlerSuccess(t *testing.T) {
	auth := &stubAuth{session: &models.Session{Token: "abc123", User: testUser()}}
	manager, _ := newTestManager(auth, &stubCart{})
	router := handlerRouter(manager)

	rec := postLogin(router, `{"email":"a@b.com","password":"x"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Success bool            `json:"success"`
		Data    *models.Session `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("cannot parse response: %v", err)
	}
	if !body.Success || body.Data.Token != "abc123" {
		t.Errorf("body = %+v", body)
	}
	if body.Data.User.AppliedDiscounts == nil {
		t.Error("response user missing the defaulted discount list")
	}
}

func TestLoginHandlerErrorStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "busy maps to conflict", err: models.ErrAuthBusy, wantStatus: http.StatusConflict},
		{name: "malformed payload maps to bad gateway", err: models.ErrInvalidAuthResponse, wantStatus: http.StatusBadGateway},
		{name: "bad credentials map to unauthorized", err: models.ErrInvalidCredentials, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manager, _ := newTestManager(&erringAuth{err: tt.err}, &stubCart{})
			router := handlerRouter(manager)

			rec := postLogin(router, `{"email":"a@b.com","password":"x"}`)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var body struct {
				Message string `json:"message"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("cannot parse response: %v", err)
			}
			if body.Message != tt.err.Error() {
				t.Errorf("message = %q, want the underlying error text", body.Message)
			}
		})
	}
}

func TestLoginHandlerRejectsBadBody(t *testing.T) {
	manager, _ := newTestManager(&stubAuth{}, &stubCart{})
	router := handlerRouter(manager)

	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "email=a@b.com"},
		{name: "missing password", body: `{"email":"a@b.com"}`},
		{name: "empty body", body: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := postLogin(router, tt.body); rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestLogoutHandlerAlwaysSucceeds(t *testing.T) {
	auth := &stubAuth{session: &models.Session{Token: "tok-1", User: testUser()}}
	manager, store := newTestManager(auth, &stubCart{})
	if _, err := manager.Login(context.Background(), &models.Credentials{Email: "a@b.com", Password: "x"}); err != nil {
		t.Fatalf("seed login failed: %v", err)
	}

	router := handlerRouter(manager)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/auth/logout", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if _, ok := store.Get("auth_token"); ok {
		t.Error("auth_token cookie survived the logout endpoint")
	}
}

func TestCurrentHandlerReportsSession(t *testing.T) {
	store := persistence.NewMemoryStore()
	user, _ := json.Marshal(testUser())
	store.Set("auth_token", "tok-1", persistence.Options{})
	store.Set("user_data", string(user), persistence.Options{})

	state := newState(time.Second)
	manager := NewManager(state, store, &stubAuth{}, &stubCart{}, testSettings())
	manager.Initialize()

	router := handlerRouter(manager)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/auth/session", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body struct {
		Data struct {
			Ready         bool         `json:"ready"`
			Authenticated bool         `json:"authenticated"`
			User          *models.User `json:"user"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("cannot parse response: %v", err)
	}
	if !body.Data.Ready || !body.Data.Authenticated {
		t.Errorf("data = %+v", body.Data)
	}
	if body.Data.User == nil || body.Data.User.Email != "a@b.com" {
		t.Errorf("user = %+v", body.Data.User)
	}
}

func TestHandlersWithoutSessionMiddleware(t *testing.T) {
	router := handlerRouter(nil)

	rec := postLogin(router, `{"email":"a@b.com","password":"x"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("login status = %d, want 500 without the session middleware", rec.Code)
	}
}
