package auth

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	authservice "github.com/fappie/backend/internal/service/auth"
)

func setupRouter(t *testing.T) (*chi.Mux, *authservice.Gate) {
	t.Helper()
	gate, err := authservice.NewGate(authservice.Options{Secret: "geheim", SigningKey: "k"})
	if err != nil {
		t.Fatalf("NewGate err: %v", err)
	}

	r := chi.NewRouter()
	New(gate, true).RegisterRoutes(r)
	return r, gate
}

func TestLoginSetsSessionCookie(t *testing.T) {
	r, gate := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/auth", bytes.NewReader([]byte(`{"password":"geheim"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"success":true`) {
		t.Fatalf("unexpected body: %s", resp.Body.String())
	}

	cookies := resp.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Name != authservice.CookieName || !c.HttpOnly || !c.Secure || c.SameSite != http.SameSiteStrictMode {
		t.Fatalf("unexpected cookie attributes: %+v", c)
	}
	if c.MaxAge != 7*24*60*60 {
		t.Fatalf("unexpected max age: %d", c.MaxAge)
	}
	if err := gate.Authorize(c.Value); err != nil {
		t.Fatalf("issued cookie does not authorize: %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	r, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/auth", bytes.NewReader([]byte(`{"password":"fout"}`)))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"success":false`) {
		t.Fatalf("unexpected body: %s", resp.Body.String())
	}
	if len(resp.Result().Cookies()) != 0 {
		t.Fatal("expected no cookie on failed login")
	}
}

func TestLoginMalformedBody(t *testing.T) {
	r, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/auth", bytes.NewReader([]byte(`{"password":`)))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	r, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	cookies := resp.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Fatalf("expected expiring cookie, got %+v", cookies)
	}
}
