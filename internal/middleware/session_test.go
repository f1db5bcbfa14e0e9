package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fappie/backend/internal/service/auth"
)

type stubAuthorizer struct {
	valid string
}

func (s stubAuthorizer) Authorize(token string) error {
	switch token {
	case "":
		return auth.ErrNoSession
	case s.valid:
		return nil
	default:
		return auth.ErrInvalidSession
	}
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func TestRequireSessionRejectsMissingCookie(t *testing.T) {
	h := RequireSession(stubAuthorizer{valid: "good"})(okHandler)

	req := httptest.NewRequest(http.MethodPost, "/api/generate", nil)
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"error":"Unauthorized"`) {
		t.Fatalf("unexpected body: %s", resp.Body.String())
	}
}

func TestRequireSessionRejectsForgedCookie(t *testing.T) {
	h := RequireSession(stubAuthorizer{valid: "good"})(okHandler)

	req := httptest.NewRequest(http.MethodPost, "/api/generate", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "true"})
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestRequireSessionAllowsValidCookie(t *testing.T) {
	h := RequireSession(stubAuthorizer{valid: "good"})(okHandler)

	req := httptest.NewRequest(http.MethodPost, "/api/generate", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "good"})
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
}

func TestRequirePageSessionRedirects(t *testing.T) {
	h := RequirePageSession(stubAuthorizer{valid: "good"}, "/")(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/app", nil)
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)

	if resp.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", resp.Code)
	}
	if loc := resp.Header().Get("Location"); loc != "/" {
		t.Fatalf("unexpected redirect: %s", loc)
	}

	req = httptest.NewRequest(http.MethodGet, "/app", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "good"})
	resp = httptest.NewRecorder()
	h.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
}
