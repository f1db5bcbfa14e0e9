// Package page serves the login and tool pages.
package page

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fappie/backend/internal/model/mode"
	"github.com/fappie/backend/pkg/logger"
)

const (
	LoginPath = "/"
	AppPath   = "/app"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Handler renders the pages.
type Handler struct {
	modes mode.Store
}

// New creates the page handler.
func New(modes mode.Store) *Handler {
	return &Handler{modes: modes}
}

// RegisterPublicRoutes registers routes reachable without a session.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Get(LoginPath, h.handleLogin)
	r.Get("/health", h.handleHealth)
}

// RegisterRoutes registers the gated tool page.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get(AppPath, h.handleApp)
}

type loginView struct {
	AppPath string
}

type appView struct {
	Modes       []mode.Definition
	DefaultMode mode.Mode
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	h.render(w, "login.html", loginView{AppPath: AppPath})
}

func (h *Handler) handleApp(w http.ResponseWriter, r *http.Request) {
	h.render(w, "app.html", appView{
		Modes:       h.modes.List(),
		DefaultMode: mode.Email,
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) render(w http.ResponseWriter, name string, data interface{}) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		logger.Errorf("[page] render %s failed: %v", name, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}
