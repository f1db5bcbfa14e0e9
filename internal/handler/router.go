package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	authHandler "github.com/fappie/backend/internal/handler/auth"
	"github.com/fappie/backend/internal/handler/generate"
	"github.com/fappie/backend/internal/handler/live"
	modeHandler "github.com/fappie/backend/internal/handler/mode"
	"github.com/fappie/backend/internal/handler/page"
	middlewarePkg "github.com/fappie/backend/internal/middleware"
	modeModel "github.com/fappie/backend/internal/model/mode"
	aiService "github.com/fappie/backend/internal/service/ai"
	authService "github.com/fappie/backend/internal/service/auth"
)

// Options carries the services the router wires.
type Options struct {
	Modes        modeModel.Store
	Gate         *authService.Gate
	AI           *aiService.Service
	SecureCookie bool
}

// NewRouter wires HTTP routes to core services.
func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	pageHandler := page.New(opts.Modes)
	pageHandler.RegisterPublicRoutes(r)

	r.Group(func(app chi.Router) {
		app.Use(middlewarePkg.RequirePageSession(opts.Gate, page.LoginPath))
		pageHandler.RegisterRoutes(app)
	})

	// A nil *Service must not become a non-nil interface value.
	var generator generate.Generator
	if opts.AI != nil {
		generator = opts.AI
	}

	r.Route("/api", func(api chi.Router) {
		authHandler.New(opts.Gate, opts.SecureCookie).RegisterRoutes(api)

		api.Group(func(gated chi.Router) {
			gated.Use(middlewarePkg.RequireSession(opts.Gate))

			generate.New(generator).RegisterRoutes(gated)
			modeHandler.New(opts.Modes).RegisterRoutes(gated)
			live.New(generator).RegisterRoutes(gated)
		})
	})

	return r
}
