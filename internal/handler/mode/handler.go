package mode

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fappie/backend/internal/model/mode"
	"github.com/fappie/backend/pkg/utils"
)

// Handler serves the mode definitions shown on the tool page.
type Handler struct {
	modes mode.Store
}

// New creates the mode handler.
func New(modes mode.Store) *Handler {
	return &Handler{
		modes: modes,
	}
}

// RegisterRoutes registers the mode routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/modes", h.handleListModes)
	r.Get("/modes/{modeID}", h.handleGetMode)
}

func (h *Handler) handleListModes(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.modes.List())
}

func (h *Handler) handleGetMode(w http.ResponseWriter, r *http.Request) {
	def, ok := h.modes.FindByID(mode.Mode(chi.URLParam(r, "modeID")))
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "mode not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, def)
}
