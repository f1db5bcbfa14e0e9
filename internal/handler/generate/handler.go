package generate

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fappie/backend/internal/model/conversation"
	"github.com/fappie/backend/internal/model/mode"
	"github.com/fappie/backend/internal/service/ai"
	"github.com/fappie/backend/pkg/logger"
	"github.com/fappie/backend/pkg/utils"
)

// Generator produces a reply for a generate request.
type Generator interface {
	Generate(ctx context.Context, req conversation.GenerateRequest) (conversation.Reply, error)
}

// Handler serves POST /generate.
type Handler struct {
	gen Generator
}

// New creates the generate handler.
func New(gen Generator) *Handler {
	return &Handler{gen: gen}
}

// RegisterRoutes registers the generate route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/generate", h.handleGenerate)
}

type generateRequest struct {
	Mode       string              `json:"mode"`
	Messages   []conversation.Turn `json:"messages"`
	Transcript string              `json:"transcript"`
	Notes      string              `json:"notes"`
}

type plainResponse struct {
	Result string `json:"result"`
}

type structuredResponse struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Chat  string `json:"chat"`
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if h.gen == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "Generatie niet beschikbaar")
		return
	}

	var body generateRequest
	if err := utils.DecodeJSON(r, &body); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Ongeldig verzoek")
		return
	}

	req := conversation.GenerateRequest{
		Mode:       mode.Parse(body.Mode),
		Messages:   body.Messages,
		Transcript: body.Transcript,
		Notes:      body.Notes,
	}

	reply, err := h.gen.Generate(r.Context(), req)
	if err != nil {
		status, message := classify(err)
		if status >= http.StatusInternalServerError {
			logger.Errorf("[generate] mode=%s: %v", req.Mode, err)
		}
		utils.RespondError(w, status, message)
		return
	}

	if !reply.Structured {
		utils.RespondJSON(w, http.StatusOK, plainResponse{Result: reply.Text})
		return
	}
	utils.RespondJSON(w, http.StatusOK, structuredResponse{
		Title: reply.Title,
		Body:  reply.Body,
		Chat:  reply.Chat,
	})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ai.ErrNoMessages):
		return http.StatusBadRequest, "Berichten zijn verplicht"
	case errors.Is(err, ai.ErrNoTranscript):
		return http.StatusBadRequest, "Transcript is verplicht"
	case errors.Is(err, ai.ErrInvalidRole):
		return http.StatusBadRequest, "Ongeldige berichtrol"
	default:
		return http.StatusBadGateway, "Genereren mislukt"
	}
}
