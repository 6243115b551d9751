package handler

import (
	"net/http"

	"adventure_hunt/internal/common"
	"adventure_hunt/internal/provider"

	"github.com/go-chi/chi/v5"
)

type JokeHandler struct {
	jokes *provider.JokeAdapter
}

func NewJokeHandler(jokes *provider.JokeAdapter) *JokeHandler {
	return &JokeHandler{jokes: jokes}
}

func (h *JokeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/random", h.random)
}

func (h *JokeHandler) random(w http.ResponseWriter, r *http.Request) {
	res := h.jokes.Random(r.Context(), r.URL.Query().Get("category"))
	common.RespondWithJSON(w, res.Status, res.Envelope)
}
