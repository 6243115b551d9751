package handler

import (
	"net/http"
	"strconv"

	"adventure_hunt/internal/common"
	"adventure_hunt/internal/provider"

	"github.com/go-chi/chi/v5"
)

type GiphyHandler struct {
	gifs *provider.GiphyAdapter
}

func NewGiphyHandler(gifs *provider.GiphyAdapter) *GiphyHandler {
	return &GiphyHandler{gifs: gifs}
}

func (h *GiphyHandler) RegisterRoutes(r chi.Router) {
	r.Get("/search", h.search)
	r.Get("/random", h.random)
	r.Get("/trending", h.trending)
}

func (h *GiphyHandler) search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		common.RespondWithError(w, http.StatusBadRequest, "Missing query parameter")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	rating := r.URL.Query().Get("rating")

	res := h.gifs.Search(r.Context(), query, limit, rating)
	common.RespondWithJSON(w, res.Status, res.Envelope)
}

func (h *GiphyHandler) random(w http.ResponseWriter, r *http.Request) {
	tag := r.URL.Query().Get("tag")
	rating := r.URL.Query().Get("rating")

	res := h.gifs.Random(r.Context(), tag, rating)
	common.RespondWithJSON(w, res.Status, res.Envelope)
}

func (h *GiphyHandler) trending(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	res := h.gifs.Trending(r.Context(), limit)
	common.RespondWithJSON(w, res.Status, res.Envelope)
}
