package handler

import (
	"net/http"
	"strconv"

	"adventure_hunt/internal/common"
	"adventure_hunt/internal/provider"

	"github.com/go-chi/chi/v5"
)

type NewsHandler struct {
	news *provider.NewsAdapter
}

func NewNewsHandler(news *provider.NewsAdapter) *NewsHandler {
	return &NewsHandler{news: news}
}

func (h *NewsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/latest", h.latest)
	r.Get("/category", h.byCategory)
	r.Get("/search", h.search)
	r.Get("/fact", h.randomFact)
}

func (h *NewsHandler) latest(w http.ResponseWriter, r *http.Request) {
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	res := h.news.Latest(r.Context(), r.URL.Query().Get("keyword"), pageSize)
	common.RespondWithJSON(w, res.Status, res.Envelope)
}

func (h *NewsHandler) byCategory(w http.ResponseWriter, r *http.Request) {
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	res := h.news.ByCategory(r.Context(), r.URL.Query().Get("category"), pageSize)
	common.RespondWithJSON(w, res.Status, res.Envelope)
}

func (h *NewsHandler) search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		common.RespondWithError(w, http.StatusBadRequest, "Missing query parameter")
		return
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	res := h.news.Search(r.Context(), query, pageSize)
	common.RespondWithJSON(w, res.Status, res.Envelope)
}

func (h *NewsHandler) randomFact(w http.ResponseWriter, r *http.Request) {
	res := h.news.RandomFact(r.Context())
	common.RespondWithJSON(w, res.Status, res.Envelope)
}
