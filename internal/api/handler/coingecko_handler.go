package handler

import (
	"net/http"
	"strconv"

	"adventure_hunt/internal/common"
	"adventure_hunt/internal/provider"

	"github.com/go-chi/chi/v5"
)

type CoinHandler struct {
	coins *provider.CoinGeckoAdapter
}

func NewCoinHandler(coins *provider.CoinGeckoAdapter) *CoinHandler {
	return &CoinHandler{coins: coins}
}

func (h *CoinHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.top)
	r.Get("/random", h.random)
	r.Get("/{coinID}/price", h.price)
}

func (h *CoinHandler) top(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	res := h.coins.TopCoins(r.Context(), limit)
	common.RespondWithJSON(w, res.Status, res.Envelope)
}

func (h *CoinHandler) random(w http.ResponseWriter, r *http.Request) {
	res := h.coins.RandomCoin(r.Context())
	common.RespondWithJSON(w, res.Status, res.Envelope)
}

func (h *CoinHandler) price(w http.ResponseWriter, r *http.Request) {
	coinID := chi.URLParam(r, "coinID")
	if coinID == "" {
		common.RespondWithError(w, http.StatusBadRequest, "Missing coin ID")
		return
	}

	res := h.coins.Price(r.Context(), coinID)
	common.RespondWithJSON(w, res.Status, res.Envelope)
}
