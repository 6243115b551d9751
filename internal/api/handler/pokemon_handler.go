package handler

import (
	"net/http"
	"strconv"

	"adventure_hunt/internal/api/middleware"
	"adventure_hunt/internal/common"
	"adventure_hunt/internal/provider"

	"github.com/go-chi/chi/v5"
)

type PokemonHandler struct {
	pokemon *provider.PokemonAdapter
}

func NewPokemonHandler(pokemon *provider.PokemonAdapter) *PokemonHandler {
	return &PokemonHandler{pokemon: pokemon}
}

func (h *PokemonHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/random", h.random)
	r.Get("/search", h.search)
	r.Get("/{pokemonID}", h.getByID)
}

func (h *PokemonHandler) random(w http.ResponseWriter, r *http.Request) {
	res := h.pokemon.Random(r.Context(), middleware.ClientIP(r))
	common.RespondWithJSON(w, res.Status, res.Envelope)
}

func (h *PokemonHandler) getByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "pokemonID"))
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid Pokemon ID")
		return
	}
	res := h.pokemon.GetByID(r.Context(), middleware.ClientIP(r), id)
	common.RespondWithJSON(w, res.Status, res.Envelope)
}

func (h *PokemonHandler) search(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		common.RespondWithError(w, http.StatusBadRequest, "Missing name parameter")
		return
	}
	res := h.pokemon.Search(r.Context(), middleware.ClientIP(r), name)
	common.RespondWithJSON(w, res.Status, res.Envelope)
}

func (h *PokemonHandler) list(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	res := h.pokemon.List(r.Context(), middleware.ClientIP(r), limit, offset)
	common.RespondWithJSON(w, res.Status, res.Envelope)
}
