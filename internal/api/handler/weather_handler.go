package handler

import (
	"net/http"
	"strconv"

	"adventure_hunt/internal/common"
	"adventure_hunt/internal/provider"

	"github.com/go-chi/chi/v5"
)

type WeatherHandler struct {
	weather *provider.WeatherAdapter
}

func NewWeatherHandler(weather *provider.WeatherAdapter) *WeatherHandler {
	return &WeatherHandler{weather: weather}
}

func (h *WeatherHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.current)
	r.Get("/check", h.checkCondition)
}

func (h *WeatherHandler) current(w http.ResponseWriter, r *http.Request) {
	lat, lon, ok := latLonParams(w, r)
	if !ok {
		return
	}
	res := h.weather.Current(r.Context(), lat, lon)
	common.RespondWithJSON(w, res.Status, res.Envelope)
}

func (h *WeatherHandler) checkCondition(w http.ResponseWriter, r *http.Request) {
	lat, lon, ok := latLonParams(w, r)
	if !ok {
		return
	}
	condition := r.URL.Query().Get("condition")
	if condition == "" {
		common.RespondWithError(w, http.StatusBadRequest, "Missing condition parameter")
		return
	}
	res := h.weather.CheckCondition(r.Context(), lat, lon, condition)
	common.RespondWithJSON(w, res.Status, res.Envelope)
}

func latLonParams(w http.ResponseWriter, r *http.Request) (float64, float64, bool) {
	lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, lonErr := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if latErr != nil || lonErr != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Missing lat/lon parameters")
		return 0, 0, false
	}
	return lat, lon, true
}
