package handler

import (
	"net/http"

	"adventure_hunt/internal/api/middleware"
	"adventure_hunt/internal/app/service"
	"adventure_hunt/internal/common"

	"github.com/go-chi/chi/v5"
)

type UserHandler struct {
	authService      *service.AuthService
	challengeService *service.ChallengeService
}

func NewUserHandler(as *service.AuthService, cs *service.ChallengeService) *UserHandler {
	return &UserHandler{authService: as, challengeService: cs}
}

func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Get("/me", h.profile)
	r.Get("/me/progress", h.progress)
	r.Get("/me/stats", h.stats)
}

func (h *UserHandler) profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	user, err := h.authService.GetUser(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithData(w, http.StatusOK, user)
}

func (h *UserHandler) progress(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	entries, err := h.challengeService.GetUserProgress(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithData(w, http.StatusOK, entries)
}

func (h *UserHandler) stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	stats, err := h.challengeService.GetUserStats(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithData(w, http.StatusOK, stats)
}
