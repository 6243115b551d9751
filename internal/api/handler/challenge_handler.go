package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"adventure_hunt/internal/api/middleware"
	"adventure_hunt/internal/app/service"
	"adventure_hunt/internal/common"
	"adventure_hunt/internal/domain/model"
	"adventure_hunt/internal/domain/repository"

	"github.com/go-chi/chi/v5"
)

type ChallengeHandler struct {
	challengeService *service.ChallengeService
}

func NewChallengeHandler(cs *service.ChallengeService) *ChallengeHandler {
	return &ChallengeHandler{challengeService: cs}
}

func (h *ChallengeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listChallenges)       // GET /api/v1/challenges
	r.Get("/nearby", h.nearby)         // GET /api/v1/challenges/nearby
	r.Get("/{challengeID}", h.getChallenge)

	r.Group(func(authed chi.Router) {
		authed.Use(middleware.Authenticator)
		authed.Post("/{challengeID}/complete", h.completeChallenge)

		authed.Group(func(admin chi.Router) {
			admin.Use(middleware.AdminOnly)
			admin.Post("/", h.createChallenge)
			admin.Delete("/{challengeID}", h.deactivateChallenge)
		})
	})
}

func (h *ChallengeHandler) listChallenges(w http.ResponseWriter, r *http.Request) {
	filter := repository.ChallengeFilter{
		Type:       model.ChallengeType(r.URL.Query().Get("type")),
		Difficulty: model.Difficulty(r.URL.Query().Get("difficulty")),
	}

	challenges, err := h.challengeService.ListChallenges(r.Context(), filter)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithData(w, http.StatusOK, challenges)
}

func (h *ChallengeHandler) getChallenge(w http.ResponseWriter, r *http.Request) {
	id, err := challengeIDParam(r)
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	challenge, err := h.challengeService.GetChallenge(r.Context(), id)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithData(w, http.StatusOK, challenge)
}

func (h *ChallengeHandler) createChallenge(w http.ResponseWriter, r *http.Request) {
	var req service.CreateChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	challenge, err := h.challengeService.CreateChallenge(r.Context(), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithData(w, http.StatusCreated, challenge)
}

func (h *ChallengeHandler) deactivateChallenge(w http.ResponseWriter, r *http.Request) {
	id, err := challengeIDParam(r)
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.challengeService.DeactivateChallenge(r.Context(), id); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithData(w, http.StatusOK, map[string]string{"message": "Challenge deactivated"})
}

type completeRequest struct {
	CompletionData model.Evidence `json:"completion_data"`
}

func (h *ChallengeHandler) completeChallenge(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	id, err := challengeIDParam(r)
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	// An empty body means completion without evidence.
	var req completeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	result, err := h.challengeService.CompleteChallenge(r.Context(), userID, id, req.CompletionData)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithData(w, http.StatusCreated, result)
}

func (h *ChallengeHandler) nearby(w http.ResponseWriter, r *http.Request) {
	lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lng, lngErr := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if latErr != nil || lngErr != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Missing lat/lng parameters")
		return
	}

	radiusKm := 5.0
	if radiusStr := r.URL.Query().Get("radius"); radiusStr != "" {
		parsed, err := strconv.ParseFloat(radiusStr, 64)
		if err != nil {
			common.RespondWithError(w, http.StatusBadRequest, "Invalid radius parameter")
			return
		}
		radiusKm = parsed
	}

	challenges, err := h.challengeService.GetNearbyChallenges(r.Context(), lat, lng, radiusKm)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithData(w, http.StatusOK, challenges)
}

func challengeIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "challengeID"), 10, 64)
	if err != nil || id < 1 {
		return 0, errors.New("invalid challenge id")
	}
	return id, nil
}
