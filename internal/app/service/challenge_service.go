package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"adventure_hunt/internal/common"
	"adventure_hunt/internal/domain/model"
	"adventure_hunt/internal/domain/repository"

	"go.uber.org/zap"
)

type ChallengeService struct {
	challengeRepo repository.ChallengeRepository
	progressRepo  repository.ProgressRepository
}

func NewChallengeService(
	challengeRepo repository.ChallengeRepository,
	progressRepo repository.ProgressRepository,
) *ChallengeService {
	return &ChallengeService{
		challengeRepo: challengeRepo,
		progressRepo:  progressRepo,
	}
}

type CreateChallengeRequest struct {
	Title            string              `json:"title"`
	Description      string              `json:"description"`
	ChallengeType    model.ChallengeType `json:"challenge_type"`
	Difficulty       model.Difficulty    `json:"difficulty"`
	Points           int                 `json:"points"`
	CoordinatesLat   *float64            `json:"coordinates_lat,omitempty"`
	CoordinatesLng   *float64            `json:"coordinates_lng,omitempty"`
	RadiusMeters     *int                `json:"radius_meters,omitempty"`
	WeatherCondition *string             `json:"weather_condition,omitempty"`
	PokemonID        *int                `json:"pokemon_id,omitempty"`
	NewsKeyword      *string             `json:"news_keyword,omitempty"`
}

func (s *ChallengeService) CreateChallenge(ctx context.Context, req CreateChallengeRequest) (*model.Challenge, error) {
	if req.Title == "" || req.Description == "" {
		return nil, fmt.Errorf("title and description are required: %w", common.ErrBadRequest)
	}
	if !req.ChallengeType.Valid() {
		return nil, fmt.Errorf("unknown challenge_type %q: %w", req.ChallengeType, common.ErrBadRequest)
	}
	if !req.Difficulty.Valid() {
		return nil, fmt.Errorf("unknown difficulty %q: %w", req.Difficulty, common.ErrBadRequest)
	}
	if req.Points == 0 {
		req.Points = req.Difficulty.DefaultPoints()
	}
	if req.Points <= 0 {
		return nil, fmt.Errorf("points must be positive: %w", common.ErrBadRequest)
	}

	if (req.CoordinatesLat == nil) != (req.CoordinatesLng == nil) {
		return nil, fmt.Errorf("coordinates_lat and coordinates_lng must be given together: %w", common.ErrBadRequest)
	}
	if req.CoordinatesLat != nil {
		if err := validateLatLng(*req.CoordinatesLat, *req.CoordinatesLng); err != nil {
			return nil, err
		}
		if req.RadiusMeters == nil {
			radius := model.DefaultRadiusMeters
			req.RadiusMeters = &radius
		} else if *req.RadiusMeters <= 0 {
			return nil, fmt.Errorf("radius_meters must be positive: %w", common.ErrBadRequest)
		}
	}

	challenge := &model.Challenge{
		Title:            req.Title,
		Description:      req.Description,
		ChallengeType:    req.ChallengeType,
		Difficulty:       req.Difficulty,
		Points:           req.Points,
		CoordinatesLat:   req.CoordinatesLat,
		CoordinatesLng:   req.CoordinatesLng,
		RadiusMeters:     req.RadiusMeters,
		WeatherCondition: req.WeatherCondition,
		PokemonID:        req.PokemonID,
		NewsKeyword:      req.NewsKeyword,
	}
	if err := s.challengeRepo.Create(ctx, challenge); err != nil {
		common.Logger.Error("challenge creation failed", zap.Error(err))
		return nil, common.ErrInternalServer
	}
	return challenge, nil
}

func (s *ChallengeService) ListChallenges(ctx context.Context, filter repository.ChallengeFilter) ([]model.Challenge, error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, fmt.Errorf("unknown challenge_type %q: %w", filter.Type, common.ErrBadRequest)
	}
	if filter.Difficulty != "" && !filter.Difficulty.Valid() {
		return nil, fmt.Errorf("unknown difficulty %q: %w", filter.Difficulty, common.ErrBadRequest)
	}
	challenges, err := s.challengeRepo.List(ctx, filter)
	if err != nil {
		common.Logger.Error("challenge listing failed", zap.Error(err))
		return nil, common.ErrInternalServer
	}
	return challenges, nil
}

func (s *ChallengeService) GetChallenge(ctx context.Context, id int64) (*model.Challenge, error) {
	challenge, err := s.challengeRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("challenge not found: %w", common.ErrNotFound)
		}
		common.Logger.Error("challenge lookup failed", zap.Error(err), zap.Int64("challenge_id", id))
		return nil, common.ErrInternalServer
	}
	return challenge, nil
}

func (s *ChallengeService) DeactivateChallenge(ctx context.Context, id int64) error {
	err := s.challengeRepo.Deactivate(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("challenge not found: %w", common.ErrNotFound)
		}
		common.Logger.Error("challenge deactivation failed", zap.Error(err), zap.Int64("challenge_id", id))
		return common.ErrInternalServer
	}
	return nil
}

type CompletionResult struct {
	PointsEarned int `json:"points_earned"`
}

// CompleteChallenge records a completion at most once per (user, challenge).
// The points snapshot is taken from the challenge at completion time. For
// location challenges with a geo target the reported position must fall
// inside the target radius; other evidence is stored without verification.
func (s *ChallengeService) CompleteChallenge(ctx context.Context, userID string, challengeID int64, evidence model.Evidence) (*CompletionResult, error) {
	challenge, err := s.challengeRepo.FindByID(ctx, challengeID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("challenge not found: %w", common.ErrNotFound)
		}
		common.Logger.Error("challenge lookup failed", zap.Error(err), zap.Int64("challenge_id", challengeID))
		return nil, common.ErrInternalServer
	}
	if !challenge.IsActive {
		return nil, fmt.Errorf("challenge not found: %w", common.ErrNotFound)
	}

	if err := verifyLocationEvidence(challenge, evidence.UserLocation); err != nil {
		return nil, err
	}

	completion := &model.Completion{
		UserID:      userID,
		ChallengeID: challengeID,
		ScoreEarned: challenge.Points,
		WeatherData: evidence.WeatherCondition,
		PokemonData: evidence.PokemonFound,
		NewsData:    evidence.NewsArticle,
	}
	if evidence.UserLocation != nil {
		completion.LocationLat = &evidence.UserLocation.Lat
		completion.LocationLng = &evidence.UserLocation.Lng
	}

	if err := s.progressRepo.Record(ctx, completion); err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, fmt.Errorf("challenge already completed: %w", common.ErrConflict)
		}
		common.Logger.Error("completion recording failed", zap.Error(err),
			zap.String("user_id", userID), zap.Int64("challenge_id", challengeID))
		return nil, common.ErrInternalServer
	}

	return &CompletionResult{PointsEarned: challenge.Points}, nil
}

// verifyLocationEvidence checks the reported position against a location
// challenge's geo target. Reported GPS accuracy widens the acceptance radius.
func verifyLocationEvidence(challenge *model.Challenge, loc *model.EvidenceLocation) error {
	if challenge.ChallengeType != model.TypeLocation ||
		challenge.CoordinatesLat == nil || challenge.CoordinatesLng == nil {
		return nil
	}
	if loc == nil {
		return fmt.Errorf("location evidence is required for this challenge: %w", common.ErrValidation)
	}
	if err := validateLatLng(loc.Lat, loc.Lng); err != nil {
		return err
	}

	radius := float64(model.DefaultRadiusMeters)
	if challenge.RadiusMeters != nil {
		radius = float64(*challenge.RadiusMeters)
	}
	if loc.Accuracy != nil && *loc.Accuracy > 0 {
		radius += *loc.Accuracy
	}

	distanceMeters := haversineKm(loc.Lat, loc.Lng, *challenge.CoordinatesLat, *challenge.CoordinatesLng) * 1000
	if distanceMeters > radius {
		return fmt.Errorf("reported location is outside the challenge area: %w", common.ErrValidation)
	}
	return nil
}

func (s *ChallengeService) GetUserProgress(ctx context.Context, userID string) ([]model.ProgressEntry, error) {
	entries, err := s.progressRepo.ListByUser(ctx, userID)
	if err != nil {
		common.Logger.Error("progress listing failed", zap.Error(err), zap.String("user_id", userID))
		return nil, common.ErrInternalServer
	}
	return entries, nil
}

func (s *ChallengeService) GetUserStats(ctx context.Context, userID string) (*model.UserStats, error) {
	stats, err := s.progressRepo.StatsByUser(ctx, userID)
	if err != nil {
		common.Logger.Error("stats aggregation failed", zap.Error(err), zap.String("user_id", userID))
		return nil, common.ErrInternalServer
	}
	return stats, nil
}

func (s *ChallengeService) GetNearbyChallenges(ctx context.Context, lat, lng, radiusKm float64) ([]model.Challenge, error) {
	if err := validateLatLng(lat, lng); err != nil {
		return nil, err
	}
	if radiusKm <= 0 {
		return nil, fmt.Errorf("radius must be positive: %w", common.ErrBadRequest)
	}
	challenges, err := s.challengeRepo.Nearby(ctx, lat, lng, radiusKm)
	if err != nil {
		common.Logger.Error("nearby search failed", zap.Error(err))
		return nil, common.ErrInternalServer
	}
	return challenges, nil
}

func validateLatLng(lat, lng float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude must be between -90 and 90: %w", common.ErrBadRequest)
	}
	if lng < -180 || lng > 180 {
		return fmt.Errorf("longitude must be between -180 and 180: %w", common.ErrBadRequest)
	}
	return nil
}

const earthRadiusKm = 6371

// haversineKm is the great-circle distance between two points, matching the
// SQL distance used by the nearby search.
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	rad := math.Pi / 180
	phi1, phi2 := lat1*rad, lat2*rad
	dPhi := (lat2 - lat1) * rad
	dLambda := (lng2 - lng1) * rad

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
