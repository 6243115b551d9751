package model

import (
	"encoding/json"
	"time"
)

// Completion is one user_progress row: a user finished a challenge once.
type Completion struct {
	ID          int64           `json:"id"`
	UserID      string          `json:"user_id"`
	ChallengeID int64           `json:"challenge_id"`
	CompletedAt time.Time       `json:"completed_at"`
	ScoreEarned int             `json:"score_earned"`
	LocationLat *float64        `json:"location_lat,omitempty"`
	LocationLng *float64        `json:"location_lng,omitempty"`
	WeatherData json.RawMessage `json:"weather_data,omitempty"`
	PokemonData json.RawMessage `json:"pokemon_data,omitempty"`
	NewsData    json.RawMessage `json:"news_data,omitempty"`
}

// ProgressEntry joins a completion with the challenge it belongs to.
type ProgressEntry struct {
	Completion
	Title         string        `json:"title"`
	ChallengeType ChallengeType `json:"challenge_type"`
	Difficulty    Difficulty    `json:"difficulty"`
	Points        int           `json:"points"`
}

type TypeCount struct {
	ChallengeType ChallengeType `json:"challenge_type"`
	Count         int           `json:"count"`
}

type DifficultyCount struct {
	Difficulty Difficulty `json:"difficulty"`
	Count      int        `json:"count"`
}

type UserStats struct {
	TotalCompleted int               `json:"total_completed"`
	TotalPoints    int               `json:"total_points"`
	ByType         []TypeCount       `json:"by_type"`
	ByDifficulty   []DifficultyCount `json:"by_difficulty"`
}

// EvidenceLocation is the caller-reported position at completion time.
type EvidenceLocation struct {
	Lat      float64  `json:"lat"`
	Lng      float64  `json:"lng"`
	Accuracy *float64 `json:"accuracy,omitempty"` // meters, from the device
}

// Evidence carries the type-specific completion payloads. Only the location
// is verified server-side; the rest is stored as opaque blobs.
type Evidence struct {
	UserLocation     *EvidenceLocation `json:"user_location,omitempty"`
	WeatherCondition json.RawMessage   `json:"weather_condition,omitempty"`
	PokemonFound     json.RawMessage   `json:"pokemon_found,omitempty"`
	NewsArticle      json.RawMessage   `json:"news_article,omitempty"`
}
