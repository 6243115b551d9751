package model

import "time"

type ChallengeType string

const (
	TypeLocation ChallengeType = "location"
	TypeWeather  ChallengeType = "weather"
	TypePokemon  ChallengeType = "pokemon"
	TypeNews     ChallengeType = "news"
)

func (t ChallengeType) Valid() bool {
	switch t {
	case TypeLocation, TypeWeather, TypePokemon, TypeNews:
		return true
	}
	return false
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// DefaultPoints is the conventional reward per difficulty. Points is still
// stored explicitly on each challenge.
func (d Difficulty) DefaultPoints() int {
	switch d {
	case DifficultyEasy:
		return 2
	case DifficultyMedium:
		return 4
	case DifficultyHard:
		return 6
	}
	return 0
}

// DefaultRadiusMeters applies when a geo-targeted challenge omits its radius.
const DefaultRadiusMeters = 100

type Challenge struct {
	ID               int64         `json:"id"`
	Title            string        `json:"title"`
	Description      string        `json:"description"`
	ChallengeType    ChallengeType `json:"challenge_type"`
	Difficulty       Difficulty    `json:"difficulty"`
	Points           int           `json:"points"`
	CoordinatesLat   *float64      `json:"coordinates_lat,omitempty"`
	CoordinatesLng   *float64      `json:"coordinates_lng,omitempty"`
	RadiusMeters     *int          `json:"radius_meters,omitempty"`
	WeatherCondition *string       `json:"weather_condition,omitempty"`
	PokemonID        *int          `json:"pokemon_id,omitempty"`
	NewsKeyword      *string       `json:"news_keyword,omitempty"`
	IsActive         bool          `json:"is_active"`
	CreatedAt        time.Time     `json:"created_at"`

	// DistanceKm is only populated by the nearby search.
	DistanceKm *float64 `json:"distance_km,omitempty"`
}
