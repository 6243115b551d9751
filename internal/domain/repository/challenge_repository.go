package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"adventure_hunt/internal/common"
	"adventure_hunt/internal/domain/model"
)

// ChallengeFilter narrows a listing; zero values mean no filter.
type ChallengeFilter struct {
	Type       model.ChallengeType
	Difficulty model.Difficulty
}

type ChallengeRepository interface {
	Create(ctx context.Context, challenge *model.Challenge) error
	FindByID(ctx context.Context, id int64) (*model.Challenge, error)
	List(ctx context.Context, filter ChallengeFilter) ([]model.Challenge, error)
	Nearby(ctx context.Context, lat, lng, radiusKm float64) ([]model.Challenge, error)
	Deactivate(ctx context.Context, id int64) error
}

type pgChallengeRepository struct {
	db *sql.DB
}

func NewPgChallengeRepository(db *sql.DB) ChallengeRepository {
	return &pgChallengeRepository{db: db}
}

const challengeColumns = `id, title, description, challenge_type, difficulty, points,
	coordinates_lat, coordinates_lng, radius_meters, weather_condition, pokemon_id,
	news_keyword, is_active, created_at`

func scanChallenge(row interface{ Scan(...interface{}) error }, c *model.Challenge) error {
	return row.Scan(
		&c.ID, &c.Title, &c.Description, &c.ChallengeType, &c.Difficulty, &c.Points,
		&c.CoordinatesLat, &c.CoordinatesLng, &c.RadiusMeters, &c.WeatherCondition,
		&c.PokemonID, &c.NewsKeyword, &c.IsActive, &c.CreatedAt,
	)
}

func (r *pgChallengeRepository) Create(ctx context.Context, c *model.Challenge) error {
	query := `INSERT INTO challenges
	            (title, description, challenge_type, difficulty, points,
	             coordinates_lat, coordinates_lng, radius_meters,
	             weather_condition, pokemon_id, news_keyword, is_active)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, TRUE)
	          RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query,
		c.Title, c.Description, c.ChallengeType, c.Difficulty, c.Points,
		c.CoordinatesLat, c.CoordinatesLng, c.RadiusMeters,
		c.WeatherCondition, c.PokemonID, c.NewsKeyword,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("pgChallengeRepository.Create: %w", err)
	}
	c.IsActive = true
	return nil
}

func (r *pgChallengeRepository) FindByID(ctx context.Context, id int64) (*model.Challenge, error) {
	query := `SELECT ` + challengeColumns + ` FROM challenges WHERE id = $1`
	challenge := &model.Challenge{}
	if err := scanChallenge(r.db.QueryRowContext(ctx, query, id), challenge); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgChallengeRepository.FindByID: %w", err)
	}
	return challenge, nil
}

func (r *pgChallengeRepository) List(ctx context.Context, filter ChallengeFilter) ([]model.Challenge, error) {
	var query strings.Builder
	query.WriteString(`SELECT ` + challengeColumns + ` FROM challenges WHERE is_active`)

	var args []interface{}
	argID := 1
	if filter.Type != "" {
		query.WriteString(fmt.Sprintf(" AND challenge_type = $%d", argID))
		args = append(args, filter.Type)
		argID++
	}
	if filter.Difficulty != "" {
		query.WriteString(fmt.Sprintf(" AND difficulty = $%d", argID))
		args = append(args, filter.Difficulty)
		argID++
	}
	// Display ordering, not a ranking guarantee.
	query.WriteString(" ORDER BY difficulty, challenge_type, id")

	rows, err := r.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("pgChallengeRepository.List query: %w", err)
	}
	defer rows.Close()

	challenges := []model.Challenge{}
	for rows.Next() {
		var c model.Challenge
		if err := scanChallenge(rows, &c); err != nil {
			return nil, fmt.Errorf("pgChallengeRepository.List scan: %w", err)
		}
		challenges = append(challenges, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgChallengeRepository.List rows.Err: %w", err)
	}
	return challenges, nil
}

func (r *pgChallengeRepository) Nearby(ctx context.Context, lat, lng, radiusKm float64) ([]model.Challenge, error) {
	// Great-circle distance, earth radius 6371 km. Challenges without
	// coordinates are excluded, not treated as zero-distance.
	query := `
	    SELECT ` + challengeColumns + `, distance_km FROM (
	        SELECT *,
	               6371 * acos(least(1.0, greatest(-1.0,
	                   cos(radians($1)) * cos(radians(coordinates_lat)) *
	                   cos(radians(coordinates_lng) - radians($2)) +
	                   sin(radians($1)) * sin(radians(coordinates_lat))
	               ))) AS distance_km
	        FROM challenges
	        WHERE coordinates_lat IS NOT NULL
	          AND coordinates_lng IS NOT NULL
	          AND is_active
	    ) nearby
	    WHERE distance_km <= $3
	    ORDER BY distance_km`

	rows, err := r.db.QueryContext(ctx, query, lat, lng, radiusKm)
	if err != nil {
		return nil, fmt.Errorf("pgChallengeRepository.Nearby query: %w", err)
	}
	defer rows.Close()

	challenges := []model.Challenge{}
	for rows.Next() {
		var c model.Challenge
		if err := rows.Scan(
			&c.ID, &c.Title, &c.Description, &c.ChallengeType, &c.Difficulty, &c.Points,
			&c.CoordinatesLat, &c.CoordinatesLng, &c.RadiusMeters, &c.WeatherCondition,
			&c.PokemonID, &c.NewsKeyword, &c.IsActive, &c.CreatedAt, &c.DistanceKm,
		); err != nil {
			return nil, fmt.Errorf("pgChallengeRepository.Nearby scan: %w", err)
		}
		challenges = append(challenges, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgChallengeRepository.Nearby rows.Err: %w", err)
	}
	return challenges, nil
}

func (r *pgChallengeRepository) Deactivate(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE challenges SET is_active = FALSE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgChallengeRepository.Deactivate: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrNotFound
	}
	return nil
}
