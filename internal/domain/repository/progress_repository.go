package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"adventure_hunt/internal/common"
	"adventure_hunt/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type ProgressRepository interface {
	// Record inserts the completion and updates the user's cached score in
	// one transaction. A second completion for the same (user, challenge)
	// pair fails with ErrConflict via the unique constraint; there is no
	// pre-check, so concurrent calls cannot both succeed.
	Record(ctx context.Context, completion *model.Completion) error
	ListByUser(ctx context.Context, userID string) ([]model.ProgressEntry, error)
	StatsByUser(ctx context.Context, userID string) (*model.UserStats, error)
}

type pgProgressRepository struct {
	db *sql.DB
}

func NewPgProgressRepository(db *sql.DB) ProgressRepository {
	return &pgProgressRepository{db: db}
}

func (r *pgProgressRepository) Record(ctx context.Context, c *model.Completion) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("pgProgressRepository.Record begin: %w", err)
	}
	defer tx.Rollback() // Rollback if not committed

	insertQuery := `INSERT INTO user_progress
	                  (user_id, challenge_id, score_earned, location_lat, location_lng,
	                   weather_data, pokemon_data, news_data)
	                VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	                RETURNING id, completed_at`
	err = tx.QueryRowContext(ctx, insertQuery,
		c.UserID, c.ChallengeID, c.ScoreEarned, c.LocationLat, c.LocationLng,
		nullableJSON(c.WeatherData), nullableJSON(c.PokemonData), nullableJSON(c.NewsData),
	).Scan(&c.ID, &c.CompletedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation on (user_id, challenge_id)
			return fmt.Errorf("challenge already completed: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgProgressRepository.Record insert: %w", err)
	}

	// Both assignments read the pre-update total_score, so the level is
	// derived from the same value the score is built on.
	scoreQuery := `UPDATE users SET
	                 total_score = total_score + $1,
	                 current_level = (total_score + $1) / 100 + 1,
	                 updated_at = CURRENT_TIMESTAMP
	               WHERE id = $2`
	if _, err := tx.ExecContext(ctx, scoreQuery, c.ScoreEarned, c.UserID); err != nil {
		return fmt.Errorf("pgProgressRepository.Record score update: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("pgProgressRepository.Record commit: %w", err)
	}
	return nil
}

func nullableJSON(raw []byte) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return raw
}

func (r *pgProgressRepository) ListByUser(ctx context.Context, userID string) ([]model.ProgressEntry, error) {
	query := `
	    SELECT up.id, up.user_id, up.challenge_id, up.completed_at, up.score_earned,
	           up.location_lat, up.location_lng, up.weather_data, up.pokemon_data, up.news_data,
	           c.title, c.challenge_type, c.difficulty, c.points
	    FROM user_progress up
	    JOIN challenges c ON up.challenge_id = c.id
	    WHERE up.user_id = $1
	    ORDER BY up.completed_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("pgProgressRepository.ListByUser query: %w", err)
	}
	defer rows.Close()

	entries := []model.ProgressEntry{}
	for rows.Next() {
		var e model.ProgressEntry
		var weather, pokemon, news []byte
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.ChallengeID, &e.CompletedAt, &e.ScoreEarned,
			&e.LocationLat, &e.LocationLng, &weather, &pokemon, &news,
			&e.Title, &e.ChallengeType, &e.Difficulty, &e.Points,
		); err != nil {
			return nil, fmt.Errorf("pgProgressRepository.ListByUser scan: %w", err)
		}
		e.WeatherData = weather
		e.PokemonData = pokemon
		e.NewsData = news
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgProgressRepository.ListByUser rows.Err: %w", err)
	}
	return entries, nil
}

func (r *pgProgressRepository) StatsByUser(ctx context.Context, userID string) (*model.UserStats, error) {
	stats := &model.UserStats{
		ByType:       []model.TypeCount{},
		ByDifficulty: []model.DifficultyCount{},
	}

	totalsQuery := `
	    SELECT COUNT(*), COALESCE(SUM(up.score_earned), 0)
	    FROM user_progress up
	    WHERE up.user_id = $1`
	if err := r.db.QueryRowContext(ctx, totalsQuery, userID).Scan(&stats.TotalCompleted, &stats.TotalPoints); err != nil {
		return nil, fmt.Errorf("pgProgressRepository.StatsByUser totals: %w", err)
	}

	typeQuery := `
	    SELECT c.challenge_type, COUNT(*)
	    FROM user_progress up
	    JOIN challenges c ON up.challenge_id = c.id
	    WHERE up.user_id = $1
	    GROUP BY c.challenge_type
	    ORDER BY c.challenge_type`
	rows, err := r.db.QueryContext(ctx, typeQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("pgProgressRepository.StatsByUser by type: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var tc model.TypeCount
		if err := rows.Scan(&tc.ChallengeType, &tc.Count); err != nil {
			return nil, fmt.Errorf("pgProgressRepository.StatsByUser type scan: %w", err)
		}
		stats.ByType = append(stats.ByType, tc)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgProgressRepository.StatsByUser type rows.Err: %w", err)
	}

	difficultyQuery := `
	    SELECT c.difficulty, COUNT(*)
	    FROM user_progress up
	    JOIN challenges c ON up.challenge_id = c.id
	    WHERE up.user_id = $1
	    GROUP BY c.difficulty
	    ORDER BY c.difficulty`
	drows, err := r.db.QueryContext(ctx, difficultyQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("pgProgressRepository.StatsByUser by difficulty: %w", err)
	}
	defer drows.Close()
	for drows.Next() {
		var dc model.DifficultyCount
		if err := drows.Scan(&dc.Difficulty, &dc.Count); err != nil {
			return nil, fmt.Errorf("pgProgressRepository.StatsByUser difficulty scan: %w", err)
		}
		stats.ByDifficulty = append(stats.ByDifficulty, dc)
	}
	if err = drows.Err(); err != nil {
		return nil, fmt.Errorf("pgProgressRepository.StatsByUser difficulty rows.Err: %w", err)
	}

	return stats, nil
}
