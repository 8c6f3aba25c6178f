package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lk16/mines/internal/models"
	"github.com/lk16/mines/internal/services"
)

const (
	gameStatsKey      = "game_stats"
	gameStatsPlayed   = "played"
	OutcomeWon        = "won"
	OutcomeLost       = "lost"
	createGamesSchema = `
		CREATE TABLE IF NOT EXISTS games (
			id          UUID PRIMARY KEY,
			session_id  TEXT NOT NULL,
			width       INTEGER NOT NULL,
			height      INTEGER NOT NULL,
			mines_count INTEGER NOT NULL,
			outcome     TEXT NOT NULL,
			moves       INTEGER NOT NULL,
			finished_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`
)

// GameRepository stores finished games in Postgres and keeps outcome counters in Redis.
type GameRepository struct {
	services *services.Services
}

// NewGameRepository creates a new GameRepository.
func NewGameRepository(c *fiber.Ctx) *GameRepository {
	services := c.Locals("services").(*services.Services) //nolint: errcheck

	return &GameRepository{
		services: services,
	}
}

func NewGameRepositoryFromServices(services *services.Services) *GameRepository {
	return &GameRepository{
		services: services,
	}
}

// EnsureSchema creates the games table if it does not exist yet.
func (repo *GameRepository) EnsureSchema(ctx context.Context) error {
	if _, err := repo.services.Postgres.ExecContext(ctx, createGamesSchema); err != nil {
		return fmt.Errorf("error creating games table: %w", err)
	}
	return nil
}

// RecordGame stores a finished game and bumps the outcome counters.
func (repo *GameRepository) RecordGame(ctx context.Context, record models.GameRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}

	query := `
		INSERT INTO games (id, session_id, width, height, mines_count, outcome, moves, finished_at)
		VALUES (:id, :session_id, :width, :height, :mines_count, :outcome, :moves, :finished_at)
	`

	if _, err := repo.services.Postgres.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("error inserting game: %w", err)
	}

	pipe := repo.services.Redis.Pipeline()
	pipe.HIncrBy(ctx, gameStatsKey, gameStatsPlayed, 1)
	pipe.HIncrBy(ctx, gameStatsKey, record.Outcome, 1)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("error updating game stats in Redis: %w", err)
	}

	return nil
}

// buildInitialGameStats fills the Redis counters from Postgres.
func (repo *GameRepository) buildInitialGameStats(ctx context.Context) (map[string]string, error) {
	query := `
		SELECT outcome, count(*)
		FROM games
		GROUP BY outcome
	`

	type statRow struct {
		Outcome string `db:"outcome"`
		Count   int    `db:"count"`
	}

	var rows []statRow
	if err := repo.services.Postgres.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("error loading game stats: %w", err)
	}

	if len(rows) == 0 {
		return map[string]string{}, nil
	}

	played := 0
	statsMap := make(map[string]interface{}, len(rows)+1)
	for _, row := range rows {
		statsMap[row.Outcome] = row.Count
		played += row.Count
	}
	statsMap[gameStatsPlayed] = played

	if err := repo.services.Redis.HSet(ctx, gameStatsKey, statsMap).Err(); err != nil {
		return nil, fmt.Errorf("error storing game stats in Redis: %w", err)
	}

	stats := make(map[string]string, len(statsMap))
	for key, value := range statsMap {
		stats[key] = fmt.Sprint(value)
	}

	return stats, nil
}

// GetGameStats returns how many games were won and lost.
func (repo *GameRepository) GetGameStats(ctx context.Context) (models.GameStats, error) {
	stats, err := repo.services.Redis.HGetAll(ctx, gameStatsKey).Result()
	if err != nil {
		return models.GameStats{}, fmt.Errorf("error getting game stats from Redis: %w", err)
	}

	if len(stats) == 0 {
		stats, err = repo.buildInitialGameStats(ctx)
		if err != nil {
			return models.GameStats{}, fmt.Errorf("error building initial game stats: %w", err)
		}
	}

	var gameStats models.GameStats

	fields := map[string]*int{
		gameStatsPlayed: &gameStats.Played,
		OutcomeWon:      &gameStats.Won,
		OutcomeLost:     &gameStats.Lost,
	}

	for key, target := range fields {
		value, ok := stats[key]
		if !ok {
			continue
		}

		*target, err = strconv.Atoi(value)
		if err != nil {
			return models.GameStats{}, fmt.Errorf("error parsing game stats value %q: %w", key, err)
		}
	}

	return gameStats, nil
}
