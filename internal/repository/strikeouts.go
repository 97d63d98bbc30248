package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// StrikeoutRepository stores in-game strikeout totals of Final games.
// Those totals never change, so a stored row is authoritative.
type StrikeoutRepository struct {
	db *Database
}

// GetFinal returns the stored total for a pitcher in a game, if any
func (r *StrikeoutRepository) GetFinal(ctx context.Context, gamePK, pitcherID int) (int, bool, error) {
	query := `
		SELECT strikeouts
		FROM final_strikeouts
		WHERE game_pk = $1 AND pitcher_id = $2
	`

	var k int
	err := r.db.Pool.QueryRow(ctx, query, gamePK, pitcherID).Scan(&k)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get final strikeouts: %w", err)
	}

	return k, true, nil
}

// SaveFinal inserts or updates a pitcher's final total
func (r *StrikeoutRepository) SaveFinal(ctx context.Context, gamePK, pitcherID int, pitcherName string, strikeouts int) error {
	query := `
		INSERT INTO final_strikeouts (game_pk, pitcher_id, pitcher_name, strikeouts)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (game_pk, pitcher_id) DO UPDATE SET
			pitcher_name = EXCLUDED.pitcher_name,
			strikeouts = EXCLUDED.strikeouts,
			updated_at = NOW()
	`

	if _, err := r.db.Pool.Exec(ctx, query, gamePK, pitcherID, pitcherName, strikeouts); err != nil {
		return fmt.Errorf("failed to save final strikeouts: %w", err)
	}

	log.Debug().
		Int("game_pk", gamePK).
		Int("pitcher_id", pitcherID).
		Int("strikeouts", strikeouts).
		Msg("Final strikeouts saved")

	return nil
}

// DeleteGame removes every stored total for a game
func (r *StrikeoutRepository) DeleteGame(ctx context.Context, gamePK int) error {
	if _, err := r.db.Pool.Exec(ctx, `DELETE FROM final_strikeouts WHERE game_pk = $1`, gamePK); err != nil {
		return fmt.Errorf("failed to delete final strikeouts: %w", err)
	}
	return nil
}
