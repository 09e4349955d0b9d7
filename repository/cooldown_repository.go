package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// CooldownRepository implements the CooldownRepository interface, scoped to
// a single guild
type CooldownRepository struct {
	q       queryable
	guildID int64
}

// newCooldownRepositoryWithTx creates a cooldown repository bound to a
// transaction and a guild
func newCooldownRepositoryWithTx(tx queryable, guildID int64) *CooldownRepository {
	return &CooldownRepository{q: tx, guildID: guildID}
}

// CheckAndSet atomically stamps the action as used now if its window has
// elapsed. The conditional upsert means two concurrent callers cannot both
// pass; the loser reads back the winner's stamp to report the wait.
func (r *CooldownRepository) CheckAndSet(ctx context.Context, userID int64, action string, window time.Duration) (bool, time.Duration, error) {
	query := `
		INSERT INTO cooldowns (user_id, guild_id, action, last_used_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, guild_id, action)
		DO UPDATE SET last_used_at = NOW()
		WHERE cooldowns.last_used_at <= NOW() - make_interval(secs => $4)
	`

	result, err := r.q.Exec(ctx, query, userID, r.guildID, action, window.Seconds())
	if err != nil {
		return false, 0, fmt.Errorf("failed to check %s cooldown for user %d: %w", action, userID, err)
	}
	if result.RowsAffected() > 0 {
		return true, 0, nil
	}

	// Blocked. Read back the stamp to compute the remaining wait.
	var lastUsed, now time.Time
	err = r.q.QueryRow(ctx, `
		SELECT last_used_at, NOW()
		FROM cooldowns
		WHERE user_id = $1 AND guild_id = $2 AND action = $3
	`, userID, r.guildID, action).Scan(&lastUsed, &now)
	if err == pgx.ErrNoRows {
		// The blocking row vanished between statements; treat as blocked
		// with no wait so the caller simply retries
		return false, 0, nil
	}
	if err != nil {
		return false, 0, fmt.Errorf("failed to read %s cooldown for user %d: %w", action, userID, err)
	}

	remaining := window - now.Sub(lastUsed)
	if remaining < 0 {
		remaining = 0
	}
	return false, remaining, nil
}

// ClearForUser removes all cooldown entries for a user
func (r *CooldownRepository) ClearForUser(ctx context.Context, userID int64) error {
	query := `
		DELETE FROM cooldowns
		WHERE user_id = $1 AND guild_id = $2
	`

	if _, err := r.q.Exec(ctx, query, userID, r.guildID); err != nil {
		return fmt.Errorf("failed to clear cooldowns for user %d: %w", userID, err)
	}
	return nil
}
