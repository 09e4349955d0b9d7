package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"aura/models"
)

// LedgerRepository implements the LedgerRepository interface, scoped to a
// single guild
type LedgerRepository struct {
	q       queryable
	guildID int64
}

// newLedgerRepositoryWithTx creates a ledger repository bound to a
// transaction and a guild
func newLedgerRepositoryWithTx(tx queryable, guildID int64) *LedgerRepository {
	return &LedgerRepository{q: tx, guildID: guildID}
}

// Record appends a transaction record
func (r *LedgerRepository) Record(ctx context.Context, record *models.TransactionRecord) error {
	query := `
		INSERT INTO ledger (guild_id, user_id, balance_before, balance_after, change_amount, transaction_type, actor_id, transaction_metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	var metadata []byte
	if record.Metadata != nil {
		var err error
		metadata, err = json.Marshal(record.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal transaction metadata: %w", err)
		}
	}

	err := r.q.QueryRow(ctx, query,
		r.guildID,
		record.UserID,
		record.BalanceBefore,
		record.BalanceAfter,
		record.ChangeAmount,
		record.TransactionType,
		record.ActorID,
		metadata,
	).Scan(&record.ID, &record.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record transaction for user %d: %w", record.UserID, err)
	}

	record.GuildID = r.guildID
	return nil
}

// GetByUser returns the most recent records for a user, newest first
func (r *LedgerRepository) GetByUser(ctx context.Context, userID int64, limit int) ([]*models.TransactionRecord, error) {
	query := `
		SELECT id, guild_id, user_id, balance_before, balance_after, change_amount, transaction_type, actor_id, transaction_metadata, created_at
		FROM ledger
		WHERE user_id = $1 AND guild_id = $2
		ORDER BY id DESC
		LIMIT $3
	`

	rows, err := r.q.Query(ctx, query, userID, r.guildID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger for user %d: %w", userID, err)
	}
	defer rows.Close()

	var records []*models.TransactionRecord
	for rows.Next() {
		var record models.TransactionRecord
		var metadata []byte
		err := rows.Scan(
			&record.ID,
			&record.GuildID,
			&record.UserID,
			&record.BalanceBefore,
			&record.BalanceAfter,
			&record.ChangeAmount,
			&record.TransactionType,
			&record.ActorID,
			&metadata,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger record: %w", err)
		}
		if metadata != nil {
			if err := json.Unmarshal(metadata, &record.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal transaction metadata: %w", err)
			}
		}
		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger records: %w", err)
	}

	return records, nil
}
