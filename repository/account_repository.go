package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"aura/database"
	"aura/models"
)

const accountColumns = `
	user_id, guild_id, balance,
	wins, losses, total_gained, total_lost, biggest_win, biggest_loss,
	shield_expires_at, multiplier_expires_at, items,
	last_daily_claim, created_at, updated_at`

// AccountRepository implements the AccountRepository interface, scoped to a
// single guild
type AccountRepository struct {
	q       queryable
	guildID int64
}

// NewAccountRepository creates a pool-backed account repository for
// guild-independent maintenance work
func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{q: db.Pool}
}

// newAccountRepositoryWithTx creates an account repository bound to a
// transaction and a guild
func newAccountRepositoryWithTx(tx queryable, guildID int64) *AccountRepository {
	return &AccountRepository{q: tx, guildID: guildID}
}

func scanAccount(row pgx.Row) (*models.Account, error) {
	var account models.Account
	err := row.Scan(
		&account.UserID,
		&account.GuildID,
		&account.Balance,
		&account.Wins,
		&account.Losses,
		&account.TotalGained,
		&account.TotalLost,
		&account.BiggestWin,
		&account.BiggestLoss,
		&account.ShieldExpiresAt,
		&account.MultiplierExpiresAt,
		&account.Items,
		&account.LastDailyClaim,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// Get retrieves an account, or nil when absent
func (r *AccountRepository) Get(ctx context.Context, userID int64) (*models.Account, error) {
	query := `
		SELECT` + accountColumns + `
		FROM accounts
		WHERE user_id = $1 AND guild_id = $2
	`

	account, err := scanAccount(r.q.QueryRow(ctx, query, userID, r.guildID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account for user %d: %w", userID, err)
	}
	return account, nil
}

// GetForUpdate retrieves an account with its row locked for the duration of
// the transaction, or nil when absent
func (r *AccountRepository) GetForUpdate(ctx context.Context, userID int64) (*models.Account, error) {
	query := `
		SELECT` + accountColumns + `
		FROM accounts
		WHERE user_id = $1 AND guild_id = $2
		FOR UPDATE
	`

	account, err := scanAccount(r.q.QueryRow(ctx, query, userID, r.guildID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock account for user %d: %w", userID, err)
	}
	return account, nil
}

// Create creates a new account with the initial balance. When a concurrent
// transaction already inserted the row it returns nil without error; the
// caller re-reads under its own lock.
func (r *AccountRepository) Create(ctx context.Context, userID int64, initialBalance int64) (*models.Account, error) {
	query := `
		INSERT INTO accounts (user_id, guild_id, balance)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, guild_id) DO NOTHING
		RETURNING` + accountColumns + `
	`

	account, err := scanAccount(r.q.QueryRow(ctx, query, userID, r.guildID, initialBalance))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create account for user %d: %w", userID, err)
	}
	return account, nil
}

// Save persists the account's mutable columns
func (r *AccountRepository) Save(ctx context.Context, account *models.Account) error {
	query := `
		UPDATE accounts
		SET balance = $3,
			wins = $4,
			losses = $5,
			total_gained = $6,
			total_lost = $7,
			biggest_win = $8,
			biggest_loss = $9,
			shield_expires_at = $10,
			multiplier_expires_at = $11,
			items = $12,
			last_daily_claim = $13,
			updated_at = NOW()
		WHERE user_id = $1 AND guild_id = $2
	`

	result, err := r.q.Exec(ctx, query,
		account.UserID,
		r.guildID,
		account.Balance,
		account.Wins,
		account.Losses,
		account.TotalGained,
		account.TotalLost,
		account.BiggestWin,
		account.BiggestLoss,
		account.ShieldExpiresAt,
		account.MultiplierExpiresAt,
		account.Items,
		account.LastDailyClaim,
	)
	if err != nil {
		return fmt.Errorf("failed to save account for user %d: %w", account.UserID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("account for user %d not found", account.UserID)
	}
	return nil
}

// Reset restores the account to its initial state and returns it
func (r *AccountRepository) Reset(ctx context.Context, userID int64, initialBalance int64) (*models.Account, error) {
	query := `
		UPDATE accounts
		SET balance = $3,
			wins = 0,
			losses = 0,
			total_gained = 0,
			total_lost = 0,
			biggest_win = 0,
			biggest_loss = 0,
			shield_expires_at = NULL,
			multiplier_expires_at = NULL,
			items = '{}',
			last_daily_claim = NULL,
			updated_at = NOW()
		WHERE user_id = $1 AND guild_id = $2
		RETURNING` + accountColumns + `
	`

	account, err := scanAccount(r.q.QueryRow(ctx, query, userID, r.guildID, initialBalance))
	if err != nil {
		return nil, fmt.Errorf("failed to reset account for user %d: %w", userID, err)
	}
	return account, nil
}

// TopByBalance returns up to limit accounts ordered by balance descending,
// ties broken by ascending user id
func (r *AccountRepository) TopByBalance(ctx context.Context, limit int) ([]*models.Account, error) {
	query := `
		SELECT` + accountColumns + `
		FROM accounts
		WHERE guild_id = $1
		ORDER BY balance DESC, user_id ASC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, r.guildID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}

	return accounts, nil
}

// PurgeExpiredEffects clears expired effect slots across all guilds and
// returns the number of slots cleared
func (r *AccountRepository) PurgeExpiredEffects(ctx context.Context) (int64, error) {
	query := `
		UPDATE accounts
		SET shield_expires_at = CASE WHEN shield_expires_at <= NOW() THEN NULL ELSE shield_expires_at END,
			multiplier_expires_at = CASE WHEN multiplier_expires_at <= NOW() THEN NULL ELSE multiplier_expires_at END
		WHERE shield_expires_at <= NOW() OR multiplier_expires_at <= NOW()
	`

	result, err := r.q.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired effects: %w", err)
	}
	return result.RowsAffected(), nil
}
