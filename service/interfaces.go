package service

import (
	"context"
	"time"

	"aura/events"
	"aura/models"
)

// AccountRepository defines the interface for account data access. All
// methods are scoped to the guild the enclosing unit of work was created
// for.
type AccountRepository interface {
	// Get retrieves an account, or nil when absent
	Get(ctx context.Context, userID int64) (*models.Account, error)

	// GetForUpdate retrieves an account and locks its row for the duration
	// of the transaction, or nil when absent
	GetForUpdate(ctx context.Context, userID int64) (*models.Account, error)

	// Create creates a new account with the initial balance. Returns nil
	// without error when a concurrent transaction created the row first.
	Create(ctx context.Context, userID int64, initialBalance int64) (*models.Account, error)

	// Save persists the account's balance, stats, effects, inventory and
	// daily claim timestamp
	Save(ctx context.Context, account *models.Account) error

	// Reset restores the account to its initial state and returns it
	Reset(ctx context.Context, userID int64, initialBalance int64) (*models.Account, error)

	// TopByBalance returns up to limit accounts ordered by balance
	// descending, ties broken by ascending user id
	TopByBalance(ctx context.Context, limit int) ([]*models.Account, error)
}

// CooldownRepository defines the interface for the per-(user, action)
// cooldown ledger
type CooldownRepository interface {
	// CheckAndSet atomically records the action as used now if its window
	// has elapsed. When blocked it reports the remaining wait instead; a
	// concurrent caller cannot also pass.
	CheckAndSet(ctx context.Context, userID int64, action string, window time.Duration) (ready bool, remaining time.Duration, err error)

	// ClearForUser removes all cooldown entries for a user
	ClearForUser(ctx context.Context, userID int64) error
}

// LedgerRepository defines the interface for the append-only transaction
// audit log
type LedgerRepository interface {
	// Record appends a transaction record
	Record(ctx context.Context, record *models.TransactionRecord) error

	// GetByUser returns the most recent records for a user
	GetByUser(ctx context.Context, userID int64, limit int) ([]*models.TransactionRecord, error)
}

// EffectSweepRepository purges expired effect slots across all guilds
type EffectSweepRepository interface {
	PurgeExpiredEffects(ctx context.Context) (int64, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// AccountService exposes account-level reads
type AccountService interface {
	// GetProfile returns the account's balance, title, stats and active
	// effects, creating the account on first access
	GetProfile(ctx context.Context, guildID, userID int64) (*models.Profile, error)

	// GetHistory returns the most recent ledger entries for an account
	GetHistory(ctx context.Context, guildID, userID int64, limit int) ([]*models.TransactionRecord, error)
}

// GameService exposes the probabilistic mini-games
type GameService interface {
	PlaySlots(ctx context.Context, guildID, userID int64, bet int64) (*models.SlotsResult, error)
	PlayFlip(ctx context.Context, guildID, userID int64, bet int64, choice string) (*models.FlipResult, error)
	PlayRoll(ctx context.Context, guildID, userID int64, bet int64, target int) (*models.RollResult, error)
	ClaimDaily(ctx context.Context, guildID, userID int64) (*models.DailyReward, error)
}

// TransferService exposes peer-to-peer balance movement
type TransferService interface {
	// Donate transfers amount from sender to recipient, conserving the sum
	// of the two balances
	Donate(ctx context.Context, guildID, fromUserID, toUserID int64, amount int64) (*models.DonationReceipt, error)

	// Drain attempts to steal a bounded amount from the target, with a
	// punitive backfire on failure
	Drain(ctx context.Context, guildID, attackerID, targetID int64) (*models.DrainResult, error)
}

// ShopService exposes item purchases and consumable use
type ShopService interface {
	BuyItem(ctx context.Context, guildID, userID int64, item string) (*models.PurchaseReceipt, error)
	UseBomb(ctx context.Context, guildID, userID, targetID int64) (*models.BombResult, error)
}

// AdminService exposes privileged balance overrides. Privilege is verified
// by the dispatcher; every call is logged with the acting admin's identity.
type AdminService interface {
	Adjust(ctx context.Context, guildID, actorID, targetID int64, op models.AdminOp, amount int64) (*models.AdminReceipt, error)
	Reset(ctx context.Context, guildID, actorID, targetID int64) error
}

// LeaderboardService exposes the ranked top-N balance query
type LeaderboardService interface {
	Top(ctx context.Context, guildID int64, n int) ([]*models.LeaderboardEntry, error)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	AccountRepository() AccountRepository
	CooldownRepository() CooldownRepository
	LedgerRepository() LedgerRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// CreateForGuild creates a new UnitOfWork instance scoped to a specific guild
	CreateForGuild(guildID int64) UnitOfWork
}
