package models

import (
	"time"
)

// TransactionType represents the reason for a balance change
type TransactionType string

const (
	TransactionTypeInitial          TransactionType = "initial"
	TransactionTypeSlotsWin         TransactionType = "slots_win"
	TransactionTypeSlotsLoss        TransactionType = "slots_loss"
	TransactionTypeFlipWin          TransactionType = "flip_win"
	TransactionTypeFlipLoss         TransactionType = "flip_loss"
	TransactionTypeRollWin          TransactionType = "roll_win"
	TransactionTypeRollClose        TransactionType = "roll_close"
	TransactionTypeRollLoss         TransactionType = "roll_loss"
	TransactionTypeDaily            TransactionType = "daily_reward"
	TransactionTypeDonationSent     TransactionType = "donation_sent"
	TransactionTypeDonationReceived TransactionType = "donation_received"
	TransactionTypeDrainSuccess     TransactionType = "drain_success"
	TransactionTypeDrained          TransactionType = "drained_by_user"
	TransactionTypeDrainBackfire    TransactionType = "drain_backfire"
	TransactionTypeShopPurchase     TransactionType = "shop_purchase"
	TransactionTypeBombHit          TransactionType = "bomb_hit"
	TransactionTypeAdminAdd         TransactionType = "admin_add"
	TransactionTypeAdminRemove      TransactionType = "admin_remove"
	TransactionTypeAdminSet         TransactionType = "admin_set"
	TransactionTypeReset            TransactionType = "reset"
)

// TransactionRecord is an immutable audit entry for a single balance change.
// One record is appended in the same transaction as every balance mutation.
type TransactionRecord struct {
	ID              int64           `db:"id"`
	GuildID         int64           `db:"guild_id"`
	UserID          int64           `db:"user_id"`
	BalanceBefore   int64           `db:"balance_before"`
	BalanceAfter    int64           `db:"balance_after"`
	ChangeAmount    int64           `db:"change_amount"`
	TransactionType TransactionType `db:"transaction_type"`
	ActorID         *int64          `db:"actor_id"`
	Metadata        map[string]any  `db:"transaction_metadata"`
	CreatedAt       time.Time       `db:"created_at"`
}
